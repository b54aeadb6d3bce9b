package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nucleav/internal/config"
	"nucleav/internal/model"
	"nucleav/internal/notify"
	"nucleav/internal/service/company"
	"nucleav/internal/service/dashboard"
	"nucleav/internal/session"
	"nucleav/internal/upstream"
	upstreamMocks "nucleav/internal/upstream/mocks"
)

type testEnv struct {
	app *fiber.App
	api *upstreamMocks.MockClient
	hub *notify.Hub
	cfg *config.AppConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.AppConfig{
		AppEnv: "development",
		Auth: config.AuthConfig{
			Secret:        "test-secret",
			SessionTTLSec: 3600,
			CookieName:    "nucleav_session",
		},
	}

	api := new(upstreamMocks.MockClient)
	store := session.NewMemoryStore()
	mgr, err := session.NewManager(api, store, cfg.Auth)
	require.NoError(t, err)

	hub := notify.NewHubWithTimeout(0)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{
		Cfg:       cfg,
		Sessions:  mgr,
		Store:     store,
		API:       api,
		Companies: company.NewService(api, hub),
		Dashboard: dashboard.NewService(api),
		Hub:       hub,
	})

	return &testEnv{app: app, api: api, hub: hub, cfg: cfg}
}

// login performs the credential exchange and returns the session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	e.api.On("Login", mock.Anything, "ana@nucleav.com", "secret").Return(&upstream.LoginResult{
		AccessToken: "tok",
		User:        model.User{ID: "u1", Name: "Ana", Email: "ana@nucleav.com", Role: "admin"},
	}, nil).Once()

	body, _ := json.Marshal(map[string]string{"email": "ana@nucleav.com", "password": "secret"})
	req := httptest.NewRequest(http.MethodPost, "/v1/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == e.cfg.Auth.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestCreateSession(t *testing.T) {
	t.Run("success sets cookie and returns claims", func(t *testing.T) {
		e := newTestEnv(t)
		cookie := e.login(t)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		e := newTestEnv(t)
		e.api.On("Login", mock.Anything, "ana@nucleav.com", "wrong").
			Return(nil, &upstream.APIError{StatusCode: 401}).Once()

		body, _ := json.Marshal(map[string]string{"email": "ana@nucleav.com", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/v1/session", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_CREDENTIALS", res.Error.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		e := newTestEnv(t)
		body, _ := json.Marshal(map[string]string{"email": "ana@nucleav.com"})
		req := httptest.NewRequest(http.MethodPost, "/v1/session", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetSession(t *testing.T) {
	e := newTestEnv(t)

	t.Run("unauthenticated is a normal answer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res sessionResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, session.StatusUnauthenticated, res.Status)
		assert.Nil(t, res.User)
	})

	t.Run("authenticated returns claims", func(t *testing.T) {
		cookie := e.login(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res sessionResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, session.StatusAuthenticated, res.Status)
		require.NotNil(t, res.User)
		assert.Equal(t, "Ana", res.User.Name)
	})
}

func TestDeleteSession(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/session", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The cookie no longer resolves.
	req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(cookie)
	resp, _ = e.app.Test(req)
	var res sessionResponse
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, session.StatusUnauthenticated, res.Status)
}

func TestGuards(t *testing.T) {
	e := newTestEnv(t)

	t.Run("json routes answer 401", func(t *testing.T) {
		for _, path := range []string{"/v1/dashboard", "/v1/companies", "/v1/materials", "/v1/network", "/v1/profile"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			resp, _ := e.app.Test(req)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		}
	})

	t.Run("page routes redirect to login", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/company", "/material", "/red", "/empresa", "/welcome"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			resp, _ := e.app.Test(req)
			assert.Equal(t, http.StatusFound, resp.StatusCode, path)
			assert.Equal(t, "/login", resp.Header.Get("Location"), path)
		}
	})

	t.Run("public pages serve the shell", func(t *testing.T) {
		for _, path := range []string{"/", "/login", "/register"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			resp, _ := e.app.Test(req)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("guarded page serves shell when authenticated", func(t *testing.T) {
		cookie := e.login(t)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "html")
	})
}

func TestGetDashboard(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	now := time.Now()
	e.api.On("Companies", mock.Anything, "tok").Return([]model.Company{
		{CIF: "A11111111", Name: "Lumen Films", IsActive: true, CreatedAt: now, CreatedBy: "u1"},
	}, nil)
	e.api.On("Materials", mock.Anything, "tok").Return([]model.Material{
		{ID: "m1", Name: "intro.mp4", Type: model.MaterialVideo, FileSize: 2048, CreatedAt: now},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats model.DashboardStats
	json.NewDecoder(resp.Body).Decode(&stats)
	assert.Equal(t, 1, stats.TotalCompanies)
	assert.Equal(t, 1, stats.ActiveCompanies)
	assert.Equal(t, 1, stats.MyCompanies)
	assert.Equal(t, "2.00 KB", stats.TotalSize)
	assert.Len(t, stats.RecentActivity, 2)
}

func TestDashboardUpstreamFailure(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.api.On("Companies", mock.Anything, "tok").Return(nil, &upstream.APIError{StatusCode: 500})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var res errorPayload
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "UPSTREAM_ERROR", res.Error.Code)
}

func TestListCompanies(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.api.On("Companies", mock.Anything, "tok").Return([]model.Company{
		{CIF: "A11111111", Name: "Lumen Films", CreatedBy: "u1"},
		{CIF: "B22222222", Name: "Foley Works", CreatedBy: "u2"},
	}, nil)

	t.Run("all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var res struct {
			Data  []model.Company `json:"data"`
			Total int             `json:"total"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("mine tab and query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/companies?tab=mine&q=lumen", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var res struct {
			Data []model.Company `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "A11111111", res.Data[0].CIF)
	})

	t.Run("invalid tab", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/companies?tab=theirs", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateCompanyValidation(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	body, _ := json.Marshal(map[string]string{
		"cif":   "b1234567", // lowercase and 8 chars: invalid
		"name":  "L",
		"phone": "123",
		"email": "nope",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/companies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var res errorPayload
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
	assert.Contains(t, res.Error.Fields, "cif")
	assert.Contains(t, res.Error.Fields, "name")
	assert.Contains(t, res.Error.Fields, "phone")
	assert.Contains(t, res.Error.Fields, "email")
	// Validation failures never reach the upstream API.
	e.api.AssertNotCalled(t, "CreateCompany", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCompanyFlow(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	t.Run("without confirm nothing is deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/companies/A11111111", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CONFIRMATION_REQUIRED", res.Error.Code)
		e.api.AssertNotCalled(t, "DeleteCompany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed delete queues success notification", func(t *testing.T) {
		e.api.On("DeleteCompany", mock.Anything, "tok", "A11111111").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/companies/A11111111?confirm=true", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		// The notification is visible on the next poll.
		req = httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
		req.AddCookie(cookie)
		resp, _ = e.app.Test(req)
		var n model.Notification
		json.NewDecoder(resp.Body).Decode(&n)
		assert.True(t, n.Open)
		assert.Equal(t, model.NotifySuccess, n.Type)
		assert.Contains(t, n.Message, "A11111111")
	})

	t.Run("failed delete queues error notification", func(t *testing.T) {
		e.api.On("DeleteCompany", mock.Anything, "tok", "B22222222").
			Return(&upstream.APIError{StatusCode: 500}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/companies/B22222222?confirm=true", nil)
		req.AddCookie(cookie)
		resp, _ := e.app.Test(req)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		req = httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
		req.AddCookie(cookie)
		resp, _ = e.app.Test(req)
		var n model.Notification
		json.NewDecoder(resp.Body).Decode(&n)
		assert.True(t, n.Open)
		assert.Equal(t, model.NotifyError, n.Type)
	})
}

func TestDismissNotification(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	// Find the session ID through a pushed notification round trip.
	e.api.On("DeleteCompany", mock.Anything, "tok", "A11111111").Return(nil).Once()
	req := httptest.NewRequest(http.MethodDelete, "/v1/companies/A11111111?confirm=true", nil)
	req.AddCookie(cookie)
	e.app.Test(req)

	req = httptest.NewRequest(http.MethodDelete, "/v1/notifications", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	req.AddCookie(cookie)
	resp, _ = e.app.Test(req)
	var n model.Notification
	json.NewDecoder(resp.Body).Decode(&n)
	assert.False(t, n.Open)
}

func TestListMaterials(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.api.On("Materials", mock.Anything, "tok").Return([]model.Material{
		{ID: "m1", Name: "intro.mp4", Type: model.MaterialVideo, FileSize: 1024},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/materials", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	assert.Contains(t, buf.String(), "intro.mp4")
}

func TestGetProfile(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u model.User
	json.NewDecoder(resp.Body).Decode(&u)
	assert.Equal(t, "Ana", u.Name)
	// Claims came from the session; no live identity lookup needed.
	e.api.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.api.On("UpdateMe", mock.Anything, "tok", upstream.ProfileInput{Name: "Ana Maria"}).
		Return(&model.User{ID: "u1", Name: "Ana Maria", Email: "ana@nucleav.com"}, nil).Once()

	body, _ := json.Marshal(map[string]string{"name": "Ana Maria"})
	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, _ := e.app.Test(req)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The stored claims were refreshed; the session now serves the new name.
	req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(cookie)
	resp, _ = e.app.Test(req)
	var res sessionResponse
	json.NewDecoder(resp.Body).Decode(&res)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ana Maria", res.User.Name)
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := e.app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ = e.app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	e := newTestEnv(t)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := e.app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}

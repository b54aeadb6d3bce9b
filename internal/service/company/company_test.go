package company

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nucleav/internal/model"
	"nucleav/internal/notify"
	"nucleav/internal/upstream"
	upstreamMocks "nucleav/internal/upstream/mocks"
)

func testSession() *model.Session {
	return &model.Session{
		ID:        "s1",
		Token:     "tok",
		User:      &model.User{ID: "u1", Name: "Ana"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func validInput() Input {
	return Input{
		CIF:   "B12345678",
		Name:  "Lumen Films",
		Phone: "+34600123456",
		Email: "info@lumen.example",
	}
}

func TestFilterCompanies(t *testing.T) {
	items := []model.Company{
		{CIF: "A11111111", Name: "Lumen Films", Description: "post-production", CreatedBy: "u1"},
		{CIF: "B22222222", Name: "Foley Works", Description: "sound design", CreatedBy: "u2"},
		{CIF: "C33333333", Name: "Grip & Light", Description: "rentals", CreatedBy: "u1"},
	}

	t.Run("substring over name cif description, case-insensitive", func(t *testing.T) {
		assert.Len(t, FilterCompanies(items, Filter{Query: "LUMEN"}, "u1"), 1)
		assert.Len(t, FilterCompanies(items, Filter{Query: "b2222"}, "u1"), 1)
		assert.Len(t, FilterCompanies(items, Filter{Query: "sound"}, "u1"), 1)
		assert.Len(t, FilterCompanies(items, Filter{Query: "zzz"}, "u1"), 0)
		assert.Len(t, FilterCompanies(items, Filter{}, "u1"), 3)
	})

	t.Run("mine tab matches created_by", func(t *testing.T) {
		mine := FilterCompanies(items, Filter{Tab: TabMine}, "u1")
		require.Len(t, mine, 2)
		for _, c := range mine {
			assert.Equal(t, "u1", c.CreatedBy)
		}
		assert.Len(t, FilterCompanies(items, Filter{Tab: TabAll}, "u1"), 3)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := Filter{Query: "li", Tab: TabMine}
		once := FilterCompanies(items, f, "u1")
		twice := FilterCompanies(once, f, "u1")
		assert.Equal(t, once, twice)
	})
}

func TestValidation(t *testing.T) {
	v := newValidator()

	t.Run("valid form passes", func(t *testing.T) {
		assert.Nil(t, validateInput(v, validInput()))
	})

	tests := []struct {
		name      string
		mutate    func(*Input)
		wantField string
	}{
		{"lowercase cif", func(in *Input) { in.CIF = "b12345678" }, "cif"},
		{"8 char cif", func(in *Input) { in.CIF = "B1234567" }, "cif"},
		{"10 char cif", func(in *Input) { in.CIF = "B123456789" }, "cif"},
		{"missing cif", func(in *Input) { in.CIF = "" }, "cif"},
		{"one char name", func(in *Input) { in.Name = "X" }, "name"},
		{"missing name", func(in *Input) { in.Name = "" }, "name"},
		{"short phone", func(in *Input) { in.Phone = "1234567" }, "phone"},
		{"16 digit phone", func(in *Input) { in.Phone = "1234567890123456" }, "phone"},
		{"phone with letters", func(in *Input) { in.Phone = "+34abc12345" }, "phone"},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }, "email"},
		{"missing email", func(in *Input) { in.Email = "" }, "email"},
		{"bad website", func(in *Input) { in.Website = "not a url" }, "website"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			fields := validateInput(v, in)
			require.NotNil(t, fields)
			assert.Contains(t, fields, tt.wantField)
		})
	}

	t.Run("accepted variants", func(t *testing.T) {
		in := validInput()
		in.CIF = "B12345678"
		in.Phone = "12345678" // 8 digits, no plus
		in.Website = "https://lumen.example/reel"
		assert.Nil(t, validateInput(v, in))

		in.Website = "www.lumen.example"
		assert.Nil(t, validateInput(v, in))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and filters", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		api.On("Companies", ctx, "tok").Return([]model.Company{
			{CIF: "A11111111", Name: "Lumen Films", CreatedBy: "u1"},
			{CIF: "B22222222", Name: "Foley Works", CreatedBy: "u2"},
		}, nil)

		svc := NewService(api, notify.NewHubWithTimeout(0))
		got, err := svc.List(ctx, testSession(), Filter{Tab: TabMine})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A11111111", got[0].CIF)
		api.AssertExpectations(t)
	})

	t.Run("no session makes zero upstream calls", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		svc := NewService(api, notify.NewHubWithTimeout(0))

		got, err := svc.List(ctx, nil, Filter{})
		require.NoError(t, err)
		assert.Empty(t, got)
		api.AssertNotCalled(t, "Companies", mock.Anything, mock.Anything)
	})

	t.Run("upstream error surfaces", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		api.On("Companies", ctx, "tok").Return(nil, &upstream.APIError{StatusCode: 500})

		svc := NewService(api, notify.NewHubWithTimeout(0))
		_, err := svc.List(ctx, testSession(), Filter{})
		assert.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid form reaches upstream and queues success", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		hub := notify.NewHubWithTimeout(0)
		created := &model.Company{CIF: "B12345678", Name: "Lumen Films"}
		api.On("CreateCompany", ctx, "tok", mock.Anything).Return(created, nil)

		svc := NewService(api, hub)
		got, fields, err := svc.Create(ctx, testSession(), validInput())

		require.NoError(t, err)
		assert.Nil(t, fields)
		assert.Equal(t, "B12345678", got.CIF)
		assert.Equal(t, model.NotifySuccess, hub.Current("s1").Type)
		api.AssertExpectations(t)
	})

	t.Run("invalid form never reaches the network", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		svc := NewService(api, notify.NewHubWithTimeout(0))

		in := validInput()
		in.CIF = "b1234567"
		_, fields, err := svc.Create(ctx, testSession(), in)

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, fields, "cif")
		api.AssertNotCalled(t, "CreateCompany", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateIgnoresBodyCIF(t *testing.T) {
	ctx := context.Background()
	api := new(upstreamMocks.MockClient)
	hub := notify.NewHubWithTimeout(0)
	updated := &model.Company{CIF: "B12345678", Name: "Lumen Films v2"}
	api.On("UpdateCompany", ctx, "tok", "B12345678", mock.MatchedBy(func(in upstream.CompanyInput) bool {
		return in.CIF == "B12345678"
	})).Return(updated, nil)

	svc := NewService(api, hub)
	in := validInput()
	in.CIF = "X99999999" // route CIF wins
	in.Name = "Lumen Films v2"

	got, fields, err := svc.Update(ctx, testSession(), "B12345678", in)
	require.NoError(t, err)
	assert.Nil(t, fields)
	assert.Equal(t, "Lumen Films v2", got.Name)
	api.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	seedList := func(t *testing.T, api *upstreamMocks.MockClient, svc *Service, sess *model.Session) {
		t.Helper()
		api.On("Companies", ctx, "tok").Return([]model.Company{
			{CIF: "A11111111", Name: "Lumen Films"},
			{CIF: "B22222222", Name: "Foley Works"},
		}, nil).Once()
		_, err := svc.List(ctx, sess, Filter{})
		require.NoError(t, err)
	}

	t.Run("requires confirmation", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		svc := NewService(api, notify.NewHubWithTimeout(0))

		err := svc.Delete(ctx, testSession(), "A11111111", false)
		assert.ErrorIs(t, err, ErrConfirmationRequired)
		api.AssertNotCalled(t, "DeleteCompany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success removes from cached list and queues success", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		hub := notify.NewHubWithTimeout(0)
		svc := NewService(api, hub)
		sess := testSession()
		seedList(t, api, svc, sess)

		api.On("DeleteCompany", ctx, "tok", "A11111111").Return(nil)

		require.NoError(t, svc.Delete(ctx, sess, "A11111111", true))

		cached, _, _ := svc.Cached(sess.ID)
		require.Len(t, cached, 1)
		assert.Equal(t, "B22222222", cached[0].CIF)

		n := hub.Current(sess.ID)
		assert.True(t, n.Open)
		assert.Equal(t, model.NotifySuccess, n.Type)
		api.AssertExpectations(t)
	})

	t.Run("failure leaves list unchanged and queues error", func(t *testing.T) {
		api := new(upstreamMocks.MockClient)
		hub := notify.NewHubWithTimeout(0)
		svc := NewService(api, hub)
		sess := testSession()
		seedList(t, api, svc, sess)

		api.On("DeleteCompany", ctx, "tok", "A11111111").Return(&upstream.APIError{StatusCode: 500})

		err := svc.Delete(ctx, sess, "A11111111", true)
		assert.Error(t, err)

		cached, _, _ := svc.Cached(sess.ID)
		assert.Len(t, cached, 2)

		n := hub.Current(sess.ID)
		assert.True(t, n.Open)
		assert.Equal(t, model.NotifyError, n.Type)
		api.AssertExpectations(t)
	})
}

package upstream

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"nucleav/internal/config"
	"nucleav/internal/model"
)

// httpClient implements Client over plain HTTP+JSON with a fixed base URL.
// It is safe for concurrent use by multiple goroutines.
type httpClient struct {
	base   string
	client *http.Client
}

// NewHTTP creates the upstream API client. The outbound transport is traced
// via otelhttp. TLS verification is only skipped under the development flag
// already vetted by config.Load.
func NewHTTP(cfg config.APIConfig) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}

	var inner http.RoundTripper = http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		inner = t
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &httpClient{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Transport: otelhttp.NewTransport(inner),
			Timeout:   timeout,
		},
	}, nil
}

// upstreamErrorBody covers the two error envelope shapes the API emits.
type upstreamErrorBody struct {
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one JSON round trip. A nil out skips body decoding. Non-2xx
// answers become *APIError; undecodable success bodies become
// ErrMalformedResponse.
func (c *httpClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb upstreamErrorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil {
			apiErr.Code = eb.Error.Code
			apiErr.Message = eb.Error.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *httpClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", in, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response missing accessToken", ErrMalformedResponse)
	}
	return &res, nil
}

func (c *httpClient) Me(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: profile response missing id", ErrMalformedResponse)
	}
	return &u, nil
}

func (c *httpClient) UpdateMe(ctx context.Context, token string, in ProfileInput) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var u model.User
	if err := c.do(ctx, http.MethodPut, "/v1/auth/me", token, in, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: profile response missing id", ErrMalformedResponse)
	}
	return &u, nil
}

func (c *httpClient) Users(ctx context.Context, token string) ([]model.User, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/v1/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *httpClient) Companies(ctx context.Context, token string) ([]model.Company, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var companies []model.Company
	if err := c.do(ctx, http.MethodGet, "/v1/companies", token, nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *httpClient) Company(ctx context.Context, token, cif string) (*model.Company, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var company model.Company
	if err := c.do(ctx, http.MethodGet, "/v1/companies/"+url.PathEscape(cif), token, nil, &company); err != nil {
		return nil, err
	}
	if company.CIF == "" {
		return nil, fmt.Errorf("%w: company response missing cif", ErrMalformedResponse)
	}
	return &company, nil
}

func (c *httpClient) CreateCompany(ctx context.Context, token string, in CompanyInput) (*model.Company, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var company model.Company
	if err := c.do(ctx, http.MethodPost, "/v1/companies", token, in, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *httpClient) UpdateCompany(ctx context.Context, token, cif string, in CompanyInput) (*model.Company, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	in.CIF = "" // immutable, never sent on update
	var company model.Company
	if err := c.do(ctx, http.MethodPut, "/v1/companies/"+url.PathEscape(cif), token, in, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *httpClient) DeleteCompany(ctx context.Context, token, cif string) error {
	if token == "" {
		return ErrTokenRequired
	}
	return c.do(ctx, http.MethodDelete, "/v1/companies/"+url.PathEscape(cif), token, nil, nil)
}

func (c *httpClient) Materials(ctx context.Context, token string) ([]model.Material, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	var materials []model.Material
	if err := c.do(ctx, http.MethodGet, "/v1/materials", token, nil, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

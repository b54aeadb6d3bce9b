package upstream

import (
	"context"
	"errors"
	"fmt"

	"nucleav/internal/model"
)

// Sentinel errors for upstream interactions.
var (
	ErrTokenRequired     = errors.New("upstream: bearer token is required")
	ErrMalformedResponse = errors.New("upstream: malformed response body")
)

// APIError is a non-2xx answer from the upstream API, decoded into a typed
// error instead of being propagated as loosely-shaped JSON.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// LoginResult is the credential exchange outcome: a short-lived bearer token
// plus the identity attached to it.
type LoginResult struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

// CompanyInput carries the writable company fields for create and update
// calls. CIF is only honored on create; it is immutable afterwards.
type CompanyInput struct {
	CIF         string `json:"cif,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// ProfileInput carries the writable profile fields.
type ProfileInput struct {
	Name            string `json:"name,omitempty"`
	Lastname        string `json:"lastname,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Client is the typed client for the Nucleav backend API. All methods take
// the bearer token explicitly except Login; none is ever called without one
// (callers must skip fetches for unauthenticated sessions).
type Client interface {
	// Login exchanges credentials for a short-lived access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Me fetches the identity claims for the given token.
	Me(ctx context.Context, token string) (*model.User, error)

	// UpdateMe mutates the authenticated user's profile.
	UpdateMe(ctx context.Context, token string, in ProfileInput) (*model.User, error)

	// Users lists the platform user directory.
	Users(ctx context.Context, token string) ([]model.User, error)

	// Companies lists all companies visible to the account.
	Companies(ctx context.Context, token string) ([]model.Company, error)

	// Company fetches a single company by CIF.
	Company(ctx context.Context, token, cif string) (*model.Company, error)

	// CreateCompany registers a new company.
	CreateCompany(ctx context.Context, token string, in CompanyInput) (*model.Company, error)

	// UpdateCompany mutates an existing company identified by CIF.
	UpdateCompany(ctx context.Context, token, cif string, in CompanyInput) (*model.Company, error)

	// DeleteCompany removes a company by CIF.
	DeleteCompany(ctx context.Context, token, cif string) error

	// Materials lists the audiovisual assets visible to the account.
	Materials(ctx context.Context, token string) ([]model.Material, error)
}

// Package company orchestrates the company views: listing with filters,
// detail, validated create/edit and the confirm-gated delete flow.
package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"nucleav/internal/fetch"
	"nucleav/internal/model"
	"nucleav/internal/notify"
	"nucleav/internal/upstream"
)

var (
	// ErrInvalidInput accompanies a non-empty FieldErrors map.
	ErrInvalidInput = errors.New("company: invalid input")
	// ErrConfirmationRequired gates the delete flow: the DELETE request
	// must carry an explicit confirmation.
	ErrConfirmationRequired = errors.New("company: delete requires confirmation")
	// ErrNoSession is returned when an operation runs without an
	// authenticated session. No upstream request is made in that case.
	ErrNoSession = errors.New("company: authenticated session required")
)

// Tab selects the list scope.
const (
	TabAll  = "all"
	TabMine = "mine"
)

// Filter narrows the company list: a case-insensitive substring over name,
// CIF and description, plus the mine/all tab.
type Filter struct {
	Query string
	Tab   string
}

// FilterCompanies applies f to items. Pure and idempotent: filtering an
// already-filtered list with the same filter yields the same list.
func FilterCompanies(items []model.Company, f Filter, currentUserID string) []model.Company {
	out := make([]model.Company, 0, len(items))
	q := strings.ToLower(strings.TrimSpace(f.Query))
	for _, c := range items {
		if f.Tab == TabMine && c.CreatedBy != currentUserID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.CIF), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Service drives the company flows on behalf of one session at a time.
// The per-session list cache is generation-fenced, and delete updates it
// optimistically instead of re-fetching.
type Service struct {
	api      upstream.Client
	hub      *notify.Hub
	validate *validator.Validate

	mu    sync.Mutex
	lists map[string]*fetch.State[[]model.Company]
}

// NewService creates the company service.
func NewService(api upstream.Client, hub *notify.Hub) *Service {
	return &Service{
		api:      api,
		hub:      hub,
		validate: newValidator(),
		lists:    make(map[string]*fetch.State[[]model.Company]),
	}
}

func (s *Service) list(sessionID string) *fetch.State[[]model.Company] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lists[sessionID]
	if !ok {
		st = &fetch.State[[]model.Company]{}
		s.lists[sessionID] = st
	}
	return st
}

// List refreshes the visible companies and applies the filter. Without a
// token it returns the empty resolved state and makes no upstream call.
func (s *Service) List(ctx context.Context, sess *model.Session, f Filter) ([]model.Company, error) {
	if sess == nil || sess.Token == "" {
		return nil, nil
	}

	st := s.list(sess.ID)
	gen := st.Begin()

	companies, err := s.api.Companies(ctx, sess.Token)
	if err != nil {
		st.Complete(gen, nil, err)
		return nil, err
	}
	if !st.Complete(gen, companies, nil) {
		companies, err, _ = st.Snapshot()
		if err != nil {
			return nil, err
		}
	}
	return FilterCompanies(companies, f, sess.UserID()), nil
}

// Get fetches one company by CIF.
func (s *Service) Get(ctx context.Context, sess *model.Session, cif string) (*model.Company, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}
	return s.api.Company(ctx, sess.Token, cif)
}

// Create validates the form and registers the company. Field errors block
// the network call entirely.
func (s *Service) Create(ctx context.Context, sess *model.Session, in Input) (*model.Company, FieldErrors, error) {
	if sess == nil || sess.Token == "" {
		return nil, nil, ErrNoSession
	}
	if fields := validateInput(s.validate, in); fields != nil {
		return nil, fields, ErrInvalidInput
	}

	created, err := s.api.CreateCompany(ctx, sess.Token, toUpstream(in))
	if err != nil {
		return nil, nil, err
	}

	// Keep the cached list in step without a re-fetch.
	s.list(sess.ID).Mutate(func(items []model.Company) []model.Company {
		return append(items, *created)
	})
	s.hub.Success(sess.ID, fmt.Sprintf("Company %s created", created.Name))
	return created, nil, nil
}

// Update validates the form and mutates the company. The CIF comes from the
// route and is immutable; any CIF in the body is ignored.
func (s *Service) Update(ctx context.Context, sess *model.Session, cif string, in Input) (*model.Company, FieldErrors, error) {
	if sess == nil || sess.Token == "" {
		return nil, nil, ErrNoSession
	}
	in.CIF = cif
	if fields := validateInput(s.validate, in); fields != nil {
		return nil, fields, ErrInvalidInput
	}

	updated, err := s.api.UpdateCompany(ctx, sess.Token, cif, toUpstream(in))
	if err != nil {
		return nil, nil, err
	}

	s.list(sess.ID).Mutate(func(items []model.Company) []model.Company {
		for i := range items {
			if items[i].CIF == cif {
				items[i] = *updated
			}
		}
		return items
	})
	s.hub.Success(sess.ID, fmt.Sprintf("Company %s updated", updated.Name))
	return updated, nil, nil
}

// Delete removes a company after explicit confirmation. On success the
// cached list drops the entry immediately (optimistic, no re-fetch) and a
// success notification is queued; on failure the list is untouched and an
// error notification is queued.
func (s *Service) Delete(ctx context.Context, sess *model.Session, cif string, confirmed bool) error {
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.api.DeleteCompany(ctx, sess.Token, cif); err != nil {
		s.hub.Error(sess.ID, fmt.Sprintf("Could not delete company %s", cif))
		return err
	}

	s.list(sess.ID).Mutate(func(items []model.Company) []model.Company {
		out := items[:0]
		for _, c := range items {
			if c.CIF != cif {
				out = append(out, c)
			}
		}
		return out
	})
	s.hub.Success(sess.ID, fmt.Sprintf("Company %s deleted", cif))
	return nil
}

// Cached returns the session's cached list state, for view rendering that
// must not trigger a fetch.
func (s *Service) Cached(sessionID string) ([]model.Company, error, bool) {
	return s.list(sessionID).Snapshot()
}

// Drop discards the cached list for a session, used on logout.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, sessionID)
}

func toUpstream(in Input) upstream.CompanyInput {
	return upstream.CompanyInput{
		CIF:         in.CIF,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		LogoURL:     in.LogoURL,
	}
}

// Package dashboard derives the dashboard statistics from the company and
// material collections. Aggregation is a pure function of the latest
// fetched data; it is recomputed in full on every fetch and never patched
// incrementally.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"nucleav/internal/fetch"
	"nucleav/internal/model"
	"nucleav/internal/upstream"
)

const (
	recentMaterials = 5
	recentCompanies = 3
	feedLimit       = 8
	newCompanyAge   = 7 * 24 * time.Hour
)

// FormatBytes renders a byte count using base-1024 scaling with two decimal
// places, choosing the largest unit whose scaled value is at least 1. GB is
// the top unit; larger counts simply scale past 1024 GB. Zero formats as
// the literal "0 Bytes".
func FormatBytes(b int64) string {
	if b == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	value := float64(b)
	idx := 0
	for idx < len(units)-1 && value >= 1024 {
		value /= 1024
		idx++
	}
	return fmt.Sprintf("%.2f %s", value, units[idx])
}

// Aggregate computes the dashboard statistics for the given collections.
// Unrecognized material types count toward the total but land in no bucket.
func Aggregate(companies []model.Company, materials []model.Material, currentUserID string, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{
		TotalCompanies: len(companies),
		TotalMaterials: len(materials),
		MaterialsByType: map[string]int{
			model.MaterialVideo:    0,
			model.MaterialImage:    0,
			model.MaterialAudio:    0,
			model.MaterialDocument: 0,
		},
	}

	weekAgo := now.Add(-newCompanyAge)
	for _, c := range companies {
		if c.IsActive {
			stats.ActiveCompanies++
		}
		if !c.CreatedAt.Before(weekAgo) {
			stats.NewCompanies++
		}
		if currentUserID != "" && c.CreatedBy == currentUserID {
			stats.MyCompanies++
		}
	}

	for _, m := range materials {
		if _, ok := stats.MaterialsByType[m.Type]; ok {
			stats.MaterialsByType[m.Type]++
		}
		stats.TotalBytes += m.FileSize
	}
	stats.TotalSize = FormatBytes(stats.TotalBytes)

	stats.RecentActivity = activityFeed(companies, materials)
	return stats
}

// activityFeed merges the most recent materials and companies into one
// uniform list: newest first, capped at feedLimit entries.
func activityFeed(companies []model.Company, materials []model.Material) []model.ActivityItem {
	ms := make([]model.Material, len(materials))
	copy(ms, materials)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].CreatedAt.After(ms[j].CreatedAt) })
	if len(ms) > recentMaterials {
		ms = ms[:recentMaterials]
	}

	cs := make([]model.Company, len(companies))
	copy(cs, companies)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].CreatedAt.After(cs[j].CreatedAt) })
	if len(cs) > recentCompanies {
		cs = cs[:recentCompanies]
	}

	feed := make([]model.ActivityItem, 0, len(ms)+len(cs))
	for _, m := range ms {
		feed = append(feed, model.ActivityItem{
			ID:        m.ID,
			Kind:      "material",
			Title:     m.Name,
			Subtitle:  m.Type,
			Timestamp: m.CreatedAt,
		})
	}
	for _, c := range cs {
		feed = append(feed, model.ActivityItem{
			ID:        c.CIF,
			Kind:      "company",
			Title:     c.Name,
			Subtitle:  c.Description,
			Timestamp: c.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}
	return feed
}

// Service fetches the two source collections and aggregates them, keeping
// per-session generation-fenced state so a superseded fetch can never
// overwrite a fresher result.
type Service struct {
	api upstream.Client
	now func() time.Time

	mu     sync.Mutex
	states map[string]*fetch.State[model.DashboardStats]
}

// NewService creates the dashboard service.
func NewService(api upstream.Client) *Service {
	return &Service{
		api:    api,
		now:    time.Now,
		states: make(map[string]*fetch.State[model.DashboardStats]),
	}
}

func (s *Service) state(sessionID string) *fetch.State[model.DashboardStats] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sessionID]
	if !ok {
		st = &fetch.State[model.DashboardStats]{}
		s.states[sessionID] = st
	}
	return st
}

// Stats refreshes and returns the dashboard statistics for the session.
// Without a token no upstream call is made and the empty, resolved state is
// returned. Failures are not retried.
func (s *Service) Stats(ctx context.Context, sess *model.Session) (model.DashboardStats, error) {
	if sess == nil || sess.Token == "" {
		return model.DashboardStats{}, nil
	}

	st := s.state(sess.ID)
	gen := st.Begin()

	companies, err := s.api.Companies(ctx, sess.Token)
	if err != nil {
		st.Complete(gen, model.DashboardStats{}, err)
		return model.DashboardStats{}, err
	}
	materials, err := s.api.Materials(ctx, sess.Token)
	if err != nil {
		st.Complete(gen, model.DashboardStats{}, err)
		return model.DashboardStats{}, err
	}

	stats := Aggregate(companies, materials, sess.UserID(), s.now())
	if !st.Complete(gen, stats, nil) {
		// A newer fetch finished first; hand back its result instead.
		data, err, _ := st.Snapshot()
		return data, err
	}
	return stats, nil
}

// Drop discards the cached state for a session, used on logout.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
}

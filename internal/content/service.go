package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"creatorlabs.app/internal/ids"
)

// Service validates and orchestrates creator record operations on top of
// a Store. All timestamps are stamped here in UTC so storage backends
// stay clock-free.
type Service struct {
	store Store
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save keeps a generation result for the user. Body must be valid JSON.
func (s *Service) Save(ctx context.Context, userID, toolID, title string, body json.RawMessage) (*SavedContent, error) {
	if userID == "" || toolID == "" {
		return nil, fmt.Errorf("%w: user and tool are required", ErrInvalidInput)
	}
	if title = strings.TrimSpace(title); title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body must be valid JSON", ErrInvalidInput)
	}
	c := SavedContent{
		ID:        ids.New(),
		UserID:    userID,
		ToolID:    toolID,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertContent(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the user's saved content, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]SavedContent, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	return s.store.ListContent(ctx, userID)
}

// Delete removes one saved item. Ownership is enforced by the store:
// deleting someone else's item reads as not found.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return fmt.Errorf("%w: user and id are required", ErrInvalidInput)
	}
	return s.store.DeleteContent(ctx, userID, id)
}

// RecordStat upserts one metric sample for the user.
func (s *Service) RecordStat(ctx context.Context, userID, metric string, value int64) error {
	if userID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	metric = strings.ToLower(strings.TrimSpace(metric))
	if metric == "" {
		return fmt.Errorf("%w: metric is required", ErrInvalidInput)
	}
	if value < 0 {
		return fmt.Errorf("%w: metric value cannot be negative", ErrInvalidInput)
	}
	return s.store.UpsertStat(ctx, GrowthStat{
		UserID:    userID,
		Metric:    metric,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	})
}

// Stats lists the user's current metric values.
func (s *Service) Stats(ctx context.Context, userID string) ([]GrowthStat, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	return s.store.ListStats(ctx, userID)
}

// SaveCalendar replaces the user's stored calendar with the given entries.
func (s *Service) SaveCalendar(ctx context.Context, userID string, entries []CalendarEntry) error {
	if userID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: calendar cannot be empty", ErrInvalidInput)
	}
	for i := range entries {
		entries[i].UserID = userID
	}
	return s.store.ReplaceCalendar(ctx, userID, entries)
}

// Calendar returns the user's stored calendar in day order.
func (s *Service) Calendar(ctx context.Context, userID string) ([]CalendarEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	return s.store.ListCalendar(ctx, userID)
}

// Tutorials lists the curated tutorials.
func (s *Service) Tutorials(ctx context.Context) ([]Tutorial, error) {
	return s.store.ListTutorials(ctx)
}

// AddTutorial creates a tutorial record.
func (s *Service) AddTutorial(ctx context.Context, title, rawURL, category string) (*Tutorial, error) {
	if title = strings.TrimSpace(title); title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be absolute", ErrInvalidInput)
	}
	t := Tutorial{
		ID:        ids.New(),
		Title:     title,
		URL:       u.String(),
		Category:  strings.TrimSpace(category),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertTutorial(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// RemoveTutorial deletes a tutorial by id.
func (s *Service) RemoveTutorial(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.DeleteTutorial(ctx, id)
}

// Team lists the operations team.
func (s *Service) Team(ctx context.Context) ([]TeamMember, error) {
	return s.store.ListTeam(ctx)
}

// AddTeamMember creates a team member record.
func (s *Service) AddTeamMember(ctx context.Context, name, email, role string) (*TeamMember, error) {
	if name = strings.TrimSpace(name); name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	m := TeamMember{
		ID:        ids.New(),
		Name:      name,
		Email:     email,
		Role:      strings.TrimSpace(role),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertTeamMember(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveTeamMember deletes a team member by id.
func (s *Service) RemoveTeamMember(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.DeleteTeamMember(ctx, id)
}

// LogAdminAction appends a privileged action to the admin log.
func (s *Service) LogAdminAction(ctx context.Context, adminID, action, targetUser, detail string) error {
	if adminID == "" || action == "" {
		return fmt.Errorf("%w: admin and action are required", ErrInvalidInput)
	}
	return s.store.InsertAdminLog(ctx, AdminLog{
		ID:         ids.New(),
		AdminID:    adminID,
		Action:     action,
		TargetUser: targetUser,
		Detail:     detail,
		CreatedAt:  s.now().UTC(),
	})
}

// RecordActivity appends one activity feed row.
func (s *Service) RecordActivity(ctx context.Context, userID, tool, action, detail string) error {
	if userID == "" || action == "" {
		return fmt.Errorf("%w: user and action are required", ErrInvalidInput)
	}
	return s.store.InsertActivity(ctx, Activity{
		ID:        ids.New(),
		UserID:    userID,
		Tool:      tool,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	})
}

// RecentActivity returns up to limit latest activity rows, newest first.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.RecentActivity(ctx, limit)
}

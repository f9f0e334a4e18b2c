// Package content holds the creator-facing records: saved generations,
// growth stats, calendars, tutorials, team members and the activity log.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound means the record does not exist or belongs to someone else.
	ErrNotFound = errors.New("content: not found")
	// ErrInvalidInput reports invalid caller-supplied fields.
	ErrInvalidInput = errors.New("content: invalid input")
)

// SavedContent is a generation result a user chose to keep.
type SavedContent struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ToolID    string          `json:"tool_id"`
	Title     string          `json:"title"`
	Body      json.RawMessage `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}

// GrowthStat is one per-user metric sample, upserted by metric name.
type GrowthStat struct {
	UserID    string    `json:"user_id"`
	Metric    string    `json:"metric"`
	Value     int64     `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalendarEntry is one day of a stored 30-day content calendar.
type CalendarEntry struct {
	UserID  string `json:"user_id"`
	Day     int    `json:"day"`
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Purpose string `json:"purpose"`
}

// Tutorial is an admin-curated learning resource.
type Tutorial struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember is a member of the operations team, admin-managed.
type TeamMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminLog records one privileged action for later review.
type AdminLog struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin_id"`
	Action     string    `json:"action"`
	TargetUser string    `json:"target_user,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Activity is one persisted activity feed row.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Tool      string    `json:"tool,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary for creator records.
type Store interface {
	InsertContent(ctx context.Context, c SavedContent) error
	ListContent(ctx context.Context, userID string) ([]SavedContent, error)
	DeleteContent(ctx context.Context, userID, id string) error

	UpsertStat(ctx context.Context, s GrowthStat) error
	ListStats(ctx context.Context, userID string) ([]GrowthStat, error)

	ReplaceCalendar(ctx context.Context, userID string, entries []CalendarEntry) error
	ListCalendar(ctx context.Context, userID string) ([]CalendarEntry, error)

	ListTutorials(ctx context.Context) ([]Tutorial, error)
	InsertTutorial(ctx context.Context, t Tutorial) error
	DeleteTutorial(ctx context.Context, id string) error

	ListTeam(ctx context.Context) ([]TeamMember, error)
	InsertTeamMember(ctx context.Context, m TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error

	InsertAdminLog(ctx context.Context, l AdminLog) error
	InsertActivity(ctx context.Context, a Activity) error
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	content   []SavedContent
	stats     map[string]GrowthStat
	calendars map[string][]CalendarEntry
	tutorials []Tutorial
	team      []TeamMember
	adminLogs []AdminLog
	activity  []Activity
}

func newMemStore() *memStore {
	return &memStore{
		stats:     make(map[string]GrowthStat),
		calendars: make(map[string][]CalendarEntry),
	}
}

func (m *memStore) InsertContent(_ context.Context, c SavedContent) error {
	m.content = append(m.content, c)
	return nil
}

func (m *memStore) ListContent(_ context.Context, userID string) ([]SavedContent, error) {
	var out []SavedContent
	for _, c := range m.content {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) DeleteContent(_ context.Context, userID, id string) error {
	for i, c := range m.content {
		if c.ID == id && c.UserID == userID {
			m.content = append(m.content[:i], m.content[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) UpsertStat(_ context.Context, s GrowthStat) error {
	m.stats[s.UserID+"/"+s.Metric] = s
	return nil
}

func (m *memStore) ListStats(_ context.Context, userID string) ([]GrowthStat, error) {
	var out []GrowthStat
	for _, s := range m.stats {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ReplaceCalendar(_ context.Context, userID string, entries []CalendarEntry) error {
	m.calendars[userID] = entries
	return nil
}

func (m *memStore) ListCalendar(_ context.Context, userID string) ([]CalendarEntry, error) {
	return m.calendars[userID], nil
}

func (m *memStore) ListTutorials(_ context.Context) ([]Tutorial, error) { return m.tutorials, nil }

func (m *memStore) InsertTutorial(_ context.Context, t Tutorial) error {
	m.tutorials = append(m.tutorials, t)
	return nil
}

func (m *memStore) DeleteTutorial(_ context.Context, id string) error {
	for i, t := range m.tutorials {
		if t.ID == id {
			m.tutorials = append(m.tutorials[:i], m.tutorials[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) ListTeam(_ context.Context) ([]TeamMember, error) { return m.team, nil }

func (m *memStore) InsertTeamMember(_ context.Context, tm TeamMember) error {
	m.team = append(m.team, tm)
	return nil
}

func (m *memStore) DeleteTeamMember(_ context.Context, id string) error {
	for i, tm := range m.team {
		if tm.ID == id {
			m.team = append(m.team[:i], m.team[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) InsertAdminLog(_ context.Context, l AdminLog) error {
	m.adminLogs = append(m.adminLogs, l)
	return nil
}

func (m *memStore) InsertActivity(_ context.Context, a Activity) error {
	m.activity = append(m.activity, a)
	return nil
}

func (m *memStore) RecentActivity(_ context.Context, limit int) ([]Activity, error) {
	if limit > len(m.activity) {
		limit = len(m.activity)
	}
	return m.activity[len(m.activity)-limit:], nil
}

func TestSaveAndDeleteContent(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, WithClock(func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}))
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", "tag-generator", "My tags", json.RawMessage(`{"primary":["a"]}`))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || !saved.CreatedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected record: %+v", saved)
	}

	if err := svc.Delete(ctx, "u2", saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	cases := []struct {
		name          string
		user, tool    string
		title         string
		body          json.RawMessage
	}{
		{"missing user", "", "tag-generator", "t", json.RawMessage(`{}`)},
		{"missing title", "u1", "tag-generator", "  ", json.RawMessage(`{}`)},
		{"invalid body", "u1", "tag-generator", "t", json.RawMessage(`{broken`)},
	}
	for _, tc := range cases {
		if _, err := svc.Save(ctx, tc.user, tc.tool, tc.title, tc.body); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: got %v", tc.name, err)
		}
	}
}

func TestRecordStatUpserts(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.RecordStat(ctx, "u1", "Followers", 100); err != nil {
		t.Fatalf("RecordStat: %v", err)
	}
	if err := svc.RecordStat(ctx, "u1", "followers", 250); err != nil {
		t.Fatalf("RecordStat update: %v", err)
	}
	stats, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Value != 250 || stats[0].Metric != "followers" {
		t.Fatalf("upsert failed: %+v", stats)
	}
	if err := svc.RecordStat(ctx, "u1", "followers", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative value: %v", err)
	}
}

func TestSaveCalendarStampsOwner(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	entries := []CalendarEntry{{Day: 1, Type: "Reel", Topic: "t", Purpose: "p"}}
	if err := svc.SaveCalendar(ctx, "u1", entries); err != nil {
		t.Fatalf("SaveCalendar: %v", err)
	}
	got, err := svc.Calendar(ctx, "u1")
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Fatalf("owner not stamped: %+v", got)
	}
	if err := svc.SaveCalendar(ctx, "u1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty calendar: %v", err)
	}
}

func TestAddTutorialValidatesURL(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.AddTutorial(ctx, "Intro", "not a url", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad url: %v", err)
	}
	tut, err := svc.AddTutorial(ctx, "Intro", "https://videos.example/intro", "basics")
	if err != nil {
		t.Fatalf("AddTutorial: %v", err)
	}
	if tut.ID == "" || tut.URL != "https://videos.example/intro" {
		t.Fatalf("unexpected tutorial: %+v", tut)
	}
}

func TestAddTeamMemberNormalizesEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	m, err := svc.AddTeamMember(ctx, "Dana", "  Dana@Example.COM ", "editor")
	if err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	if m.Email != "dana@example.com" {
		t.Fatalf("email: %q", m.Email)
	}
	if _, err := svc.AddTeamMember(ctx, "NoMail", "nope", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad email: %v", err)
	}
}

func TestActivityAndAdminLogs(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.RecordActivity(ctx, "u1", "tag-generator", "generation", ""); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if err := svc.LogAdminAction(ctx, "admin1", "grant", "u1", "tag-generator"); err != nil {
		t.Fatalf("LogAdminAction: %v", err)
	}
	recent, err := svc.RecentActivity(ctx, 10)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(recent) != 1 || recent[0].Tool != "tag-generator" {
		t.Fatalf("activity: %+v", recent)
	}
	if len(store.adminLogs) != 1 || store.adminLogs[0].Action != "grant" {
		t.Fatalf("admin log: %+v", store.adminLogs)
	}
}

package access

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Store describes the persistence operations required by grant management.
type Store interface {
	UpsertGrant(ctx context.Context, grant Grant) error
	DeleteGrant(ctx context.Context, userID, toolID string) error
	DeleteGrantsForUser(ctx context.Context, userID string) error
	ListGrants(ctx context.Context, userID string) ([]Grant, error)
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, error)
}

// Manager performs administrative grant mutations. Every mutation re-reads
// the grant list afterward so callers observe fresh state.
type Manager struct {
	store Store
	now   func() time.Time
}

// ManagerOption configures Manager behavior.
type ManagerOption func(*Manager)

// WithManagerClock overrides the time source.
func WithManagerClock(fn func() time.Time) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewManager constructs a Manager over the given store.
func NewManager(store Store, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidInput)
	}
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Grant upserts one row per (userID, toolID) pair. Existing rows are
// replaced with a refreshed GrantedAt/ExpiresAt, never duplicated.
func (m *Manager) Grant(ctx context.Context, userID string, toolIDs []string, expiresAt *time.Time, grantedBy string) ([]Grant, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if len(toolIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one tool_id is required", ErrInvalidInput)
	}
	now := m.now().UTC()
	for _, toolID := range dedupe(toolIDs) {
		if !ValidTool(toolID) {
			return nil, fmt.Errorf("%w: unknown tool %s", ErrInvalidInput, toolID)
		}
		grant := Grant{
			UserID:    userID,
			ToolID:    toolID,
			GrantedAt: now,
			GrantedBy: strings.TrimSpace(grantedBy),
			ExpiresAt: expiresAt,
		}
		if err := m.store.UpsertGrant(ctx, grant); err != nil {
			return nil, err
		}
	}
	return m.store.ListGrants(ctx, userID)
}

// GrantAll grants the full catalog to the user.
func (m *Manager) GrantAll(ctx context.Context, userID string, expiresAt *time.Time, grantedBy string) ([]Grant, error) {
	return m.Grant(ctx, userID, Catalog, expiresAt, grantedBy)
}

// Revoke removes a single grant. A missing row is not an error.
func (m *Manager) Revoke(ctx context.Context, userID, toolID string) ([]Grant, error) {
	userID = strings.TrimSpace(userID)
	toolID = strings.TrimSpace(toolID)
	if userID == "" || toolID == "" {
		return nil, fmt.Errorf("%w: user_id and tool_id are required", ErrInvalidInput)
	}
	if err := m.store.DeleteGrant(ctx, userID, toolID); err != nil {
		return nil, err
	}
	return m.store.ListGrants(ctx, userID)
}

// RevokeAll removes every grant row for the user.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return m.store.DeleteGrantsForUser(ctx, userID)
}

// SetToolsLocked upserts the single global-lock setting row.
func (m *Manager) SetToolsLocked(ctx context.Context, locked bool) error {
	return m.store.SetSetting(ctx, SettingToolsLocked, strconv.FormatBool(locked))
}

// ToolsLocked reads the global lock flag. An unreadable or missing setting
// reports locked (fail closed) along with the read error, so callers can
// log without granting open access by accident.
func (m *Manager) ToolsLocked(ctx context.Context) (bool, error) {
	raw, err := m.store.GetSetting(ctx, SettingToolsLocked)
	if errors.Is(err, ErrNotFound) {
		// No row yet: everything stays gated until an admin opens it up.
		return true, nil
	}
	if err != nil {
		return true, err
	}
	locked, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return true, fmt.Errorf("parse %s: %w", SettingToolsLocked, err)
	}
	return locked, nil
}

// Grants lists the user's grant rows. Read failures must not evict state
// already held by the caller; the caller keeps its last snapshot and logs.
func (m *Manager) Grants(ctx context.Context, userID string) ([]Grant, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return m.store.ListGrants(ctx, userID)
}

// EvaluatorFor assembles an Evaluator for the identity from live store
// state, failing closed on a lock-flag read error.
func (m *Manager) EvaluatorFor(ctx context.Context, identity Identity) (Evaluator, error) {
	locked, lockErr := m.ToolsLocked(ctx)
	var grants []Grant
	if identity.UserID != "" {
		var err error
		grants, err = m.store.ListGrants(ctx, identity.UserID)
		if err != nil {
			return NewEvaluator(identity, locked, nil), err
		}
	}
	return NewEvaluator(identity, locked, grants), lockErr
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

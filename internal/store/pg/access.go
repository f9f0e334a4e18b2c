package pg

import (
	"context"
	"database/sql"
	"errors"

	"creatorlabs.app/internal/access"
)

func (s *Store) UpsertGrant(ctx context.Context, grant access.Grant) error {
	_, err := s.db.ExecContext(ctx, `
		insert into user_tool_access (user_id, tool_id, granted_at, granted_by, expires_at)
		values ($1, $2, $3, nullif($4,''), $5)
		on conflict (user_id, tool_id) do update
		set granted_at = excluded.granted_at,
		    granted_by = excluded.granted_by,
		    expires_at = excluded.expires_at
	`, grant.UserID, grant.ToolID, grant.GrantedAt, grant.GrantedBy, grant.ExpiresAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return access.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteGrant removes one grant row. Missing rows are not an error so
// revocation stays idempotent.
func (s *Store) DeleteGrant(ctx context.Context, userID, toolID string) error {
	_, err := s.db.ExecContext(ctx, `
		delete from user_tool_access
		where user_id = $1 and tool_id = $2
	`, userID, toolID)
	return err
}

func (s *Store) DeleteGrantsForUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		delete from user_tool_access where user_id = $1
	`, userID)
	return err
}

func (s *Store) ListGrants(ctx context.Context, userID string) ([]access.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id, tool_id, granted_at, coalesce(granted_by,''), expires_at
		from user_tool_access
		where user_id = $1
		order by tool_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []access.Grant
	for rows.Next() {
		var g access.Grant
		if err := rows.Scan(&g.UserID, &g.ToolID, &g.GrantedAt, &g.GrantedBy, &g.ExpiresAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into admin_settings (setting_key, setting_value)
		values ($1, $2)
		on conflict (setting_key) do update
		set setting_value = excluded.setting_value
	`, key, value)
	return err
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		select setting_value from admin_settings where setting_key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", access.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

package pg

import (
	"context"
	"database/sql"
	"errors"

	"creatorlabs.app/internal/auth"
)

func (s *Store) CreateProfile(ctx context.Context, p *auth.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		insert into profiles (id, email, display_name, password_hash, created_at, updated_at)
		values ($1, $2, nullif($3,''), $4, $5, $6)
	`, p.ID, p.Email, p.DisplayName, p.PasswordHash, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) FindProfile(ctx context.Context, id string) (*auth.Profile, error) {
	return s.findProfile(ctx, `where id = $1`, id)
}

func (s *Store) FindProfileByEmail(ctx context.Context, email string) (*auth.Profile, error) {
	return s.findProfile(ctx, `where email = $1`, email)
}

func (s *Store) findProfile(ctx context.Context, where string, arg any) (*auth.Profile, error) {
	var p auth.Profile
	err := s.db.QueryRowContext(ctx, `
		select id, email, coalesce(display_name,''), password_hash, created_at, updated_at
		from profiles `+where,
		arg).Scan(&p.ID, &p.Email, &p.DisplayName, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) RolesForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		select role from user_roles where user_id = $1 order by role
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole adds a role to a user, ignoring duplicates.
func (s *Store) AssignRole(ctx context.Context, userID, role string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into user_roles (user_id, role)
		values ($1, $2)
		on conflict (user_id, role) do nothing
	`, userID, role)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return auth.ErrNotFound
		}
		return err
	}
	return nil
}

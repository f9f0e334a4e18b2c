package pg

import (
	"context"

	"creatorlabs.app/internal/content"
)

func (s *Store) InsertContent(ctx context.Context, c content.SavedContent) error {
	_, err := s.db.ExecContext(ctx, `
		insert into saved_content (id, user_id, tool_id, title, body, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.UserID, c.ToolID, c.Title, []byte(c.Body), c.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) ListContent(ctx context.Context, userID string) ([]content.SavedContent, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, tool_id, title, body, created_at
		from saved_content
		where user_id = $1
		order by created_at desc
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []content.SavedContent
	for rows.Next() {
		var c content.SavedContent
		var body []byte
		if err := rows.Scan(&c.ID, &c.UserID, &c.ToolID, &c.Title, &body, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Body = body
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteContent scopes by owner, so deleting another user's item reads as
// not found.
func (s *Store) DeleteContent(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		delete from saved_content where id = $1 and user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (s *Store) UpsertStat(ctx context.Context, stat content.GrowthStat) error {
	_, err := s.db.ExecContext(ctx, `
		insert into growth_stats (user_id, metric, value, updated_at)
		values ($1, $2, $3, $4)
		on conflict (user_id, metric) do update
		set value = excluded.value,
		    updated_at = excluded.updated_at
	`, stat.UserID, stat.Metric, stat.Value, stat.UpdatedAt)
	return err
}

func (s *Store) ListStats(ctx context.Context, userID string) ([]content.GrowthStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id, metric, value, updated_at
		from growth_stats
		where user_id = $1
		order by metric
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []content.GrowthStat
	for rows.Next() {
		var st content.GrowthStat
		if err := rows.Scan(&st.UserID, &st.Metric, &st.Value, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// ReplaceCalendar swaps the user's whole calendar in one transaction.
func (s *Store) ReplaceCalendar(ctx context.Context, userID string, entries []content.CalendarEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from content_calendar where user_id = $1`, userID); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			insert into content_calendar (user_id, day, entry_type, topic, purpose)
			values ($1, $2, $3, $4, $5)
		`, userID, e.Day, e.Type, e.Topic, e.Purpose); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListCalendar(ctx context.Context, userID string) ([]content.CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id, day, entry_type, topic, purpose
		from content_calendar
		where user_id = $1
		order by day
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []content.CalendarEntry
	for rows.Next() {
		var e content.CalendarEntry
		if err := rows.Scan(&e.UserID, &e.Day, &e.Type, &e.Topic, &e.Purpose); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ListTutorials(ctx context.Context) ([]content.Tutorial, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, title, url, coalesce(category,''), created_at
		from tutorials
		order by created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tutorials []content.Tutorial
	for rows.Next() {
		var t content.Tutorial
		if err := rows.Scan(&t.ID, &t.Title, &t.URL, &t.Category, &t.CreatedAt); err != nil {
			return nil, err
		}
		tutorials = append(tutorials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tutorials, nil
}

func (s *Store) InsertTutorial(ctx context.Context, t content.Tutorial) error {
	_, err := s.db.ExecContext(ctx, `
		insert into tutorials (id, title, url, category, created_at)
		values ($1, $2, $3, nullif($4,''), $5)
	`, t.ID, t.Title, t.URL, t.Category, t.CreatedAt)
	return err
}

func (s *Store) DeleteTutorial(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `delete from tutorials where id = $1`, id)
}

func (s *Store) ListTeam(ctx context.Context) ([]content.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, email, coalesce(role,''), created_at
		from team_members
		order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var team []content.TeamMember
	for rows.Next() {
		var m content.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		team = append(team, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *Store) InsertTeamMember(ctx context.Context, m content.TeamMember) error {
	_, err := s.db.ExecContext(ctx, `
		insert into team_members (id, name, email, role, created_at)
		values ($1, $2, $3, nullif($4,''), $5)
	`, m.ID, m.Name, m.Email, m.Role, m.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `delete from team_members where id = $1`, id)
}

func (s *Store) InsertAdminLog(ctx context.Context, l content.AdminLog) error {
	_, err := s.db.ExecContext(ctx, `
		insert into admin_logs (id, admin_id, action, target_user, detail, created_at)
		values ($1, $2, $3, nullif($4,''), nullif($5,''), $6)
	`, l.ID, l.AdminID, l.Action, l.TargetUser, l.Detail, l.CreatedAt)
	return err
}

func (s *Store) InsertActivity(ctx context.Context, a content.Activity) error {
	_, err := s.db.ExecContext(ctx, `
		insert into activity_log (id, user_id, tool, action, detail, created_at)
		values ($1, $2, nullif($3,''), $4, nullif($5,''), $6)
	`, a.ID, a.UserID, a.Tool, a.Action, a.Detail, a.CreatedAt)
	return err
}

func (s *Store) RecentActivity(ctx context.Context, limit int) ([]content.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, coalesce(tool,''), action, coalesce(detail,''), created_at
		from activity_log
		order by created_at desc
		limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []content.Activity
	for rows.Next() {
		var a content.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Tool, &a.Action, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) deleteByID(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return content.ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/contenthub/internal/model"
)

const ideaColumns = "id, title, description, target_date, created_at, completed, completed_at"

// CreateIdea inserts a new, not yet completed idea.
func (s *SQLStore) CreateIdea(
	ctx context.Context,
	title string,
	targetDate model.Date,
	description *string,
) (*model.Idea, error) {
	title, err := validateIdeaTitle(title)
	if err != nil {
		return nil, err
	}
	if targetDate.IsZero() {
		return nil, model.Invalid("target_date", "is required")
	}
	if err := validateIdeaDate(targetDate); err != nil {
		return nil, err
	}
	if err := validateIdeaDescription(description); err != nil {
		return nil, err
	}

	idea := model.Idea{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		TargetDate:  targetDate,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO ideas (
			id, title, description, target_date, created_at, completed, completed_at
		) VALUES (?, ?, ?, ?, ?, 0, NULL)`),
		idea.ID, idea.Title, idea.Description, idea.TargetDate, newDBTime(idea.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}

	return s.GetIdea(ctx, idea.ID)
}

// GetIdea retrieves a single idea by ID.
func (s *SQLStore) GetIdea(ctx context.Context, id string) (*model.Idea, error) {
	row := s.db.QueryRowxContext(ctx,
		s.q("SELECT "+ideaColumns+" FROM ideas WHERE id = ?"), id)

	idea, err := scanIdea(row)
	if err != nil {
		return nil, notFoundIfNoRows(err, "idea", id)
	}
	return &idea, nil
}

// UpdateIdea applies the fields set in patch. Title and target date cannot
// be cleared; description can be set to nil.
func (s *SQLStore) UpdateIdea(
	ctx context.Context,
	id string,
	patch model.IdeaPatch,
) (*model.Idea, error) {
	var (
		sets []string
		args []any
	)

	if title, ok := patch.Title.Get(); ok {
		title, err := validateIdeaTitle(title)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if date, ok := patch.TargetDate.Get(); ok {
		if date.IsZero() {
			return nil, model.Invalid("target_date", "cannot be cleared")
		}
		if err := validateIdeaDate(date); err != nil {
			return nil, err
		}
		sets = append(sets, "target_date = ?")
		args = append(args, date)
	}
	if desc, ok := patch.Description.Get(); ok {
		if err := validateIdeaDescription(desc); err != nil {
			return nil, err
		}
		sets = append(sets, "description = ?")
		args = append(args, desc)
	}

	if len(sets) == 0 {
		return s.GetIdea(ctx, id)
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE ideas SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
	if err != nil {
		return nil, fmt.Errorf("updating idea %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, model.NotFound("idea", id)
	}

	return s.GetIdea(ctx, id)
}

// ToggleIdeaCompletion flips the completed flag in a single statement so the
// flag and its timestamp always change together.
func (s *SQLStore) ToggleIdeaCompletion(ctx context.Context, id string) (*model.Idea, error) {
	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE ideas SET
			completed = CASE WHEN completed = 1 THEN 0 ELSE 1 END,
			completed_at = CASE WHEN completed = 1 THEN NULL ELSE ? END
		WHERE id = ?`),
		newDBTime(time.Now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling idea %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, model.NotFound("idea", id)
	}

	return s.GetIdea(ctx, id)
}

// DeleteIdea removes an idea together with its brief and brief versions.
// Children are deleted explicitly as well as by ON DELETE CASCADE, since
// remote libsql connections do not keep PRAGMA foreign_keys.
func (s *SQLStore) DeleteIdea(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		s.q("DELETE FROM idea_brief_versions WHERE idea_id = ?"), id); err != nil {
		return fmt.Errorf("deleting brief versions of idea %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		s.q("DELETE FROM idea_briefs WHERE idea_id = ?"), id); err != nil {
		return fmt.Errorf("deleting brief of idea %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, s.q("DELETE FROM ideas WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting idea %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.NotFound("idea", id)
	}

	return tx.Commit()
}

// ListIdeasInRange returns ideas whose target date lies in [start, end],
// ordered by target date then creation time.
func (s *SQLStore) ListIdeasInRange(
	ctx context.Context,
	start, end model.Date,
) ([]model.Idea, error) {
	if end.Before(start) {
		return nil, model.Invalid("range", "end %s is before start %s", end, start)
	}

	rows, err := s.db.QueryxContext(ctx, s.q(`
		SELECT `+ideaColumns+` FROM ideas
		WHERE target_date >= ? AND target_date <= ?
		ORDER BY target_date ASC, created_at ASC, id ASC`),
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	var ideas []model.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}

	return ideas, rows.Err()
}

// ideaExists reports whether an idea row is visible to tx.
func (s *SQLStore) ideaExists(ctx context.Context, tx *sqlx.Tx, id string) (bool, error) {
	var n int
	err := tx.GetContext(ctx, &n, s.q("SELECT COUNT(*) FROM ideas WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("checking idea %s: %w", id, err)
	}
	return n > 0, nil
}

// scanIdea scans an idea row selected with ideaColumns.
func scanIdea(row rowScanner) (model.Idea, error) {
	var (
		idea        model.Idea
		createdAt   dbTime
		completed   int
		completedAt *dbTime
	)

	err := row.Scan(
		&idea.ID, &idea.Title, &idea.Description, &idea.TargetDate,
		&createdAt, &completed, &completedAt,
	)
	if err != nil {
		return model.Idea{}, fmt.Errorf("scanning idea row: %w", err)
	}

	idea.CreatedAt = createdAt.Time
	idea.Completed = completed != 0
	idea.CompletedAt = timePtr(completedAt)

	return idea, nil
}

func validateIdeaTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.Invalid("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > model.IdeaTitleMaxLen {
		return "", model.Invalid("title", "must be at most %d characters", model.IdeaTitleMaxLen)
	}
	return title, nil
}

func validateIdeaDate(d model.Date) error {
	if !d.InSupportedRange() {
		return model.Invalid("target_date", "year must be between %d and %d", model.MinYear, model.MaxYear)
	}
	return nil
}

func validateIdeaDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > model.IdeaDescriptionMaxLen {
		return model.Invalid("description", "must be at most %d characters", model.IdeaDescriptionMaxLen)
	}
	return nil
}

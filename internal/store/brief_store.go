package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/contenthub/internal/model"
)

// GetOrCreateBrief returns the idea's brief, creating and persisting an
// empty one on first access. Two callers racing on the first access are
// separated by the UNIQUE(idea_id) constraint and the write lock: a loser
// either sees the winner's brief or gets a *model.ConflictError, never a
// duplicate brief.
func (s *SQLStore) GetOrCreateBrief(ctx context.Context, ideaID string) (*model.Brief, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, s.briefWriteError(err, ideaID, "beginning transaction")
	}
	defer tx.Rollback()

	brief, err := s.getOrCreateBriefTx(ctx, tx, ideaID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, s.briefWriteError(err, ideaID, "committing brief")
	}
	return brief, nil
}

// UpdateBrief overwrites the idea's brief content. With opts.Autosave it
// also appends a version carrying the same payload; a plain save never
// touches history.
func (s *SQLStore) UpdateBrief(
	ctx context.Context,
	ideaID string,
	content model.BriefContent,
	opts BriefWriteOptions,
) (*model.Brief, error) {
	label := strings.TrimSpace(opts.Label)
	if opts.Autosave && label == "" {
		label = model.LabelAutosave
	}
	if utf8.RuneCountInString(label) > model.BriefLabelMaxLen {
		return nil, model.Invalid("label", "must be at most %d characters", model.BriefLabelMaxLen)
	}

	content = content.Normalized()
	payload, err := model.MarshalBriefContent(content)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, s.briefWriteError(err, ideaID, "beginning transaction")
	}
	defer tx.Rollback()

	brief, err := s.getOrCreateBriefTx(ctx, tx, ideaID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, s.q(`
		UPDATE idea_briefs SET content = ?, updated_at = ? WHERE id = ?`),
		payload, newDBTime(now), brief.ID,
	)
	if err != nil {
		return nil, s.briefWriteError(err, ideaID, "updating brief")
	}

	if opts.Autosave {
		if err := s.appendVersionTx(ctx, tx, ideaID, payload, label, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, s.briefWriteError(err, ideaID, "committing brief")
	}

	brief.Content = content
	brief.UpdatedAt = now
	return brief, nil
}

// ListBriefVersions returns up to limit versions of the idea's brief, newest
// first. A limit <= 0 means DefaultVersionLimit.
func (s *SQLStore) ListBriefVersions(
	ctx context.Context,
	ideaID string,
	limit int,
) ([]model.BriefVersion, error) {
	if limit <= 0 {
		limit = DefaultVersionLimit
	}

	rows, err := s.db.QueryxContext(ctx, s.q(`
		SELECT id, idea_id, number, content, label, created_at
		FROM idea_brief_versions
		WHERE idea_id = ?
		ORDER BY created_at DESC, number DESC
		LIMIT ?`),
		ideaID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying brief versions of idea %s: %w", ideaID, err)
	}
	defer rows.Close()

	var versions []model.BriefVersion
	for rows.Next() {
		v, err := scanBriefVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}

// GetBriefVersion retrieves a single version by ID.
func (s *SQLStore) GetBriefVersion(ctx context.Context, versionID string) (*model.BriefVersion, error) {
	row := s.db.QueryRowxContext(ctx, s.q(`
		SELECT id, idea_id, number, content, label, created_at
		FROM idea_brief_versions WHERE id = ?`), versionID)

	v, err := scanBriefVersion(row)
	if err != nil {
		return nil, notFoundIfNoRows(err, "brief version", versionID)
	}
	return &v, nil
}

// RestoreBriefVersion loads a version and its content without writing
// anything. The caller must check that the version belongs to the idea it
// restores into, then apply the content with UpdateBrief and Autosave set so
// the restore is itself recorded as a new version.
func (s *SQLStore) RestoreBriefVersion(
	ctx context.Context,
	versionID string,
) (*model.BriefVersion, model.BriefContent, error) {
	v, err := s.GetBriefVersion(ctx, versionID)
	if err != nil {
		return nil, model.BriefContent{}, err
	}
	return v, v.Content, nil
}

// getOrCreateBriefTx reads the idea's brief inside tx, inserting an empty
// one when none exists yet.
func (s *SQLStore) getOrCreateBriefTx(ctx context.Context, tx *sqlx.Tx, ideaID string) (*model.Brief, error) {
	ok, err := s.ideaExists(ctx, tx, ideaID)
	if err != nil {
		return nil, s.briefWriteError(err, ideaID, "checking idea")
	}
	if !ok {
		return nil, model.NotFound("idea", ideaID)
	}

	row := tx.QueryRowxContext(ctx, s.q(`
		SELECT id, idea_id, content, updated_at FROM idea_briefs WHERE idea_id = ?`), ideaID)
	brief, err := scanBrief(row)
	if err == nil {
		return &brief, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, s.briefWriteError(err, ideaID, "getting brief")
	}

	empty, err := model.MarshalBriefContent(model.BriefContent{})
	if err != nil {
		return nil, err
	}
	brief = model.Brief{
		ID:        uuid.New().String(),
		IdeaID:    ideaID,
		UpdatedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO idea_briefs (id, idea_id, content, updated_at) VALUES (?, ?, ?, ?)`),
		brief.ID, brief.IdeaID, empty, newDBTime(brief.UpdatedAt),
	)
	if err != nil {
		return nil, s.briefWriteError(err, ideaID, "creating brief")
	}

	return &brief, nil
}

// appendVersionTx inserts the next numbered version of the idea's brief.
func (s *SQLStore) appendVersionTx(
	ctx context.Context,
	tx *sqlx.Tx,
	ideaID, payload, label string,
	now time.Time,
) error {
	var last int
	err := tx.GetContext(ctx, &last, s.q(`
		SELECT COALESCE(MAX(number), 0) FROM idea_brief_versions WHERE idea_id = ?`), ideaID)
	if err != nil {
		return fmt.Errorf("reading last version number of idea %s: %w", ideaID, err)
	}

	var labelArg *string
	if label != "" {
		labelArg = &label
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO idea_brief_versions (id, idea_id, number, content, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		uuid.New().String(), ideaID, last+1, payload, labelArg, newDBTime(now),
	)
	if err != nil {
		return s.briefWriteError(err, ideaID, "appending brief version")
	}
	return nil
}

// briefWriteError maps constraint failures on brief tables to domain errors.
func (s *SQLStore) briefWriteError(err error, ideaID, action string) error {
	switch {
	case isForeignKeyViolation(err):
		return model.NotFound("idea", ideaID)
	case isUniqueViolation(err), isLockContention(err):
		return &model.ConflictError{
			Entity:  "brief",
			Message: fmt.Sprintf("concurrent write for idea %s", ideaID),
		}
	default:
		return fmt.Errorf("%s for idea %s: %w", action, ideaID, err)
	}
}

// scanBrief scans a brief row; stored content that fails to parse becomes
// the empty content.
func scanBrief(row rowScanner) (model.Brief, error) {
	var (
		b         model.Brief
		content   string
		updatedAt dbTime
	)

	if err := row.Scan(&b.ID, &b.IdeaID, &content, &updatedAt); err != nil {
		return model.Brief{}, fmt.Errorf("scanning brief row: %w", err)
	}

	b.Content = model.ParseBriefContent(content)
	b.UpdatedAt = updatedAt.Time
	return b, nil
}

// scanBriefVersion scans a brief version row.
func scanBriefVersion(row rowScanner) (model.BriefVersion, error) {
	var (
		v         model.BriefVersion
		content   string
		createdAt dbTime
	)

	err := row.Scan(&v.ID, &v.IdeaID, &v.Number, &content, &v.Label, &createdAt)
	if err != nil {
		return model.BriefVersion{}, fmt.Errorf("scanning brief version row: %w", err)
	}

	v.Content = model.ParseBriefContent(content)
	v.CreatedAt = createdAt.Time
	return v, nil
}

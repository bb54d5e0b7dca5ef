package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nhle/contenthub/internal/model"
)

const templateColumns = `id, seed_key, name, body, category, favorite,
	created_at, updated_at, rating_sum, rating_count`

// ListTemplates seeds the default catalog if needed, then returns templates
// ordered by favorite first, average rating (unrated as 0) descending, and
// creation time ascending.
func (s *SQLStore) ListTemplates(ctx context.Context) ([]model.Template, error) {
	if err := s.EnsureTemplatesSeeded(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+templateColumns+" FROM templates ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows arrive oldest first; a stable sort keeps that as the last key.
	sort.SliceStable(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if a.Favorite != b.Favorite {
			return a.Favorite
		}
		return a.Score() > b.Score()
	})

	return templates, nil
}

// GetTemplate retrieves a single template by ID.
func (s *SQLStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	row := s.db.QueryRowxContext(ctx,
		s.q("SELECT "+templateColumns+" FROM templates WHERE id = ?"), id)

	t, err := scanTemplate(row)
	if err != nil {
		return nil, notFoundIfNoRows(err, "template", id)
	}
	return &t, nil
}

// CreateTemplate seeds the default catalog if needed, then inserts an
// unrated, non-favorite template.
func (s *SQLStore) CreateTemplate(ctx context.Context, nt NewTemplate) (*model.Template, error) {
	name, err := validateTemplateName(nt.Name)
	if err != nil {
		return nil, err
	}
	body, err := validateTemplateBody(nt.Body)
	if err != nil {
		return nil, err
	}
	category, err := normalizeCategory(nt.Category)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureTemplatesSeeded(ctx); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := newDBTime(time.Now())
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO templates (
			id, seed_key, name, body, category, favorite,
			created_at, updated_at, rating_sum, rating_count
		) VALUES (?, NULL, ?, ?, ?, 0, ?, ?, 0, 0)`),
		id, name, body, category, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}

	return s.GetTemplate(ctx, id)
}

// UpdateTemplate applies the fields set in patch.
func (s *SQLStore) UpdateTemplate(
	ctx context.Context,
	id string,
	patch model.TemplatePatch,
) (*model.Template, error) {
	var (
		sets []string
		args []any
	)

	if v, ok := patch.Name.Get(); ok {
		name, err := validateTemplateName(v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if v, ok := patch.Body.Get(); ok {
		body, err := validateTemplateBody(v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "body = ?")
		args = append(args, body)
	}
	if v, ok := patch.Category.Get(); ok {
		category, err := normalizeCategory(v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "category = ?")
		args = append(args, category)
	}
	if v, ok := patch.Favorite.Get(); ok {
		sets = append(sets, "favorite = ?")
		args = append(args, boolToInt(v))
	}

	if len(sets) == 0 {
		return s.GetTemplate(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, newDBTime(time.Now()), id)

	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE templates SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
	if err != nil {
		return nil, fmt.Errorf("updating template %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, model.NotFound("template", id)
	}

	return s.GetTemplate(ctx, id)
}

// SetTemplateFavorite marks or unmarks a template as favorite.
func (s *SQLStore) SetTemplateFavorite(
	ctx context.Context,
	id string,
	favorite bool,
) (*model.Template, error) {
	return s.UpdateTemplate(ctx, id, model.TemplatePatch{Favorite: model.Set(favorite)})
}

// RateTemplate adds one rating in a single UPDATE, so concurrent ratings of
// the same template never lose an increment.
func (s *SQLStore) RateTemplate(ctx context.Context, id string, rating int) (*model.Template, error) {
	if rating < model.RatingMin || rating > model.RatingMax {
		return nil, model.Invalid("rating", "must be between %d and %d", model.RatingMin, model.RatingMax)
	}

	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE templates SET
			rating_sum = rating_sum + ?,
			rating_count = rating_count + 1,
			updated_at = ?
		WHERE id = ?`),
		rating, newDBTime(time.Now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("rating template %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, model.NotFound("template", id)
	}

	return s.GetTemplate(ctx, id)
}

// scanTemplate scans a template row selected with templateColumns.
func scanTemplate(row rowScanner) (model.Template, error) {
	var (
		t         model.Template
		favorite  int
		createdAt dbTime
		updatedAt dbTime
	)

	err := row.Scan(
		&t.ID, &t.SeedKey, &t.Name, &t.Body, &t.Category, &favorite,
		&createdAt, &updatedAt, &t.RatingSum, &t.RatingCount,
	)
	if err != nil {
		return model.Template{}, fmt.Errorf("scanning template row: %w", err)
	}

	t.Favorite = favorite != 0
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return t, nil
}

func validateTemplateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < model.TemplateNameMinLen || n > model.TemplateNameMaxLen {
		return "", model.Invalid("name", "must be between %d and %d characters",
			model.TemplateNameMinLen, model.TemplateNameMaxLen)
	}
	return name, nil
}

func validateTemplateBody(body string) (string, error) {
	n := utf8.RuneCountInString(strings.TrimSpace(body))
	if n < model.TemplateBodyMinLen || utf8.RuneCountInString(body) > model.TemplateBodyMaxLen {
		return "", model.Invalid("body", "must be between %d and %d characters",
			model.TemplateBodyMinLen, model.TemplateBodyMaxLen)
	}
	return body, nil
}

// normalizeCategory trims the category and maps blank to nil.
func normalizeCategory(category *string) (*string, error) {
	if category == nil {
		return nil, nil
	}
	c := strings.TrimSpace(*category)
	if c == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(c) > model.TemplateCategoryMaxLen {
		return nil, model.Invalid("category", "must be at most %d characters", model.TemplateCategoryMaxLen)
	}
	return &c, nil
}

package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed/templates.yaml
var seedTemplatesYAML []byte

// seedTemplate is one entry of the embedded default catalog.
type seedTemplate struct {
	SeedKey  string `yaml:"seed_key"`
	Name     string `yaml:"name"`
	Body     string `yaml:"body"`
	Category string `yaml:"category"`
}

// defaultTemplates parses the embedded catalog.
func defaultTemplates() ([]seedTemplate, error) {
	var catalog []seedTemplate
	if err := yaml.Unmarshal(seedTemplatesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parsing template seed catalog: %w", err)
	}
	return catalog, nil
}

// EnsureTemplatesSeeded inserts the default catalog when the templates table
// is empty. Rows are keyed by seed_key, so concurrent callers that both see
// an empty table insert each entry at most once.
func (s *SQLStore) EnsureTemplatesSeeded(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM templates"); err != nil {
		return fmt.Errorf("counting templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	catalog, err := defaultTemplates()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO templates (
			id, seed_key, name, body, category, favorite,
			created_at, updated_at, rating_sum, rating_count
		) VALUES (?, ?, ?, ?, ?, 0, ?, ?, 0, 0)
		ON CONFLICT (seed_key) DO NOTHING`

	base := time.Now().UTC()
	for i, t := range catalog {
		// Offset creation times so the catalog lists in file order.
		created := newDBTime(base.Add(time.Duration(i) * time.Microsecond))

		var category *string
		if t.Category != "" {
			c := t.Category
			category = &c
		}

		_, err := tx.ExecContext(ctx, s.q(query),
			uuid.New().String(), t.SeedKey, t.Name, t.Body, category, created, created,
		)
		if err != nil {
			return fmt.Errorf("seeding template %s: %w", t.SeedKey, err)
		}
	}

	return tx.Commit()
}

package store

import (
	"context"

	"github.com/nhle/contenthub/internal/model"
)

// DefaultVersionLimit caps ListBriefVersions when the caller passes no limit.
const DefaultVersionLimit = 10

// BriefWriteOptions controls how UpdateBrief records history.
type BriefWriteOptions struct {
	// Autosave appends an immutable version carrying the written content.
	Autosave bool
	// Label is stored on the version; empty means model.LabelAutosave.
	Label string
}

// NewTemplate holds the fields accepted when creating a template.
type NewTemplate struct {
	Name     string
	Body     string
	Category *string
}

// Store defines the persistence interface for ideas, their briefs and
// version history, and reusable templates.
type Store interface {
	// === Ideas ===

	CreateIdea(ctx context.Context, title string, targetDate model.Date, description *string) (*model.Idea, error)
	GetIdea(ctx context.Context, id string) (*model.Idea, error)
	UpdateIdea(ctx context.Context, id string, patch model.IdeaPatch) (*model.Idea, error)
	ToggleIdeaCompletion(ctx context.Context, id string) (*model.Idea, error)
	DeleteIdea(ctx context.Context, id string) error
	ListIdeasInRange(ctx context.Context, start, end model.Date) ([]model.Idea, error)

	// === Briefs ===

	GetOrCreateBrief(ctx context.Context, ideaID string) (*model.Brief, error)
	UpdateBrief(ctx context.Context, ideaID string, content model.BriefContent, opts BriefWriteOptions) (*model.Brief, error)
	ListBriefVersions(ctx context.Context, ideaID string, limit int) ([]model.BriefVersion, error)
	GetBriefVersion(ctx context.Context, versionID string) (*model.BriefVersion, error)
	RestoreBriefVersion(ctx context.Context, versionID string) (*model.BriefVersion, model.BriefContent, error)

	// === Templates ===

	EnsureTemplatesSeeded(ctx context.Context) error
	ListTemplates(ctx context.Context) ([]model.Template, error)
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	CreateTemplate(ctx context.Context, t NewTemplate) (*model.Template, error)
	UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	SetTemplateFavorite(ctx context.Context, id string, favorite bool) (*model.Template, error)
	RateTemplate(ctx context.Context, id string, rating int) (*model.Template, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ Store = (*SQLStore)(nil)

// rowScanner is satisfied by both *sqlx.Row and *sqlx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

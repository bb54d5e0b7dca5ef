package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Dates are TEXT in YYYY-MM-DD form and timestamps are fixed-width UTC TEXT
// (see dbTime), so both sort lexically in every supported dialect.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS ideas (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT,
	target_date  TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at TEXT,
	CHECK ((completed = 1 AND completed_at IS NOT NULL) OR (completed = 0 AND completed_at IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_ideas_target_date ON ideas(target_date, created_at);

CREATE TABLE IF NOT EXISTS idea_briefs (
	id         TEXT PRIMARY KEY,
	idea_id    TEXT NOT NULL UNIQUE REFERENCES ideas(id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS idea_brief_versions (
	id         TEXT PRIMARY KEY,
	idea_id    TEXT NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
	number     INTEGER NOT NULL,
	content    TEXT NOT NULL,
	label      TEXT,
	created_at TEXT NOT NULL,
	UNIQUE(idea_id, number)
);

CREATE INDEX IF NOT EXISTS idx_brief_versions_idea ON idea_brief_versions(idea_id, created_at);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS templates (
	id           TEXT PRIMARY KEY,
	seed_key     TEXT UNIQUE,
	name         TEXT NOT NULL,
	body         TEXT NOT NULL,
	category     TEXT,
	favorite     INTEGER NOT NULL DEFAULT 0 CHECK(favorite IN (0, 1)),
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	rating_sum   INTEGER NOT NULL DEFAULT 0 CHECK(rating_sum >= 0),
	rating_count INTEGER NOT NULL DEFAULT 0 CHECK(rating_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_templates_favorite ON templates(favorite, created_at);
`,
	},
}

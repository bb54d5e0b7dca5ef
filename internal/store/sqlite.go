package store

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/nhle/contenthub/internal/model"
)

// SQLStore implements the Store interface on top of database/sql. The same
// schema and queries serve SQLite, libsql and Postgres: every column is TEXT
// or INTEGER and placeholders are rebound per driver.
type SQLStore struct {
	db      *sqlx.DB
	dialect string
}

// driverNames maps configured drivers to database/sql driver names.
var driverNames = map[string]string{
	model.DriverSQLite:   "sqlite",
	model.DriverLibSQL:   "libsql",
	model.DriverPostgres: "pgx",
}

// Open connects to the configured database, runs any pending schema
// migrations and seeds the default template catalog.
func Open(ctx context.Context, cfg model.DatabaseConfig) (*SQLStore, error) {
	name, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, &model.ConfigError{
			Component: "database",
			Message:   fmt.Sprintf("unsupported driver %q", cfg.Driver),
		}
	}

	dsn := cfg.DSN
	if cfg.Driver == model.DriverSQLite {
		dsn = sqliteDSN(cfg.DSN)
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", cfg.Driver, err)
	}
	if cfg.Driver == model.DriverSQLite && isMemoryDSN(cfg.DSN) {
		// An in-memory database lives only as long as its connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s db: %w", cfg.Driver, err)
	}

	s := &SQLStore{db: db, dialect: cfg.Driver}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := s.EnsureTemplatesSeeded(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding templates: %w", err)
	}

	return s, nil
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	return Open(context.Background(), model.DatabaseConfig{
		Driver: model.DriverSQLite,
		DSN:    dbPath,
	})
}

// sqliteDSN appends the connection settings every pooled connection needs:
// foreign keys, a busy timeout, WAL for file databases, and BEGIN IMMEDIATE
// so that a writer takes the lock before its first read.
func sqliteDSN(dsn string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_txlock=immediate",
	}
	if !isMemoryDSN(dsn) {
		params = append(params, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// Dialect returns the configured driver name.
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// q rebinds a '?' query for the active driver.
func (s *SQLStore) q(query string) string {
	return s.db.Rebind(query)
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each inside its own transaction.
func (s *SQLStore) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	currentVersion := 0
	err := s.db.GetContext(ctx, &currentVersion,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLStore) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration v%d: %w", m.version, err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(m.sql) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		s.q("INSERT INTO schema_version (version) VALUES (?)"), m.version,
	); err != nil {
		return fmt.Errorf("recording migration v%d: %w", m.version, err)
	}

	return tx.Commit()
}

// splitStatements breaks a migration script into single statements; the
// libsql HTTP protocol executes one statement per request.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// boolToInt converts a boolean to 0 or 1 for INTEGER flag columns.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

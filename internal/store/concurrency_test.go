package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nhle/contenthub/internal/model"
)

// openFile opens a file-backed store so that the pool holds several real
// connections competing for the database lock.
func openFile(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "contenthub.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteDSNAppliesToEveryConnection(t *testing.T) {
	tests := map[string]string{
		"/tmp/c.db":                     "/tmp/c.db?",
		"file:c.db?cache=shared":        "file:c.db?cache=shared&",
		":memory:":                      ":memory:?",
		"file::memory:?mode=memory&x=1": "file::memory:?mode=memory&x=1&",
	}
	for in, prefix := range tests {
		got := sqliteDSN(in)
		if !strings.HasPrefix(got, prefix) {
			t.Errorf("sqliteDSN(%q) = %q, want prefix %q", in, got, prefix)
		}
		for _, p := range []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)", "_txlock=immediate"} {
			if !strings.Contains(got, p) {
				t.Errorf("sqliteDSN(%q) = %q, missing %s", in, got, p)
			}
		}
		if wal := strings.Contains(got, "journal_mode(WAL)"); wal == isMemoryDSN(in) {
			t.Errorf("sqliteDSN(%q) = %q, WAL only applies to file databases", in, got)
		}
	}
}

func TestForeignKeysEnforcedOnEveryConnection(t *testing.T) {
	s := openFile(t)
	ctx := context.Background()

	// Hold several connections at once so the pool cannot hand back the
	// same one each time.
	for i := 0; i < 3; i++ {
		conn, err := s.db.Connx(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		_, err = conn.ExecContext(ctx, s.q(`
			INSERT INTO idea_briefs (id, idea_id, content, updated_at) VALUES (?, ?, ?, ?)`),
			fmt.Sprintf("brief-%d", i), "missing-idea", "{}", "2024-05-01T00:00:00.000000000Z",
		)
		if !isForeignKeyViolation(err) {
			t.Fatalf("conn %d: err = %v, want foreign key violation", i, err)
		}
	}
}

func TestConcurrentGetOrCreateBriefCreatesOneBrief(t *testing.T) {
	s := openFile(t)
	ctx := context.Background()

	const workers, rounds = 8, 10
	for round := 0; round < rounds; round++ {
		idea, err := s.CreateIdea(ctx, "Race", model.NewDate(2024, 5, 20), nil)
		if err != nil {
			t.Fatalf("CreateIdea: %v", err)
		}

		start := make(chan struct{})
		errs := make(chan error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := s.GetOrCreateBrief(ctx, idea.ID)
				errs <- err
			}()
		}
		close(start)
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, model.ErrConflict):
			default:
				t.Fatalf("round %d: err = %v, want nil or ErrConflict", round, err)
			}
		}
		if succeeded == 0 {
			t.Fatalf("round %d: every caller failed", round)
		}

		var n int
		if err := s.db.GetContext(ctx, &n, s.q("SELECT COUNT(*) FROM idea_briefs WHERE idea_id = ?"), idea.ID); err != nil {
			t.Fatalf("counting briefs: %v", err)
		}
		if n != 1 {
			t.Fatalf("round %d: %d briefs, want 1", round, n)
		}
	}
}

func TestConcurrentRatingsAreNotLost(t *testing.T) {
	s := openFile(t)
	ctx := context.Background()

	templates, err := s.ListTemplates(ctx)
	if err != nil || len(templates) == 0 {
		t.Fatalf("ListTemplates: %v (%d)", err, len(templates))
	}
	id := templates[0].ID

	const raters = 50
	var wg sync.WaitGroup
	errs := make(chan error, raters)
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := s.RateTemplate(ctx, id, rating)
			errs <- err
		}(i%5 + 1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("RateTemplate: %v", err)
		}
	}

	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	// Ratings cycle 1..5 ten times.
	if got.RatingCount != raters || got.RatingSum != 150 {
		t.Fatalf("count=%d sum=%d, want %d and 150", got.RatingCount, got.RatingSum, raters)
	}
	if r := got.Rating(); r == nil || *r != 3 {
		t.Fatalf("rating = %v, want 3", r)
	}
}

func TestBriefWriteErrorMapsLockContentionToConflict(t *testing.T) {
	s := openMemory(t)

	err := s.briefWriteError(errors.New("database is locked"), "idea-1", "creating brief")
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	err = s.briefWriteError(errors.New("disk I/O error"), "idea-1", "creating brief")
	if errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want a plain wrapped error", err)
	}
}

package testutil

import (
	"testing"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied and
// the default templates seeded. It automatically closes the store when the
// test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// MustDate parses a YYYY-MM-DD literal or fails the test.
func MustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

package credential

import (
	"errors"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemory()

	if _, err := s.Get("gcs-signing-key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: err = %v", err)
	}
	if err := s.Set("gcs-signing-key", "pem"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("gcs-signing-key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "pem" {
		t.Fatalf("Get = %q", got)
	}
	if err := s.Delete("gcs-signing-key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("gcs-signing-key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: err = %v", err)
	}
}

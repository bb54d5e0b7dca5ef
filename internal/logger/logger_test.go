package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"path", "/api/ideas", "private_key", "-----BEGIN", "Auth_Token", "abc", "dangling"})
	want := []interface{}{"path", "/api/ideas", "private_key", "[REDACTED]", "Auth_Token", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNopLoggerIsUsable(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", 1)
	l.Sync()
}

package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeLayout is fixed width so stored timestamps order lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// dbTime stores a UTC timestamp as TEXT. Scan also accepts the native time
// values some drivers return.
type dbTime struct {
	time.Time
}

func newDBTime(t time.Time) dbTime {
	return dbTime{Time: t.UTC()}
}

// Value implements driver.Valuer.
func (t dbTime) Value() (driver.Value, error) {
	return t.UTC().Format(timeLayout), nil
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// nullTime converts an optional timestamp to a nullable column value.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return newDBTime(*t)
}

// timePtr converts a scanned nullable timestamp back to *time.Time.
func timePtr(t *dbTime) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

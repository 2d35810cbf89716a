package record

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Mapping is the key-value form of a Record.
type Mapping map[string]any

const (
	KeyID        = "id"
	KeyCreatedAt = "created_at"
	KeyUpdatedAt = "updated_at"
	KeyKind      = "__class__"
)

// TimestampLayout is ISO-8601 with microseconds and no zone. Timestamps are
// always UTC.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func isReserved(key string) bool {
	switch key {
	case KeyID, KeyCreatedAt, KeyUpdatedAt, KeyKind:
		return true
	}
	return false
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout, read as UTC, or RFC 3339 with an
// explicit offset.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		var rfcErr error
		if t, rfcErr = time.Parse(time.RFC3339Nano, s); rfcErr != nil {
			return time.Time{}, err
		}
	}
	return normalize(t), nil
}

// timestampField returns the zero time when key is absent.
func timestampField(m Mapping, key string) (time.Time, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return time.Time{}, nil
	}
	switch v := v.(type) {
	case string:
		t, err := ParseTimestamp(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: %w", ErrInvalidTimestamp, key, err)
		}
		return t, nil
	case time.Time:
		return normalize(v), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s: unexpected type %T", ErrInvalidTimestamp, key, v)
	}
}

func marshalMapping(m Mapping) ([]byte, error) {
	return json.Marshal(map[string]any(m))
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return marshalMapping(r.ToMapping())
}

// UnmarshalJSON replaces r with the record decoded from a JSON mapping. Options
// already applied to r, such as the kind and clock, are kept.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var opts []Option
	if r.kind != "" {
		opts = append(opts, WithKind(r.kind))
	}
	if r.clock != nil {
		opts = append(opts, WithClock(r.clock))
	}
	decoded, err := FromMapping(m, opts...)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

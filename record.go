// Package record provides a base entity with identity and timestamp
// bookkeeping, serializable to and from a flat mapping.
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const DefaultKind = "BaseModel"

var (
	ErrReservedKey      = errors.New("reserved attribute key")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Record is the base entity. The zero value is not usable; construct with New
// or FromMapping.
type Record struct {
	id        string
	kind      string
	createdAt time.Time
	updatedAt time.Time
	attrs     Mapping

	clock func() time.Time
}

type Option func(*Record)

// WithKind sets the type name written under the type tag and shown by String.
func WithKind(kind string) Option {
	return func(r *Record) {
		if kind != "" {
			r.kind = kind
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Record) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func New(opts ...Option) *Record {
	r := newRecord(opts)
	r.id = uuid.NewString()
	r.createdAt = r.now()
	r.updatedAt = r.createdAt
	return r
}

// FromMapping rebuilds a Record from the output of ToMapping. Attributes other
// than the identity and timestamp keys are kept as-is and the type tag is
// ignored. A missing id or timestamp is filled in as New would.
func FromMapping(m Mapping, opts ...Option) (*Record, error) {
	r := newRecord(opts)

	if v, ok := m[KeyID]; ok {
		id, ok := v.(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, v)
		}
		r.id = id
	} else {
		r.id = uuid.NewString()
	}

	var err error
	if r.createdAt, err = timestampField(m, KeyCreatedAt); err != nil {
		return nil, err
	}
	if r.updatedAt, err = timestampField(m, KeyUpdatedAt); err != nil {
		return nil, err
	}
	switch {
	case r.createdAt.IsZero() && r.updatedAt.IsZero():
		r.createdAt = r.now()
		r.updatedAt = r.createdAt
	case r.createdAt.IsZero():
		r.createdAt = r.updatedAt
	case r.updatedAt.IsZero():
		r.updatedAt = r.createdAt
	}
	if r.updatedAt.Before(r.createdAt) {
		return nil, fmt.Errorf("%w: %s %s is before %s %s", ErrInvalidTimestamp,
			KeyUpdatedAt, FormatTimestamp(r.updatedAt), KeyCreatedAt, FormatTimestamp(r.createdAt))
	}

	for k, v := range m {
		if isReserved(k) {
			continue
		}
		r.attrs[k] = v
	}
	return r, nil
}

func newRecord(opts []Option) *Record {
	r := &Record{
		kind:  DefaultKind,
		attrs: Mapping{},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Record) now() time.Time {
	return normalize(r.clock())
}

func (r *Record) ID() string {
	return r.id
}

func (r *Record) Kind() string {
	return r.kind
}

func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Record) UpdatedAt() time.Time {
	return r.updatedAt
}

// Save refreshes UpdatedAt. UpdatedAt always moves forward, by at least one
// microsecond, even if the clock has not.
func (r *Record) Save() {
	now := r.now()
	if !now.After(r.updatedAt) {
		now = r.updatedAt.Add(time.Microsecond)
	}
	r.updatedAt = now
}

func (r *Record) Set(key string, value any) error {
	if isReserved(key) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	r.attrs[key] = value
	return nil
}

func (r *Record) Get(key string) (any, bool) {
	switch key {
	case KeyID:
		return r.id, true
	case KeyCreatedAt:
		return r.createdAt, true
	case KeyUpdatedAt:
		return r.updatedAt, true
	}
	v, ok := r.attrs[key]
	return v, ok
}

// Attributes returns a copy of every instance attribute. Timestamps are
// time.Time values; the type tag is not included.
func (r *Record) Attributes() Mapping {
	return lo.Assign(r.attrs, Mapping{
		KeyID:        r.id,
		KeyCreatedAt: r.createdAt,
		KeyUpdatedAt: r.updatedAt,
	})
}

// ToMapping returns the serialized form: every attribute, timestamps as
// ISO-8601 strings, and the type tag.
func (r *Record) ToMapping() Mapping {
	return lo.Assign(r.attrs, Mapping{
		KeyID:        r.id,
		KeyCreatedAt: FormatTimestamp(r.createdAt),
		KeyUpdatedAt: FormatTimestamp(r.updatedAt),
		KeyKind:      r.kind,
	})
}

// String renders "[<kind>] (<id>) <attributes>" with the attributes as a
// JSON object.
func (r *Record) String() string {
	attrs := lo.OmitByKeys(r.ToMapping(), []string{KeyKind})
	b, err := marshalMapping(attrs)
	if err != nil {
		b = []byte(fmt.Sprint(map[string]any(attrs)))
	}
	return fmt.Sprintf("[%s] (%s) %s", r.kind, r.id, b)
}

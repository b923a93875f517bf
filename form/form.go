// Package form holds the draft field values of an add or edit dialog and
// turns them into typed records.
package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/shopspring/decimal"
)

const (
	DateLayout             = "02-01-2006"
	DateFallbackLayout     = "2006-01-02"
	DateTimeLayout         = "02-01-2006 15:04"
	DateTimeFallbackLayout = "2006-01-02T15:04"
	ClockLayout            = "15:04"
)

type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// State is the draft of one record. Values are kept as the text the user typed.
type State struct {
	kind     *schema.Kind
	mode     Mode
	values   map[string]string
	original models.Record
	now      func() time.Time
}

// New returns a cleared draft in add mode.
func New(kind *schema.Kind) *State {
	s := &State{kind: kind, now: time.Now}
	s.Clear()
	return s
}

// WithClock replaces the clock used for "now" defaults.
func (s *State) WithClock(now func() time.Time) *State {
	s.now = now
	return s
}

func (s *State) Kind() *schema.Kind {
	return s.kind
}

func (s *State) Mode() Mode {
	return s.mode
}

// Field returns the draft text of a field.
func (s *State) Field(name string) string {
	return s.values[name]
}

// Values returns a copy of the draft.
func (s *State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// SetField updates one draft value. The key field is never editable.
func (s *State) SetField(name, value string) error {
	if name == schema.KeyField {
		return &models.ValidationError{Field: name, Message: "key is assigned automatically"}
	}
	if _, ok := s.kind.Field(name); !ok {
		return &models.ValidationError{Field: name, Message: "unknown field for " + s.kind.Name}
	}
	s.values[name] = value
	return nil
}

// Clear resets the draft to the kind defaults and switches to add mode.
func (s *State) Clear() {
	s.mode = ModeAdd
	s.original = nil
	s.values = make(map[string]string, len(s.kind.Fields))
	for _, f := range s.kind.EditableFields() {
		s.values[f.Name] = f.Default
	}
}

// Populate seeds the draft from an existing record and switches to edit mode.
func (s *State) Populate(r models.Record) {
	s.mode = ModeEdit
	s.original = r.Clone()
	s.values = make(map[string]string, len(s.kind.Fields))
	for _, f := range s.kind.EditableFields() {
		s.values[f.Name] = format(f, r[f.Name])
	}
}

// ToRecord coerces the draft into a typed record carrying key.
func (s *State) ToRecord(key string) (models.Record, error) {
	out := models.Record{schema.KeyField: key}
	for _, f := range s.kind.EditableFields() {
		raw := s.values[f.Name]
		v, keep, err := s.coerce(f, raw)
		if err != nil {
			return nil, err
		}
		if keep {
			out[f.Name] = v
		}
	}
	return out, nil
}

func (s *State) coerce(f schema.Field, raw string) (interface{}, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if f.Required && trimmed == "" {
		return nil, false, &models.ValidationError{Field: f.Name, Message: "is required"}
	}

	switch f.Kind {
	case schema.Number:
		return parseMoney(trimmed), true, nil
	case schema.Integer:
		return parseInteger(trimmed), true, nil
	case schema.Date, schema.DateTime:
		if trimmed == "" {
			if s.mode == ModeAdd {
				return s.today(f.Kind), true, nil
			}
			prev, ok := s.original[f.Name]
			return prev, ok && prev != nil, nil
		}
		primary, fallback := DateLayout, DateFallbackLayout
		if f.Kind == schema.DateTime {
			primary, fallback = DateTimeLayout, DateTimeFallbackLayout
		}
		t, err := parseTime(trimmed, primary, fallback)
		if err != nil {
			return nil, false, &models.ParseError{Field: f.Name, Value: raw, Err: err}
		}
		return t, true, nil
	case schema.Clock:
		if trimmed == "" {
			return "", true, nil
		}
		t, err := time.Parse(ClockLayout, trimmed)
		if err != nil {
			return nil, false, &models.ParseError{Field: f.Name, Value: raw, Err: err}
		}
		return t.Format(ClockLayout), true, nil
	case schema.Enum:
		if trimmed == "" {
			return f.Default, true, nil
		}
		if !f.Allows(trimmed) {
			return nil, false, &models.ValidationError{
				Field:   f.Name,
				Message: "must be one of " + strings.Join(f.Options, ", "),
			}
		}
		return trimmed, true, nil
	case schema.ForeignKey:
		return trimmed, true, nil
	}
	return raw, true, nil
}

// today returns the current wall-clock time labelled UTC, the same way typed
// dates are stored. Date fields get midnight.
func (s *State) today(kind schema.FieldKind) time.Time {
	n := s.now()
	if kind == schema.Date {
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), 0, 0, time.UTC)
}

func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

func parseInteger(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d.IntPart()
	}
	return 0
}

func parseTime(s, primary, fallback string) (time.Time, error) {
	t, err := time.Parse(primary, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(fallback, s)
}

// format renders a stored value back to the text a user would type.
func format(f schema.Field, v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if f.Kind == schema.DateTime {
			return val.Format(DateTimeLayout)
		}
		return val.Format(DateLayout)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	}
	return models.Record{f.Name: v}.String(f.Name)
}

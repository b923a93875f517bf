// Package schema describes every entity kind of the venue: its table name,
// key prefix and ordered field list. Forms, stores and the HTTP layer read
// field types from here instead of switching on kind names.
package schema

import (
	"strings"
	"time"

	"github.com/amorty/cafe-admin/models"
)

type FieldKind string

const (
	Text       FieldKind = "text"
	Number     FieldKind = "number"
	Integer    FieldKind = "integer"
	Date       FieldKind = "date"
	DateTime   FieldKind = "datetime"
	Clock      FieldKind = "time"
	Enum       FieldKind = "enum"
	ForeignKey FieldKind = "foreign_key"
)

// KeyField is the primary key field of every kind.
const KeyField = "id"

type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Default  string    `json:"default,omitempty"`
	Ref      string    `json:"ref,omitempty"`
	Required bool      `json:"required"`
}

// Temporal reports whether the field holds a time.Time value.
func (f Field) Temporal() bool {
	return f.Kind == Date || f.Kind == DateTime
}

// Allows reports whether value is one of the enum options.
func (f Field) Allows(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}

type Kind struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Prefix string  `json:"prefix"`
	Fields []Field `json:"fields"`
}

// Field returns the named field descriptor.
func (k *Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// EditableFields returns every field except the key, in display order.
func (k *Kind) EditableFields() []Field {
	out := make([]Field, 0, len(k.Fields))
	for _, f := range k.Fields {
		if f.Name == KeyField {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ForeignKeys returns the fields referencing other kinds.
func (k *Kind) ForeignKeys() []Field {
	var out []Field
	for _, f := range k.Fields {
		if f.Kind == ForeignKey {
			out = append(out, f)
		}
	}
	return out
}

// KeyOf returns the primary key of r.
func (k *Kind) KeyOf(r models.Record) string {
	return r.String(KeyField)
}

// Normalize restores Go types on a record decoded from JSON: integers become
// int64 and date fields become time.Time. Unknown fields are dropped.
func (k *Kind) Normalize(raw models.Record) models.Record {
	out := make(models.Record, len(raw))
	for _, f := range k.Fields {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}
		switch f.Kind {
		case Number:
			if n, ok := v.(float64); ok {
				out[f.Name] = n
				continue
			}
		case Integer:
			switch n := v.(type) {
			case float64:
				out[f.Name] = int64(n)
				continue
			case int64:
				out[f.Name] = n
				continue
			case int:
				out[f.Name] = int64(n)
				continue
			}
		case Date, DateTime:
			switch t := v.(type) {
			case string:
				if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
					out[f.Name] = parsed
					continue
				}
			case time.Time:
				out[f.Name] = t
				continue
			}
		}
		out[f.Name] = v
	}
	return out
}

var aliases = map[string]string{
	"customers": "customer",
	"staff":     "karyawan",
	"tables":    "meja",
	"orders":    "pesanan",
	"payments":  "pembayaran",
}

// Lookup finds a kind by table name, case-insensitively.
func Lookup(name string) (*Kind, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		n = alias
	}
	for _, k := range registry {
		if k.Name == n {
			return k, true
		}
	}
	return nil, false
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *Kind {
	k, ok := Lookup(name)
	if !ok {
		panic("schema: unknown kind " + name)
	}
	return k
}

// All returns every kind in tab order.
func All() []*Kind {
	out := make([]*Kind, len(registry))
	copy(out, registry)
	return out
}

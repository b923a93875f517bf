package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one row of an entity table, keyed by field name.
type Record map[string]interface{}

// Clone returns a shallow copy so callers cannot mutate stored rows.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field as text, or "" when it is missing.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Float returns a numeric field as float64.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Time returns a time field, zero when absent.
func (r Record) Time(field string) time.Time {
	if t, ok := r[field].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// EntityRecord is the persisted form of a Record. Fields are kept as JSON text
// so every entity kind shares one table.
type EntityRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Kind      string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_kind_key" json:"kind"`
	RecordKey string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_kind_key" json:"key"`
	Data      string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (EntityRecord) TableName() string {
	return "entity_records"
}

// SetFields serializes the record into Data.
func (e *EntityRecord) SetFields(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	e.Data = string(data)
	return nil
}

// GetFields decodes Data. Values come back as JSON types (string, float64, bool).
func (e *EntityRecord) GetFields() (Record, error) {
	out := Record{}
	if e.Data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(e.Data), &out); err != nil {
		return nil, err
	}
	return out, nil
}

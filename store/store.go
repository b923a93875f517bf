// Package store keeps entity tables. Two backends share one interface: an
// in-memory store for tests and single-process use, and a gorm store backed
// by sqlite or mysql.
package store

import (
	"context"
	"errors"

	"github.com/amorty/cafe-admin/allocator"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
)

// Store holds every entity table. Rows come back in insertion order.
type Store interface {
	List(ctx context.Context, kind *schema.Kind) ([]models.Record, error)
	Get(ctx context.Context, kind *schema.Kind, key string) (models.Record, error)
	Keys(ctx context.Context, kind *schema.Kind) ([]string, error)

	// Add appends rec. A record with the same key yields DuplicateKeyError.
	Add(ctx context.Context, kind *schema.Kind, rec models.Record) error
	// Update overwrites the non-key fields present in fields and returns the
	// stored row. A missing key yields NotFoundError.
	Update(ctx context.Context, kind *schema.Kind, key string, fields models.Record) (models.Record, error)
	// Delete removes the row. A missing key yields NotFoundError.
	Delete(ctx context.Context, kind *schema.Kind, key string) error

	// Atomic runs fn against a transactional view. If fn returns an error
	// nothing it did is kept. Calls nest into the outer transaction.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// BuildFunc produces the record for a freshly allocated key. tx is the
// transactional view, for lookups that must see the same state.
type BuildFunc func(tx Store, key string) (models.Record, error)

// Create allocates the next key for kind, builds the record and appends it in
// one atomic step so concurrent creators never race for the same key.
func Create(ctx context.Context, s Store, kind *schema.Kind, build BuildFunc) (models.Record, error) {
	var created models.Record
	err := s.Atomic(ctx, func(tx Store) error {
		keys, err := tx.Keys(ctx, kind)
		if err != nil {
			return err
		}
		key := allocator.Allocate(kind, keys)
		rec, err := build(tx, key)
		if err != nil {
			return err
		}
		rec[schema.KeyField] = key
		if err := tx.Add(ctx, kind, rec); err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *models.NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err is a DuplicateKeyError.
func IsDuplicate(err error) bool {
	var dup *models.DuplicateKeyError
	return errors.As(err, &dup)
}

// mergeFields copies every non-key field of fields onto base.
func mergeFields(base, fields models.Record) models.Record {
	out := base.Clone()
	for k, v := range fields {
		if k == schema.KeyField {
			continue
		}
		out[k] = v
	}
	return out
}

func requireKey(kind *schema.Kind, rec models.Record) (string, error) {
	key := kind.KeyOf(rec)
	if key == "" {
		return "", &models.ValidationError{Field: schema.KeyField, Message: "is required"}
	}
	return key, nil
}

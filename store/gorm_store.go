package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists records in the entity_records table. Every mutation
// also writes a db_changes row in the same transaction for the change monitor.
type GormStore struct {
	DB   *gorm.DB
	Now  func() time.Time
	mu   *sync.Mutex
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		DB:  db,
		Now: time.Now,
		mu:  &sync.Mutex{},
	}
}

// Migrate creates the tables the store writes to.
func (s *GormStore) Migrate() error {
	return s.DB.AutoMigrate(&models.EntityRecord{}, &models.DBChange{})
}

func (s *GormStore) List(ctx context.Context, kind *schema.Kind) ([]models.Record, error) {
	var rows []models.EntityRecord
	if err := s.DB.WithContext(ctx).
		Where("kind = ?", kind.Name).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}

	out := make([]models.Record, 0, len(rows))
	for i := range rows {
		rec, err := s.decode(kind, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, kind *schema.Kind, key string) (models.Record, error) {
	row, err := s.find(ctx, kind, key)
	if err != nil {
		return nil, err
	}
	return s.decode(kind, row)
}

func (s *GormStore) Keys(ctx context.Context, kind *schema.Kind) ([]string, error) {
	var keys []string
	if err := s.query(ctx).
		Model(&models.EntityRecord{}).
		Where("kind = ?", kind.Name).
		Order("id ASC").
		Pluck("record_key", &keys).Error; err != nil {
		return nil, unavailable(err)
	}
	return keys, nil
}

func (s *GormStore) Add(ctx context.Context, kind *schema.Kind, rec models.Record) error {
	key, err := requireKey(kind, rec)
	if err != nil {
		return err
	}
	return s.write(ctx, func(tx *GormStore) error {
		var count int64
		if err := tx.query(ctx).
			Model(&models.EntityRecord{}).
			Where("kind = ? AND record_key = ?", kind.Name, key).
			Count(&count).Error; err != nil {
			return unavailable(err)
		}
		if count > 0 {
			return &models.DuplicateKeyError{Kind: kind.Name, Key: key}
		}

		row := models.EntityRecord{Kind: kind.Name, RecordKey: key}
		if err := row.SetFields(toStored(rec)); err != nil {
			return unavailable(err)
		}
		if err := tx.DB.WithContext(ctx).Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &models.DuplicateKeyError{Kind: kind.Name, Key: key}
			}
			return unavailable(err)
		}
		return tx.logChange(ctx, kind, key, models.ActionInsert)
	})
}

func (s *GormStore) Update(ctx context.Context, kind *schema.Kind, key string, fields models.Record) (models.Record, error) {
	var updated models.Record
	err := s.write(ctx, func(tx *GormStore) error {
		row, err := tx.find(ctx, kind, key)
		if err != nil {
			return err
		}
		cur, err := tx.decode(kind, row)
		if err != nil {
			return err
		}
		next := mergeFields(cur, fields)
		if err := row.SetFields(toStored(next)); err != nil {
			return unavailable(err)
		}
		if err := tx.DB.WithContext(ctx).Save(row).Error; err != nil {
			return unavailable(err)
		}
		updated = kind.Normalize(toStored(next))
		return tx.logChange(ctx, kind, key, models.ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) Delete(ctx context.Context, kind *schema.Kind, key string) error {
	return s.write(ctx, func(tx *GormStore) error {
		res := tx.DB.WithContext(ctx).
			Where("kind = ? AND record_key = ?", kind.Name, key).
			Delete(&models.EntityRecord{})
		if res.Error != nil {
			return unavailable(res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Kind: kind.Name, Key: key}
		}
		return tx.logChange(ctx, kind, key, models.ActionDelete)
	})
}

// Atomic runs fn in one database transaction. Writers are also serialized
// in-process because sqlite has no row locks to hold the key scan.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.write(ctx, func(tx *GormStore) error {
		return fn(tx)
	})
}

func (s *GormStore) write(ctx context.Context, fn func(tx *GormStore) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var inner error
	err := s.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		inner = fn(&GormStore{DB: db, Now: s.Now, mu: s.mu, inTx: true})
		return inner
	})
	if err == nil {
		return nil
	}
	if inner != nil {
		return inner
	}
	utils.ErrorLogger.Printf("Transaction failed: %v", err)
	return unavailable(err)
}

// query locks scanned rows on mysql when running inside a transaction.
func (s *GormStore) query(ctx context.Context) *gorm.DB {
	db := s.DB.WithContext(ctx)
	if s.inTx && s.DB.Dialector.Name() == "mysql" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (s *GormStore) find(ctx context.Context, kind *schema.Kind, key string) (*models.EntityRecord, error) {
	var row models.EntityRecord
	err := s.query(ctx).
		Where("kind = ? AND record_key = ?", kind.Name, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Kind: kind.Name, Key: key}
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return &row, nil
}

func (s *GormStore) decode(kind *schema.Kind, row *models.EntityRecord) (models.Record, error) {
	raw, err := row.GetFields()
	if err != nil {
		return nil, unavailable(err)
	}
	rec := kind.Normalize(raw)
	rec[schema.KeyField] = row.RecordKey
	return rec, nil
}

func (s *GormStore) logChange(ctx context.Context, kind *schema.Kind, key, action string) error {
	change := models.DBChange{
		Kind:       kind.Name,
		RecordKey:  key,
		ActionType: action,
		ChangedAt:  s.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&change).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// toStored puts times in UTC so they survive the JSON round trip unchanged.
func toStored(rec models.Record) models.Record {
	out := rec.Clone()
	for k, v := range out {
		if t, ok := v.(time.Time); ok {
			out[k] = t.UTC()
		}
	}
	return out
}

func unavailable(err error) error {
	var su *models.StorageUnavailableError
	if errors.As(err, &su) {
		return err
	}
	return &models.StorageUnavailableError{Err: err}
}

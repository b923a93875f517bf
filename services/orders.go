package services

import (
	"context"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
)

// ReserveOnOrderCreate marks the table an order was placed at as RESERVED.
func ReserveOnOrderCreate(ctx context.Context, tx store.Store, order models.Record) error {
	mejaID := order.String("meja_id")
	if mejaID == "" {
		return nil
	}
	_, err := tx.Update(ctx, schema.Meja, mejaID, models.Record{"status": schema.MejaReserved})
	return err
}

// PlaceOrder creates a pesanan and reserves its table. Either both happen or
// neither does.
func PlaceOrder(ctx context.Context, s store.Store, build store.BuildFunc) (models.Record, error) {
	var order models.Record
	err := s.Atomic(ctx, func(tx store.Store) error {
		created, err := store.Create(ctx, tx, schema.Pesanan, build)
		if err != nil {
			return err
		}
		if err := ReserveOnOrderCreate(ctx, tx, created); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s placed at table %s", order.String(schema.KeyField), order.String("meja_id"))
	return order, nil
}

// CheckReferences verifies every non-empty foreign key of rec points at an
// existing record.
func CheckReferences(ctx context.Context, tx store.Store, kind *schema.Kind, rec models.Record) error {
	for _, f := range kind.ForeignKeys() {
		ref := rec.String(f.Name)
		if ref == "" {
			continue
		}
		target, ok := schema.Lookup(f.Ref)
		if !ok {
			return &models.ValidationError{Field: f.Name, Message: "unknown reference kind " + f.Ref}
		}
		if _, err := tx.Get(ctx, target, ref); err != nil {
			if store.IsNotFound(err) {
				return &models.ValidationError{Field: f.Name, Message: "no " + target.Label + " with id " + ref}
			}
			return err
		}
	}
	return nil
}

// RequireAvailableTable fails with ErrTableNotFree unless the table is AVAILABLE.
func RequireAvailableTable(ctx context.Context, tx store.Store, mejaID string) error {
	meja, err := tx.Get(ctx, schema.Meja, mejaID)
	if err != nil {
		if store.IsNotFound(err) {
			return &models.ValidationError{Field: "meja_id", Message: "no Meja with id " + mejaID}
		}
		return err
	}
	if meja.String("status") != schema.MejaAvailable {
		return models.ErrTableNotFree
	}
	return nil
}

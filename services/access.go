package services

import (
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
)

// customerReadable lists what a customer may browse. Rows of kinds with an
// owner field are narrowed to the customer's own.
var customerReadable = map[string]bool{
	"customer":  true,
	"menu":      true,
	"meja":      true,
	"pesanan":   true,
	"reservasi": true,
}

// CanRead reports whether actor may list kind at all.
func CanRead(actor models.Actor, kind *schema.Kind) bool {
	return actor.IsAdmin() || customerReadable[kind.Name]
}

// CanCreate reports whether actor may add records of kind. Customers may only
// place orders.
func CanCreate(actor models.Actor, kind *schema.Kind) bool {
	return actor.IsAdmin() || kind == schema.Pesanan
}

// Owns reports whether actor may see rec. Admins see everything.
func Owns(actor models.Actor, kind *schema.Kind, rec models.Record) bool {
	if actor.IsAdmin() {
		return true
	}
	if kind == schema.Customer {
		return kind.KeyOf(rec) == actor.CustomerID
	}
	if _, ok := kind.Field("customer_id"); ok {
		return rec.String("customer_id") == actor.CustomerID
	}
	return true
}

// Visible combines CanRead and Owns.
func Visible(actor models.Actor, kind *schema.Kind, rec models.Record) bool {
	return CanRead(actor, kind) && Owns(actor, kind, rec)
}

package database

import (
	"context"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
)

type seedRow struct {
	kind *schema.Kind
	rec  models.Record
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleData(now time.Time) []seedRow {
	ordered := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, time.UTC)
	today := day(now.Year(), now.Month(), now.Day())

	return []seedRow{
		{schema.Customer, models.Record{"id": "CUS1", "name": "John Doe", "contact": "+62812345671"}},
		{schema.Customer, models.Record{"id": "CUS2", "name": "Jane Smith", "contact": "+62812345672"}},
		{schema.Customer, models.Record{"id": "CUS3", "name": "Mike Johnson", "contact": "+62812345673"}},

		{schema.Karyawan, models.Record{"id": "KAR1", "name": "Alice Brown", "hire_date": day(2023, 1, 15), "salary": 4500000.0}},
		{schema.Karyawan, models.Record{"id": "KAR2", "name": "Bob Wilson", "hire_date": day(2023, 3, 10), "salary": 3500000.0}},
		{schema.Karyawan, models.Record{"id": "KAR3", "name": "Carol Davis", "hire_date": day(2023, 5, 20), "salary": 3000000.0}},

		{schema.Meja, models.Record{"id": "MJ1", "number": int64(1), "status": schema.MejaAvailable, "karyawan_id": "KAR1"}},
		{schema.Meja, models.Record{"id": "MJ2", "number": int64(2), "status": schema.MejaAvailable, "karyawan_id": "KAR2"}},
		{schema.Meja, models.Record{"id": "MJ3", "number": int64(3), "status": schema.MejaReserved, "karyawan_id": "KAR3"}},
		{schema.Meja, models.Record{"id": "MJ4", "number": int64(4), "status": schema.MejaAvailable, "karyawan_id": "KAR1"}},

		{schema.Menu, models.Record{"id": "MN1", "name": "Espresso", "price": 15000.0, "category": "Minuman"}},
		{schema.Menu, models.Record{"id": "MN2", "name": "Cappuccino", "price": 20000.0, "category": "Minuman"}},
		{schema.Menu, models.Record{"id": "MN3", "name": "Nasi Goreng", "price": 25000.0, "category": "Makanan"}},
		{schema.Menu, models.Record{"id": "MN4", "name": "Sandwich Club", "price": 30000.0, "category": "Makanan"}},

		{schema.Pesanan, models.Record{"id": "PES1", "customer_id": "CUS1", "karyawan_id": "KAR1", "ordered_at": ordered, "menu_id": "MN1", "meja_id": "MJ3"}},

		{schema.Transaksi, models.Record{"id": "TRX1", "pesanan_id": "PES1", "total": 15000.0, "date": today, "karyawan_id": "KAR1"}},
		{schema.Pembayaran, models.Record{"id": "PB1", "pesanan_id": "PES1", "transaksi_id": "TRX1", "karyawan_id": "KAR1", "method": "Cash", "amount": 15000.0, "paid_at": today}},
		{schema.Reservasi, models.Record{"id": "RSV1", "customer_id": "CUS2", "meja_id": "MJ4", "karyawan_id": "KAR2", "date": today, "start_time": "19:00", "end_time": "21:00", "status": schema.ReservasiPending}},
	}
}

// SeedSampleData fills an empty store with a small demo venue. It does
// nothing when customers already exist.
func SeedSampleData(ctx context.Context, s store.Store, now time.Time) error {
	keys, err := s.Keys(ctx, schema.Customer)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		utils.InfoLogger.Println("Sample data already exists")
		return nil
	}

	rows := sampleData(now)
	err = s.Atomic(ctx, func(tx store.Store) error {
		for _, r := range rows {
			if err := tx.Add(ctx, r.kind, r.rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.Printf("Sample data seeded: %d records", len(rows))
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/shopspring/decimal"
)

const recentOrderLimit = 5

type Stats struct {
	Counts              map[string]int  `json:"counts"`
	AvailableTables     int             `json:"available_tables"`
	OccupiedTables      int             `json:"occupied_tables"`
	PendingReservations int             `json:"pending_reservations"`
	TodayOrders         int             `json:"today_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TodayRevenue        decimal.Decimal `json:"today_revenue"`
	TotalRevenueIDR     string          `json:"total_revenue_idr"`
	TodayRevenueIDR     string          `json:"today_revenue_idr"`
	RecentOrders        []models.Record `json:"recent_orders"`
}

// ComputeStats summarizes every table as of now. "Today" is the calendar day
// of now in its own location. Stored times carry wall-clock values, so their
// date is read as is.
func ComputeStats(ctx context.Context, s store.Store, now time.Time) (*Stats, error) {
	tables := make(map[string][]models.Record)
	for _, kind := range schema.All() {
		rows, err := s.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		tables[kind.Name] = rows
	}

	st := &Stats{Counts: make(map[string]int, len(tables))}
	for name, rows := range tables {
		st.Counts[name] = len(rows)
	}

	for _, m := range tables[schema.Meja.Name] {
		switch m.String("status") {
		case schema.MejaAvailable:
			st.AvailableTables++
		case schema.MejaOccupied:
			st.OccupiedTables++
		}
	}
	for _, r := range tables[schema.Reservasi.Name] {
		if r.String("status") == schema.ReservasiPending {
			st.PendingReservations++
		}
	}

	orders := tables[schema.Pesanan.Name]
	for _, o := range orders {
		if sameDay(o.Time("ordered_at"), now) {
			st.TodayOrders++
		}
	}
	for i := len(orders) - 1; i >= 0 && len(st.RecentOrders) < recentOrderLimit; i-- {
		st.RecentOrders = append(st.RecentOrders, orders[i])
	}

	var all, today []float64
	for _, p := range tables[schema.Pembayaran.Name] {
		amount := p.Float("amount")
		all = append(all, amount)
		if sameDay(p.Time("paid_at"), now) {
			today = append(today, amount)
		}
	}
	st.TotalRevenue = utils.SumAmounts(all...)
	st.TodayRevenue = utils.SumAmounts(today...)
	st.TotalRevenueIDR = utils.FormatCurrencyIDR(st.TotalRevenue.InexactFloat64())
	st.TodayRevenueIDR = utils.FormatCurrencyIDR(st.TodayRevenue.InexactFloat64())
	return st, nil
}

func sameDay(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	seedVenue(t, s)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	now := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)

	for _, r := range []struct {
		kind *schema.Kind
		rec  models.Record
	}{
		{schema.Pesanan, models.Record{"id": "PES1", "customer_id": "CUS1", "meja_id": "MJ1", "ordered_at": yesterday.Add(18 * time.Hour)}},
		{schema.Pesanan, models.Record{"id": "PES2", "customer_id": "CUS2", "meja_id": "MJ2", "ordered_at": today.Add(19 * time.Hour)}},
		{schema.Pembayaran, models.Record{"id": "PB1", "pesanan_id": "PES1", "amount": 50000.25, "paid_at": yesterday}},
		{schema.Pembayaran, models.Record{"id": "PB2", "pesanan_id": "PES2", "amount": 125000.5, "paid_at": today}},
		{schema.Reservasi, models.Record{"id": "RSV1", "customer_id": "CUS1", "meja_id": "MJ1", "status": schema.ReservasiPending}},
		{schema.Reservasi, models.Record{"id": "RSV2", "customer_id": "CUS2", "meja_id": "MJ2", "status": schema.ReservasiConfirmed}},
	} {
		require.NoError(t, s.Add(ctx, r.kind, r.rec))
	}
	_, err := s.Update(ctx, schema.Meja, "MJ2", models.Record{"status": schema.MejaOccupied})
	require.NoError(t, err)

	st, err := ComputeStats(ctx, s, now)
	require.NoError(t, err)

	assert.Equal(t, 2, st.Counts["customer"])
	assert.Equal(t, 2, st.Counts["pesanan"])
	assert.Equal(t, 0, st.Counts["transaksi"])
	assert.Equal(t, 1, st.AvailableTables)
	assert.Equal(t, 1, st.OccupiedTables)
	assert.Equal(t, 1, st.PendingReservations)
	assert.Equal(t, 1, st.TodayOrders)
	assert.Equal(t, "175000.75", st.TotalRevenue.String())
	assert.Equal(t, "125000.5", st.TodayRevenue.String())
	assert.Equal(t, "Rp 175.000,75", st.TotalRevenueIDR)
	assert.Equal(t, "Rp 125.000,50", st.TodayRevenueIDR)
	require.Len(t, st.RecentOrders, 2)
	assert.Equal(t, "PES2", st.RecentOrders[0]["id"])
}

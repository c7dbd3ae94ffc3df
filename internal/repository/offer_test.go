package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offerNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newOffer(code, status string, limit int) *model.Offer {
	return &model.Offer{
		Title:        "Spring " + code,
		Discount:     decimal.NewFromInt(15),
		DiscountType: model.DiscountPercentage,
		Code:         code,
		ValidFrom:    offerNow.AddDate(0, -1, 0),
		ValidTo:      offerNow.AddDate(0, 1, 0),
		Status:       status,
		UsageLimit:   limit,
		Services:     model.StringList{"termite"},
	}
}

func TestOfferRepository_CodeUniqueAndLookup(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()

	o := newOffer("SPRING15", model.OfferStatusActive, 10)
	require.NoError(t, repo.Create(ctx, o))
	assert.ErrorIs(t, repo.Create(ctx, newOffer("SPRING15", model.OfferStatusActive, 1)), ErrOfferCodeExists)

	got, err := repo.GetByCode(ctx, " spring15 ")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Discount))
	assert.Equal(t, model.StringList{"termite"}, got.Services)

	_, err = repo.GetByCode(ctx, "nope")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestOfferRepository_RedeemStopsAtLimit(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()
	o := newOffer("TWICE", model.OfferStatusActive, 2)
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.Redeem(ctx, o.ID, offerNow)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
	got, err = repo.Redeem(ctx, o.ID, offerNow)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsedCount)
	assert.Equal(t, 0, got.Remaining())

	_, err = repo.Redeem(ctx, o.ID, offerNow)
	assert.ErrorIs(t, err, ErrOfferExhausted)

	stored, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsedCount)
}

func TestOfferRepository_RedeemInactive(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()
	paused := newOffer("PAUSED", model.OfferStatusInactive, 5)
	require.NoError(t, repo.Create(ctx, paused))
	live := newOffer("LIVE", model.OfferStatusActive, 5)
	require.NoError(t, repo.Create(ctx, live))

	_, err := repo.Redeem(ctx, paused.ID, offerNow)
	assert.ErrorIs(t, err, ErrOfferInactive)

	_, err = repo.Redeem(ctx, live.ID, offerNow.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, ErrOfferInactive)

	_, err = repo.Redeem(ctx, "missing", offerNow)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestOfferRepository_ActiveAndStats(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()

	a := newOffer("A", model.OfferStatusActive, 10)
	a.UsedCount = 3
	require.NoError(t, repo.Create(ctx, a))
	b := newOffer("B", model.OfferStatusExpired, 10)
	b.UsedCount = 4
	require.NoError(t, repo.Create(ctx, b))
	future := newOffer("C", model.OfferStatusActive, 10)
	future.ValidFrom = offerNow.AddDate(0, 2, 0)
	future.ValidTo = offerNow.AddDate(0, 3, 0)
	require.NoError(t, repo.Create(ctx, future))
	gone := newOffer("D", model.OfferStatusActive, 10)
	require.NoError(t, repo.Create(ctx, gone))
	require.NoError(t, repo.Delete(ctx, gone.ID))

	active, err := repo.Active(ctx, offerNow)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &OfferStats{Total: 3, Active: 2, Expired: 1, TotalUsage: 7}, stats)
}

func TestOfferRepository_StatsEmpty(t *testing.T) {
	stats, err := NewOfferRepository(testutil.NewDB(t)).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &OfferStats{}, stats)
}

func TestOfferRepository_UpdateKeepsConcurrentRedemption(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()
	o := newOffer("STALE", model.OfferStatusActive, 5)
	require.NoError(t, repo.Create(ctx, o))

	stale, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stale.UsedCount)

	_, err = repo.Redeem(ctx, o.ID, offerNow)
	require.NoError(t, err)

	stale.Title = "Spring sale"
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring sale", got.Title)
	assert.Equal(t, 1, got.UsedCount)
}

func TestOfferRepository_SetUsedCount(t *testing.T) {
	repo := NewOfferRepository(testutil.NewDB(t))
	ctx := context.Background()
	o := newOffer("SETCOUNT", model.OfferStatusActive, 5)
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.SetUsedCount(ctx, o.ID, 7))
	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.UsedCount)
	assert.Equal(t, 0, got.Remaining())

	require.NoError(t, repo.SetUsedCount(ctx, o.ID, 7))

	require.NoError(t, repo.Delete(ctx, o.ID))
	assert.ErrorIs(t, repo.SetUsedCount(ctx, o.ID, 1), ErrOfferNotFound)
	assert.ErrorIs(t, repo.SetUsedCount(ctx, "missing", 1), ErrOfferNotFound)
}

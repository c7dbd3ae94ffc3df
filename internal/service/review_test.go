package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReviewService(t *testing.T) ReviewService {
	t.Helper()
	return NewReviewService(repository.NewReviewRepository(testutil.NewDB(t)))
}

func TestReviewService_Submit(t *testing.T) {
	svc := newTestReviewService(t)
	ctx := context.Background()

	review, err := svc.Submit(ctx, ReviewInput{Name: " Grace ", Email: "grace@example.com", Rating: 5, Comment: "Spotless work"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", review.Name)
	assert.Equal(t, model.DisplayBoth, review.DisplayLocation)
	assert.True(t, review.IsApproved)
	assert.False(t, review.IsFeatured)

	tests := []struct {
		name  string
		in    ReviewInput
		field string
	}{
		{"rating too high", ReviewInput{Name: "A", Email: "a@example.com", Rating: 6, Comment: "x"}, "rating"},
		{"rating missing", ReviewInput{Name: "A", Email: "a@example.com", Comment: "x"}, "rating"},
		{"no comment", ReviewInput{Name: "A", Email: "a@example.com", Rating: 3}, "comment"},
		{"bad location", ReviewInput{Name: "A", Email: "a@example.com", Rating: 3, Comment: "x", DisplayLocation: "footer"}, "display_location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.in)
			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs), "err = %v", err)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestReviewService_Approved(t *testing.T) {
	svc := newTestReviewService(t)
	ctx := context.Background()

	submit := func(name, location string, rating int) *model.Review {
		r, err := svc.Submit(ctx, ReviewInput{Name: name, Email: "x@example.com", Rating: rating, Comment: "ok", DisplayLocation: location})
		require.NoError(t, err)
		return r
	}
	submit("Home", model.DisplayHome, 5)
	submit("Community", model.DisplayCommunity, 4)
	hidden := submit("Both", model.DisplayBoth, 1)
	_, err := svc.Update(ctx, hidden.ID, ReviewUpdateInput{IsApproved: boolPtr(false)})
	require.NoError(t, err)

	home, err := svc.Approved(ctx, model.DisplayHome, &repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, home.Results, 1)
	assert.Equal(t, "Home", home.Results[0].Name)

	all, err := svc.Approved(ctx, "", &repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Count)

	_, err = svc.Approved(ctx, "sidebar", &repository.ListQuery{})
	var verrs validation.Errors
	assert.True(t, errors.As(err, &verrs))

	approved, err := svc.Approve(ctx, hidden.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.Equal(t, 3.3, stats.AverageRating)
	assert.Equal(t, int64(1), stats.RatingDistribution["5_star"])
	assert.Equal(t, int64(0), stats.RatingDistribution["2_star"])
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	svc := newTestReviewService(t)
	ctx := context.Background()
	r, err := svc.Submit(ctx, ReviewInput{Name: "Grace", Email: "g@example.com", Rating: 4, Comment: "Good"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, r.ID, ReviewUpdateInput{IsFeatured: boolPtr(true), Rating: intPtr(5)})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, 5, updated.Rating)

	_, err = svc.Update(ctx, r.ID, ReviewUpdateInput{Rating: intPtr(0)})
	assert.Error(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	_, err = svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), ErrReviewNotFound)
}

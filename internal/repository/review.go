package repository

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewListSpec drives the admin review list.
var ReviewListSpec = &QuerySpec{
	Table: "reviews",
	Filters: map[string]string{
		"rating":           "reviews.rating",
		"is_approved":      "reviews.is_approved",
		"is_featured":      "reviews.is_featured",
		"display_location": "reviews.display_location",
	},
	Search: []string{"reviews.name", "reviews.comment", "reviews.location"},
	Ordering: map[string]string{
		"created_at": "reviews.created_at",
		"rating":     "reviews.rating",
	},
	DefaultOrdering: "-created_at",
}

// ReviewStats summarises approved reviews.
type ReviewStats struct {
	AverageRating      float64          `json:"average_rating"`
	TotalReviews       int64            `json:"total_reviews"`
	RatingDistribution map[string]int64 `json:"rating_distribution"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Review], error)
	// Approved pages approved reviews shown at location; an empty location
	// matches every location.
	Approved(ctx context.Context, location string, q *ListQuery) (*Page[*model.Review], error)
	Stats(ctx context.Context) (*ReviewStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return translateError(r.db.WithContext(ctx).Create(review).Error)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).Scopes(Alive("reviews")).Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return updateAll(ctx, r.db, review, ErrReviewNotFound)
}

func (r *reviewRepository) Approve(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_approved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Review{}, id, ErrReviewNotFound)
}

func (r *reviewRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Review], error) {
	return Paginate[*model.Review](r.db.WithContext(ctx).Model(&model.Review{}), ReviewListSpec, q)
}

func (r *reviewRepository) Approved(ctx context.Context, location string, q *ListQuery) (*Page[*model.Review], error) {
	query := r.db.WithContext(ctx).Model(&model.Review{}).Where("reviews.is_approved = ?", true)
	if location != "" {
		query = query.Where("reviews.display_location IN ?", []string{location, model.DisplayBoth})
	}
	return Paginate[*model.Review](query, ReviewListSpec, q)
}

func (r *reviewRepository) Stats(ctx context.Context) (*ReviewStats, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS total").
		Scopes(Alive("reviews")).
		Where("is_approved = ?", true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &ReviewStats{RatingDistribution: make(map[string]int64, 5)}
	for i := 1; i <= 5; i++ {
		stats.RatingDistribution[strconv.Itoa(i)+"_star"] = 0
	}
	var sum int64
	for _, row := range rows {
		stats.TotalReviews += row.Total
		sum += int64(row.Rating) * row.Total
		if row.Rating >= 1 && row.Rating <= 5 {
			stats.RatingDistribution[strconv.Itoa(row.Rating)+"_star"] = row.Total
		}
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(stats.TotalReviews)*10) / 10
	}
	return stats, nil
}

package repository

import (
	"context"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

// EntityCounts are the live totals shown on the admin dashboard.
type EntityCounts struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`
	TotalEnquiries  int64 `json:"total_enquiries"`
	NewEnquiries    int64 `json:"new_enquiries"`
	TotalReviews    int64 `json:"total_reviews"`
	ApprovedReviews int64 `json:"approved_reviews"`
	TotalOffers     int64 `json:"total_offers"`
	ActiveOffers    int64 `json:"active_offers"`
	TotalPosts      int64 `json:"total_posts"`
	PublishedPosts  int64 `json:"published_posts"`
	TotalJobs       int64 `json:"total_jobs"`
	ActiveJobs      int64 `json:"active_jobs"`
}

// ServiceCount is the number of enquiries for one service type.
type ServiceCount struct {
	ServiceType string
	Total       int64
}

// DashboardRepository runs the read-only aggregate queries of the admin
// dashboard. Every query ignores soft-deleted rows.
type DashboardRepository interface {
	Counts(ctx context.Context) (*EntityCounts, error)
	// AverageApprovedRating returns the mean rating of approved reviews and
	// false when there are none.
	AverageApprovedRating(ctx context.Context) (float64, bool, error)
	RecentEnquiries(ctx context.Context, limit int) ([]*model.Enquiry, error)
	RecentReviews(ctx context.Context, limit int) ([]*model.Review, error)
	RecentUsers(ctx context.Context, limit int) ([]*model.User, error)
	// CountEnquiriesBetween counts enquiries created in [from, to).
	CountEnquiriesBetween(ctx context.Context, from, to time.Time) (int64, error)
	EnquiriesByServiceType(ctx context.Context) ([]ServiceCount, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Counts(ctx context.Context) (*EntityCounts, error) {
	db := r.db.WithContext(ctx)
	c := &EntityCounts{}

	queries := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&c.TotalUsers, db.Model(&model.User{}).Scopes(Alive("users"))},
		{&c.ActiveUsers, db.Model(&model.User{}).Scopes(Alive("users")).Where("is_active = ?", true)},
		{&c.TotalEnquiries, db.Model(&model.Enquiry{}).Scopes(Alive("enquiries"))},
		{&c.NewEnquiries, db.Model(&model.Enquiry{}).Scopes(Alive("enquiries")).Where("status = ?", model.EnquiryStatusNew)},
		{&c.TotalReviews, db.Model(&model.Review{}).Scopes(Alive("reviews"))},
		{&c.ApprovedReviews, db.Model(&model.Review{}).Scopes(Alive("reviews")).Where("is_approved = ?", true)},
		{&c.TotalOffers, db.Model(&model.Offer{}).Scopes(Alive("offers"))},
		{&c.ActiveOffers, db.Model(&model.Offer{}).Scopes(Alive("offers")).Where("status = ?", model.OfferStatusActive)},
		{&c.TotalPosts, db.Model(&model.BlogPost{}).Scopes(Alive("blog_posts"))},
		{&c.PublishedPosts, db.Model(&model.BlogPost{}).Scopes(Alive("blog_posts")).Where("status = ?", model.PostStatusPublished)},
		{&c.TotalJobs, db.Model(&model.Job{}).Scopes(Alive("jobs"))},
		{&c.ActiveJobs, db.Model(&model.Job{}).Scopes(Alive("jobs")).Where("status = ?", model.JobStatusActive)},
	}
	for _, q := range queries {
		if err := q.query.Count(q.dst).Error; err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *dashboardRepository) AverageApprovedRating(ctx context.Context) (float64, bool, error) {
	var row struct {
		Average *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("AVG(rating) AS average").
		Scopes(Alive("reviews")).
		Where("is_approved = ?", true).
		Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.Average == nil {
		return 0, false, nil
	}
	return *row.Average, true, nil
}

func (r *dashboardRepository) RecentEnquiries(ctx context.Context, limit int) ([]*model.Enquiry, error) {
	var rows []*model.Enquiry
	err := r.recent(ctx, "enquiries", limit).Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RecentReviews(ctx context.Context, limit int) ([]*model.Review, error) {
	var rows []*model.Review
	err := r.recent(ctx, "reviews", limit).Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RecentUsers(ctx context.Context, limit int) ([]*model.User, error) {
	var rows []*model.User
	err := r.recent(ctx, "users", limit).Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) recent(ctx context.Context, table string, limit int) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(table).
		Scopes(Alive(table)).
		Order(table + ".created_at DESC").
		Order(table + ".id ASC").
		Limit(limit)
}

func (r *dashboardRepository) CountEnquiriesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Enquiry{}).
		Scopes(Alive("enquiries")).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

// EnquiriesByServiceType groups live enquiries by service type, largest first.
// Enquiries without a service type are left out.
func (r *dashboardRepository) EnquiriesByServiceType(ctx context.Context) ([]ServiceCount, error) {
	var rows []ServiceCount
	err := r.db.WithContext(ctx).Model(&model.Enquiry{}).
		Select("service_type, COUNT(*) AS total").
		Scopes(Alive("enquiries")).
		Where("service_type <> ?", "").
		Group("service_type").
		Order("total DESC").
		Order("service_type ASC").
		Scan(&rows).Error
	return rows, err
}

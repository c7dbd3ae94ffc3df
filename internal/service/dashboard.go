package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"go.uber.org/zap"
)

const dashboardCacheKey = "summary"

// Activity types.
const (
	ActivityEnquiry = "enquiry"
	ActivityReview  = "review"
	ActivityUser    = "user"
)

// DashboardStats are the headline figures.
type DashboardStats struct {
	repository.EntityCounts
	// CustomerSatisfaction is the mean approved rating scaled to 0-100.
	CustomerSatisfaction float64 `json:"customer_satisfaction"`
}

type Activity struct {
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
}

type Series struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type DashboardCharts struct {
	// Revenue counts enquiries per calendar month; it is a demand proxy,
	// not financial data.
	Revenue  Series `json:"revenue"`
	Services Series `json:"services"`
}

type DashboardSummary struct {
	Stats            DashboardStats  `json:"stats"`
	RecentActivities []Activity      `json:"recent_activities"`
	Charts           DashboardCharts `json:"charts"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// DashboardCache is satisfied by redis.JSONCache.
type DashboardCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

type DashboardOptions struct {
	CacheTTL      time.Duration
	ActivityLimit int
	Months        int
}

type DashboardService interface {
	// Summary returns the cached summary when fresh enough.
	Summary(ctx context.Context) (*DashboardSummary, error)
	// Refresh recomputes the summary and replaces the cached copy.
	Refresh(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	cache DashboardCache
	opts  DashboardOptions
	now   func() time.Time
}

// NewDashboardService creates the aggregator. cache may be nil.
func NewDashboardService(repo repository.DashboardRepository, cache DashboardCache, opts DashboardOptions) DashboardService {
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = 5
	}
	if opts.Months <= 0 {
		opts.Months = 6
	}
	return &dashboardService{repo: repo, cache: cache, opts: opts, now: utcNow}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil && s.opts.CacheTTL > 0 {
		var cached DashboardSummary
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			logger.L().Warn("read dashboard cache", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}
	return s.Refresh(ctx)
}

func (s *dashboardService) Refresh(ctx context.Context) (*DashboardSummary, error) {
	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && s.opts.CacheTTL > 0 {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.opts.CacheTTL); err != nil {
			logger.L().Warn("write dashboard cache", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *dashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}
	avg, ok, err := s.repo.AverageApprovedRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	activities, err := s.recentActivities(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.monthlyEnquiries(ctx, now)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Stats: DashboardStats{
			EntityCounts:         *counts,
			CustomerSatisfaction: Satisfaction(avg, ok),
		},
		RecentActivities: activities,
		Charts: DashboardCharts{
			Revenue:  revenue,
			Services: services,
		},
		GeneratedAt: now,
	}, nil
}

// Satisfaction scales a 1-5 mean rating to a percentage with one decimal.
// Without ratings it is zero.
func Satisfaction(avg float64, ok bool) float64 {
	if !ok {
		return 0
	}
	return math.Round(avg/5*100*10) / 10
}

// recentActivities merges the newest enquiries, reviews and sign-ups and
// keeps the most recent few.
func (s *dashboardService) recentActivities(ctx context.Context) ([]Activity, error) {
	limit := s.opts.ActivityLimit
	activities := make([]Activity, 0, limit*3)

	enquiries, err := s.repo.RecentEnquiries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent enquiries: %w", err)
	}
	for _, e := range enquiries {
		action := "New enquiry from " + e.CustomerName
		if e.ServiceType != "" {
			action += " about " + e.ServiceType
		}
		activities = append(activities, Activity{Action: action, Time: e.CreatedAt, Type: ActivityEnquiry})
	}

	reviews, err := s.repo.RecentReviews(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	for _, r := range reviews {
		activities = append(activities, Activity{
			Action: fmt.Sprintf("%s left a %d-star review", r.Name, r.Rating),
			Time:   r.CreatedAt,
			Type:   ActivityReview,
		})
	}

	users, err := s.repo.RecentUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	for _, u := range users {
		name := u.FullName()
		if name == "" {
			name = u.Email
		}
		activities = append(activities, Activity{Action: "New user registered: " + name, Time: u.CreatedAt, Type: ActivityUser})
	}

	return MergeActivities(activities, limit), nil
}

// MergeActivities sorts newest first and truncates to limit.
func MergeActivities(activities []Activity, limit int) []Activity {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Time.After(activities[j].Time)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// MonthBuckets returns the first instant of each of the n calendar months
// ending with the month of now, oldest first, plus the end of the last one.
func MonthBuckets(now time.Time, n int) []time.Time {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	bounds := make([]time.Time, 0, n+1)
	for i := n - 1; i >= 0; i-- {
		bounds = append(bounds, current.AddDate(0, -i, 0))
	}
	return append(bounds, current.AddDate(0, 1, 0))
}

func (s *dashboardService) monthlyEnquiries(ctx context.Context, now time.Time) (Series, error) {
	bounds := MonthBuckets(now, s.opts.Months)
	series := Series{
		Labels: make([]string, 0, s.opts.Months),
		Data:   make([]int64, 0, s.opts.Months),
	}
	for i := 0; i < len(bounds)-1; i++ {
		n, err := s.repo.CountEnquiriesBetween(ctx, bounds[i], bounds[i+1])
		if err != nil {
			return Series{}, fmt.Errorf("count enquiries for %s: %w", bounds[i].Format("2006-01"), err)
		}
		series.Labels = append(series.Labels, bounds[i].Format("Jan"))
		series.Data = append(series.Data, n)
	}
	return series, nil
}

func (s *dashboardService) serviceBreakdown(ctx context.Context) (Series, error) {
	rows, err := s.repo.EnquiriesByServiceType(ctx)
	if err != nil {
		return Series{}, fmt.Errorf("enquiries by service: %w", err)
	}
	series := Series{Labels: make([]string, 0, len(rows)), Data: make([]int64, 0, len(rows))}
	for _, row := range rows {
		series.Labels = append(series.Labels, row.ServiceType)
		series.Data = append(series.Data, row.Total)
	}
	return series, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("job application not found")
)

// JobListSpec drives job lists.
var JobListSpec = &QuerySpec{
	Table: "jobs",
	Filters: map[string]string{
		"status":          "jobs.status",
		"employment_type": "jobs.employment_type",
		"location":        "jobs.location",
	},
	Search: []string{"jobs.title", "jobs.location", "jobs.description"},
	Ordering: map[string]string{
		"created_at": "jobs.created_at",
		"title":      "jobs.title",
	},
	DefaultOrdering: "-created_at",
}

// ApplicationListSpec drives the admin application list.
var ApplicationListSpec = &QuerySpec{
	Table:   "job_applications",
	Filters: map[string]string{"job": "job_applications.job_id"},
	Search:  []string{"job_applications.full_name", "job_applications.email"},
	Ordering: map[string]string{
		"created_at": "job_applications.created_at",
		"full_name":  "job_applications.full_name",
	},
	DefaultOrdering: "-created_at",
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Job], error)
	Active(ctx context.Context) ([]*model.Job, error)
	CountApplications(ctx context.Context, jobIDs []string) (map[string]int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.JobApplication) error
	GetByID(ctx context.Context, id string) (*model.JobApplication, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.JobApplication], error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return translateError(r.db.WithContext(ctx).Create(job).Error)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).Scopes(Alive("jobs")).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *model.Job) error {
	return updateAll(ctx, r.db, job, ErrJobNotFound)
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Job{}, id, ErrJobNotFound)
}

func (r *jobRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Job], error) {
	return Paginate[*model.Job](r.db.WithContext(ctx).Model(&model.Job{}), JobListSpec, q)
}

// Active returns every open position, newest first.
func (r *jobRepository) Active(ctx context.Context) ([]*model.Job, error) {
	var jobs []*model.Job
	err := r.db.WithContext(ctx).
		Scopes(Alive("jobs")).
		Where("status = ?", model.JobStatusActive).
		Order("created_at DESC").
		Order("id ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) CountApplications(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		JobID string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.JobApplication{}).
		Select("job_id, COUNT(*) AS total").
		Scopes(Alive("job_applications")).
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.JobID] = row.Total
	}
	return counts, nil
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.JobApplication) error {
	return translateError(r.db.WithContext(ctx).Omit("Job").Create(app).Error)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.db.WithContext(ctx).
		Scopes(Alive("job_applications")).
		Preload("Job").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.JobApplication{}, id, ErrApplicationNotFound)
}

func (r *applicationRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.JobApplication], error) {
	return Paginate[*model.JobApplication](r.db.WithContext(ctx).Model(&model.JobApplication{}), ApplicationListSpec, q,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Job") })
}

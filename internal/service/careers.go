package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("job application not found")
)

// JobInput creates or changes a job. Nil fields are kept on update.
type JobInput struct {
	Title          *string  `json:"title"`
	Location       *string  `json:"location"`
	EmploymentType *string  `json:"employment_type"`
	Experience     *string  `json:"experience"`
	Description    *string  `json:"description"`
	Requirements   []string `json:"requirements"`
	Status         *string  `json:"status"`
}

func (r JobInput) validate(creating bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(creating, validation.Required), validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Location, validation.When(creating, validation.Required), validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.EmploymentType, validation.When(creating, validation.Required),
			validation.In(model.EmploymentFullTime, model.EmploymentPartTime, model.EmploymentContract)),
		validation.Field(&r.Experience, validation.Length(0, 50)),
		validation.Field(&r.Status, validation.In(model.JobStatusActive, model.JobStatusClosed)),
	)
}

// ApplicationInput is the public application form.
type ApplicationInput struct {
	Job         string `json:"job"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Experience  string `json:"experience"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}

func (r ApplicationInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Job, validation.Required),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.Experience, validation.Length(0, 50)),
		validation.Field(&r.Resume, validation.Length(0, 500), is.URL),
	)
}

// JobView is a job with its application count.
type JobView struct {
	*model.Job
	ApplicationsCount int64 `json:"applications_count"`
}

type CareersService interface {
	ListJobs(ctx context.Context, q *repository.ListQuery) (*repository.Page[*JobView], error)
	ActiveJobs(ctx context.Context) ([]*model.Job, error)
	GetJob(ctx context.Context, id string) (*JobView, error)
	CreateJob(ctx context.Context, in JobInput) (*JobView, error)
	UpdateJob(ctx context.Context, id string, in JobInput) (*JobView, error)
	DeleteJob(ctx context.Context, id string) error

	// Apply records an application to an active job.
	Apply(ctx context.Context, in ApplicationInput) (*model.JobApplication, error)
	ListApplications(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.JobApplication], error)
	GetApplication(ctx context.Context, id string) (*model.JobApplication, error)
	DeleteApplication(ctx context.Context, id string) error
}

type careersService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
}

func NewCareersService(jobs repository.JobRepository, applications repository.ApplicationRepository) CareersService {
	return &careersService{jobs: jobs, applications: applications}
}

func (s *careersService) ListJobs(ctx context.Context, q *repository.ListQuery) (*repository.Page[*JobView], error) {
	page, err := s.jobs.List(ctx, q)
	if err != nil {
		return nil, err
	}
	views, err := s.jobViews(ctx, page.Results)
	if err != nil {
		return nil, err
	}
	return mapPage(page, views), nil
}

func (s *careersService) ActiveJobs(ctx context.Context) ([]*model.Job, error) {
	return s.jobs.Active(ctx)
}

func (s *careersService) GetJob(ctx context.Context, id string) (*JobView, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, mapCareersError(err)
	}
	views, err := s.jobViews(ctx, []*model.Job{job})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *careersService) CreateJob(ctx context.Context, in JobInput) (*JobView, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	job := &model.Job{
		Status:       model.JobStatusActive,
		Requirements: model.StringList{},
	}
	applyJobInput(job, in)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return &JobView{Job: job}, nil
}

func (s *careersService) UpdateJob(ctx context.Context, id string, in JobInput) (*JobView, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, mapCareersError(err)
	}
	applyJobInput(job, in)
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, mapCareersError(err)
	}
	return s.GetJob(ctx, id)
}

func applyJobInput(job *model.Job, in JobInput) {
	setString(&job.Title, in.Title)
	setString(&job.Location, in.Location)
	setString(&job.EmploymentType, in.EmploymentType)
	setString(&job.Experience, in.Experience)
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Requirements != nil {
		job.Requirements = cleanList(in.Requirements)
	}
	setString(&job.Status, in.Status)
}

func (s *careersService) DeleteJob(ctx context.Context, id string) error {
	return mapCareersError(s.jobs.Delete(ctx, id))
}

func (s *careersService) jobViews(ctx context.Context, jobs []*model.Job) ([]*JobView, error) {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	counts, err := s.jobs.CountApplications(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]*JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, &JobView{Job: j, ApplicationsCount: counts[j.ID]})
	}
	return views, nil
}

func (s *careersService) Apply(ctx context.Context, in ApplicationInput) (*model.JobApplication, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, in.Job)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, validation.Errors{"job": errors.New("unknown job")}
		}
		return nil, err
	}
	if job.Status != model.JobStatusActive {
		return nil, validation.Errors{"job": errors.New("this position is no longer accepting applications")}
	}

	app := &model.JobApplication{
		JobID:       job.ID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       in.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Experience:  strings.TrimSpace(in.Experience),
		Resume:      strings.TrimSpace(in.Resume),
		CoverLetter: in.CoverLetter,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	app.Job = job
	logger.L().Info("job application received", zap.String("job_id", job.ID), zap.String("application_id", app.ID))
	return app, nil
}

func (s *careersService) ListApplications(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.JobApplication], error) {
	return s.applications.List(ctx, q)
}

func (s *careersService) GetApplication(ctx context.Context, id string) (*model.JobApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, mapCareersError(err)
	}
	return app, nil
}

func (s *careersService) DeleteApplication(ctx context.Context, id string) error {
	return mapCareersError(s.applications.Delete(ctx, id))
}

func mapCareersError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrJobNotFound):
		return ErrJobNotFound
	case errors.Is(err, repository.ErrApplicationNotFound):
		return ErrApplicationNotFound
	}
	return err
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) model.StringList {
	out := make(model.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var ErrEnquiryNotFound = errors.New("enquiry not found")

// EnquiryListSpec drives the admin enquiry list and export.
var EnquiryListSpec = &QuerySpec{
	Table: "enquiries",
	Filters: map[string]string{
		"type":         "enquiries.type",
		"status":       "enquiries.status",
		"priority":     "enquiries.priority",
		"service_type": "enquiries.service_type",
	},
	Search: []string{"enquiries.customer_name", "enquiries.email", "enquiries.subject", "enquiries.message"},
	Ordering: map[string]string{
		"created_at": "enquiries.created_at",
		"status":     "enquiries.status",
		"priority":   "enquiries.priority",
	},
	DefaultOrdering: "-created_at",
}

// EnquiryStats counts live enquiries by status.
type EnquiryStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *model.Enquiry) error
	GetByID(ctx context.Context, id string) (*model.Enquiry, error)
	Update(ctx context.Context, enquiry *model.Enquiry) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Enquiry], error)
	ListAll(ctx context.Context, q *ListQuery) ([]*model.Enquiry, error)
	Stats(ctx context.Context) (*EnquiryStats, error)
}

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *model.Enquiry) error {
	return translateError(r.db.WithContext(ctx).Create(enquiry).Error)
}

func (r *enquiryRepository) GetByID(ctx context.Context, id string) (*model.Enquiry, error) {
	var enquiry model.Enquiry
	err := r.db.WithContext(ctx).Scopes(Alive("enquiries")).Where("id = ?", id).First(&enquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnquiryNotFound
		}
		return nil, err
	}
	return &enquiry, nil
}

func (r *enquiryRepository) Update(ctx context.Context, enquiry *model.Enquiry) error {
	return updateAll(ctx, r.db, enquiry, ErrEnquiryNotFound)
}

// UpdateStatus writes the status column alone.
func (r *enquiryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Enquiry{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}

func (r *enquiryRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Enquiry{}, id, ErrEnquiryNotFound)
}

func (r *enquiryRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &model.Enquiry{}, id, ErrEnquiryNotFound)
}

func (r *enquiryRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Enquiry], error) {
	return Paginate[*model.Enquiry](r.db.WithContext(ctx).Model(&model.Enquiry{}), EnquiryListSpec, q)
}

func (r *enquiryRepository) ListAll(ctx context.Context, q *ListQuery) ([]*model.Enquiry, error) {
	return FindAll[*model.Enquiry](r.db.WithContext(ctx).Model(&model.Enquiry{}), EnquiryListSpec, q)
}

func (r *enquiryRepository) Stats(ctx context.Context) (*EnquiryStats, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Enquiry{}).
		Select("status, COUNT(*) AS total").
		Scopes(Alive("enquiries")).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := &EnquiryStats{}
	for _, row := range rows {
		stats.Total += row.Total
		switch row.Status {
		case model.EnquiryStatusNew:
			stats.New = row.Total
		case model.EnquiryStatusInProgress:
			stats.InProgress = row.Total
		case model.EnquiryStatusResolved:
			stats.Resolved = row.Total
		}
	}
	return stats, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

// EnquirySheet names the worksheet of the export.
const EnquirySheet = "Enquiries"

// EnquiryInput is the public contact and service enquiry form.
type EnquiryInput struct {
	Type           string   `json:"type"`
	Subject        string   `json:"subject"`
	CustomerName   string   `json:"customer_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ServiceType    string   `json:"service_type"`
	Message        string   `json:"message"`
	Address        string   `json:"address"`
	PropertyType   string   `json:"property_type"`
	Area           *float64 `json:"area"`
	BuildingAge    string   `json:"building_age"`
	Pests          []string `json:"pests"`
	Severity       string   `json:"severity"`
	Urgency        string   `json:"urgency"`
	PreferredTime  string   `json:"preferred_time"`
	AdditionalInfo string   `json:"additional_info"`
}

// Validate requires a message on contact forms and a service on enquiries.
func (r EnquiryInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(model.EnquiryTypeContact, model.EnquiryTypeEnquiry)),
		validation.Field(&r.Subject, validation.Length(0, 200)),
		validation.Field(&r.CustomerName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.ServiceType, validation.When(r.Type == model.EnquiryTypeEnquiry, validation.Required), validation.Length(0, 50)),
		validation.Field(&r.Message, validation.When(r.Type == model.EnquiryTypeContact, validation.Required)),
		validation.Field(&r.PropertyType, validation.Length(0, 50)),
		validation.Field(&r.Area, validation.Min(0.0)),
		validation.Field(&r.BuildingAge, validation.Length(0, 50)),
		validation.Field(&r.Severity, validation.Length(0, 20)),
		validation.Field(&r.Urgency, validation.Length(0, 20)),
		validation.Field(&r.PreferredTime, validation.Length(0, 50)),
	)
}

// EnquiryUpdateInput is what staff may change on an enquiry.
type EnquiryUpdateInput struct {
	Subject        *string  `json:"subject"`
	CustomerName   *string  `json:"customer_name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	ServiceType    *string  `json:"service_type"`
	Message        *string  `json:"message"`
	Address        *string  `json:"address"`
	AdditionalInfo *string  `json:"additional_info"`
	Pests          []string `json:"pests"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
}

func (r EnquiryUpdateInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.ServiceType, validation.Length(0, 50)),
		validation.Field(&r.Status, validation.In(model.EnquiryStatusNew, model.EnquiryStatusInProgress, model.EnquiryStatusResolved)),
		validation.Field(&r.Priority, validation.In(model.PriorityLow, model.PriorityMedium, model.PriorityHigh)),
	)
}

type EnquiryService interface {
	// Submit records a public form submission as a new, medium priority enquiry.
	Submit(ctx context.Context, in EnquiryInput) (*model.Enquiry, error)
	List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Enquiry], error)
	Get(ctx context.Context, id string) (*model.Enquiry, error)
	Update(ctx context.Context, id string, in EnquiryUpdateInput) (*model.Enquiry, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Enquiry, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*model.Enquiry, error)
	Stats(ctx context.Context) (*repository.EnquiryStats, error)
	// Export renders every enquiry matching q into a workbook.
	Export(ctx context.Context, q *repository.ListQuery) (*excelize.File, error)
}

type enquiryService struct {
	repo repository.EnquiryRepository
}

func NewEnquiryService(repo repository.EnquiryRepository) EnquiryService {
	return &enquiryService{repo: repo}
}

func (s *enquiryService) Submit(ctx context.Context, in EnquiryInput) (*model.Enquiry, error) {
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		in.Type = model.EnquiryTypeContact
	}
	in.Email = strings.TrimSpace(in.Email)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	enquiry := &model.Enquiry{
		Type:           in.Type,
		Subject:        strings.TrimSpace(in.Subject),
		CustomerName:   in.CustomerName,
		Email:          in.Email,
		Phone:          strings.TrimSpace(in.Phone),
		ServiceType:    strings.TrimSpace(in.ServiceType),
		Message:        in.Message,
		Address:        in.Address,
		PropertyType:   strings.TrimSpace(in.PropertyType),
		Area:           in.Area,
		BuildingAge:    strings.TrimSpace(in.BuildingAge),
		Pests:          cleanList(in.Pests),
		Severity:       strings.TrimSpace(in.Severity),
		Urgency:        strings.TrimSpace(in.Urgency),
		PreferredTime:  strings.TrimSpace(in.PreferredTime),
		AdditionalInfo: in.AdditionalInfo,
		Status:         model.EnquiryStatusNew,
		Priority:       model.PriorityMedium,
	}
	if err := s.repo.Create(ctx, enquiry); err != nil {
		return nil, err
	}
	logger.L().Info("enquiry received",
		zap.String("enquiry_id", enquiry.ID),
		zap.String("type", enquiry.Type),
		zap.String("service_type", enquiry.ServiceType),
	)
	return enquiry, nil
}

func (s *enquiryService) List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Enquiry], error) {
	return s.repo.List(ctx, q)
}

func (s *enquiryService) Get(ctx context.Context, id string) (*model.Enquiry, error) {
	enquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEnquiryError(err)
	}
	return enquiry, nil
}

func (s *enquiryService) Update(ctx context.Context, id string, in EnquiryUpdateInput) (*model.Enquiry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	enquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&enquiry.Subject, in.Subject)
	setString(&enquiry.CustomerName, in.CustomerName)
	setString(&enquiry.Email, in.Email)
	setString(&enquiry.Phone, in.Phone)
	setString(&enquiry.ServiceType, in.ServiceType)
	if in.Message != nil {
		enquiry.Message = *in.Message
	}
	if in.Address != nil {
		enquiry.Address = *in.Address
	}
	if in.AdditionalInfo != nil {
		enquiry.AdditionalInfo = *in.AdditionalInfo
	}
	if in.Pests != nil {
		enquiry.Pests = cleanList(in.Pests)
	}
	setString(&enquiry.Status, in.Status)
	setString(&enquiry.Priority, in.Priority)

	if err := s.repo.Update(ctx, enquiry); err != nil {
		return nil, mapEnquiryError(err)
	}
	return enquiry, nil
}

func (s *enquiryService) UpdateStatus(ctx context.Context, id, status string) (*model.Enquiry, error) {
	status = strings.TrimSpace(status)
	if !model.ValidEnquiryStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapEnquiryError(err)
	}
	return s.Get(ctx, id)
}

func (s *enquiryService) Delete(ctx context.Context, id string) error {
	return mapEnquiryError(s.repo.Delete(ctx, id))
}

func (s *enquiryService) Restore(ctx context.Context, id string) (*model.Enquiry, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, mapEnquiryError(err)
	}
	return s.Get(ctx, id)
}

func (s *enquiryService) Stats(ctx context.Context) (*repository.EnquiryStats, error) {
	return s.repo.Stats(ctx)
}

var enquiryColumns = []string{
	"ID", "Type", "Status", "Priority", "Customer", "Email", "Phone",
	"Service", "Subject", "Message", "Address", "Property Type", "Area",
	"Pests", "Severity", "Urgency", "Preferred Time", "Created At",
}

func (s *enquiryService) Export(ctx context.Context, q *repository.ListQuery) (*excelize.File, error) {
	enquiries, err := s.repo.ListAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	f, err := buildEnquiryWorkbook(enquiries)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return f, nil
}

func buildEnquiryWorkbook(enquiries []*model.Enquiry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", EnquirySheet); err != nil {
		return nil, err
	}

	for i, header := range enquiryColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(EnquirySheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(enquiryColumns))
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(EnquirySheet, "A1", lastCol+"1", style)
	}

	for i, e := range enquiries {
		var area interface{}
		if e.Area != nil {
			area = *e.Area
		}
		row := []interface{}{
			e.ID, e.Type, e.Status, e.Priority, e.CustomerName, e.Email, e.Phone,
			e.ServiceType, e.Subject, e.Message, e.Address, e.PropertyType, area,
			strings.Join(e.Pests, ", "), e.Severity, e.Urgency, e.PreferredTime,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(EnquirySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(EnquirySheet, "A", lastCol, 18)
	return f, nil
}

func mapEnquiryError(err error) error {
	if errors.Is(err, repository.ErrEnquiryNotFound) {
		return ErrEnquiryNotFound
	}
	return err
}

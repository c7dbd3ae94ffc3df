package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
)

var ErrReviewNotFound = errors.New("review not found")

var displayLocations = []interface{}{model.DisplayHome, model.DisplayCommunity, model.DisplayBoth}

// ReviewInput is the public testimonial form.
type ReviewInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Location        string `json:"location"`
	Image           string `json:"image"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment"`
	DisplayLocation string `json:"display_location"`
}

func (r ReviewInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Location, validation.Length(0, 100)),
		validation.Field(&r.Image, validation.Length(0, 500)),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Required),
		validation.Field(&r.DisplayLocation, validation.In(displayLocations...)),
	)
}

// ReviewUpdateInput is what staff may change on a review.
type ReviewUpdateInput struct {
	Name            *string `json:"name"`
	Location        *string `json:"location"`
	Image           *string `json:"image"`
	Rating          *int    `json:"rating"`
	Comment         *string `json:"comment"`
	IsApproved      *bool   `json:"is_approved"`
	IsFeatured      *bool   `json:"is_featured"`
	DisplayLocation *string `json:"display_location"`
}

func (r ReviewUpdateInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.NilOrNotEmpty),
		validation.Field(&r.DisplayLocation, validation.In(displayLocations...)),
	)
}

type ReviewService interface {
	Submit(ctx context.Context, in ReviewInput) (*model.Review, error)
	// Approved pages the public reviews for a display location.
	Approved(ctx context.Context, location string, q *repository.ListQuery) (*repository.Page[*model.Review], error)
	List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Review], error)
	Get(ctx context.Context, id string) (*model.Review, error)
	Update(ctx context.Context, id string, in ReviewUpdateInput) (*model.Review, error)
	Approve(ctx context.Context, id string) (*model.Review, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*repository.ReviewStats, error)
}

type reviewService struct {
	repo repository.ReviewRepository
}

func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) Submit(ctx context.Context, in ReviewInput) (*model.Review, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Comment = strings.TrimSpace(in.Comment)
	if in.DisplayLocation == "" {
		in.DisplayLocation = model.DisplayBoth
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	review := &model.Review{
		Name:            in.Name,
		Email:           in.Email,
		Location:        strings.TrimSpace(in.Location),
		Image:           strings.TrimSpace(in.Image),
		Rating:          in.Rating,
		Comment:         in.Comment,
		IsApproved:      true,
		DisplayLocation: in.DisplayLocation,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Approved(ctx context.Context, location string, q *repository.ListQuery) (*repository.Page[*model.Review], error) {
	location = strings.TrimSpace(location)
	if location != "" && !model.ValidDisplayLocation(location) {
		return nil, validation.Errors{"display_location": errors.New("must be home, community or both")}
	}
	return s.repo.Approved(ctx, location, q)
}

func (s *reviewService) List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.Review], error) {
	return s.repo.List(ctx, q)
}

func (s *reviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapReviewError(err)
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, id string, in ReviewUpdateInput) (*model.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	setString(&review.Name, in.Name)
	setString(&review.Location, in.Location)
	setString(&review.Image, in.Image)
	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	setString(&review.Comment, in.Comment)
	setBool(&review.IsApproved, in.IsApproved)
	setBool(&review.IsFeatured, in.IsFeatured)
	setString(&review.DisplayLocation, in.DisplayLocation)

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, mapReviewError(err)
	}
	return review, nil
}

func (s *reviewService) Approve(ctx context.Context, id string) (*model.Review, error) {
	if err := s.repo.Approve(ctx, id); err != nil {
		return nil, mapReviewError(err)
	}
	return s.Get(ctx, id)
}

func (s *reviewService) Delete(ctx context.Context, id string) error {
	return mapReviewError(s.repo.Delete(ctx, id))
}

func (s *reviewService) Stats(ctx context.Context) (*repository.ReviewStats, error) {
	return s.repo.Stats(ctx)
}

func mapReviewError(err error) error {
	if errors.Is(err, repository.ErrReviewNotFound) {
		return ErrReviewNotFound
	}
	return err
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrOfferInactive  = errors.New("offer is not currently valid")
	ErrOfferExhausted = errors.New("offer usage limit reached")
)

var (
	offerCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	hundred          = decimal.NewFromInt(100)
)

// OfferInput creates or changes an offer. Nil fields are kept on update.
// UsedCount, when set, overwrites the redemption counter.
type OfferInput struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Discount     *decimal.Decimal `json:"discount"`
	DiscountType *string          `json:"discount_type"`
	Code         *string          `json:"code"`
	ValidFrom    *OfferDate       `json:"valid_from"`
	ValidTo      *OfferDate       `json:"valid_to"`
	Status       *string          `json:"status"`
	UsageLimit   *int             `json:"usage_limit"`
	UsedCount    *int             `json:"used_count"`
	Services     []string         `json:"services"`
	Image        *string          `json:"image"`
	Terms        *string          `json:"terms"`
}

// OfferDate is a validity bound sent either as an RFC 3339 time or as a
// calendar date (YYYY-MM-DD). A calendar date covers the whole UTC day.
type OfferDate struct {
	time.Time
	DateOnly bool
}

// OfferDay returns the calendar date as an OfferDate.
func OfferDay(year int, month time.Month, day int) *OfferDate {
	return &OfferDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), DateOnly: true}
}

// OfferAt returns t as an OfferDate.
func OfferAt(t time.Time) *OfferDate {
	return &OfferDate{Time: t}
}

func (d *OfferDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("offer date must be a string: %w", err)
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		d.Time, d.DateOnly = t, true
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("offer date %q is neither YYYY-MM-DD nor RFC 3339", raw)
	}
	d.Time, d.DateOnly = t, false
	return nil
}

// start is the first instant d covers.
func (d *OfferDate) start() time.Time {
	return d.Time.UTC()
}

// end is the last instant d covers: 23:59:59 UTC for a calendar date.
func (d *OfferDate) end() time.Time {
	if d.DateOnly {
		return d.Time.UTC().Add(24*time.Hour - time.Second)
	}
	return d.Time.UTC()
}

func (r OfferInput) validate(creating bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(creating, validation.Required), validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Discount, validation.When(creating, validation.Required), validation.By(positiveDecimal)),
		validation.Field(&r.DiscountType, validation.When(creating, validation.Required),
			validation.In(model.DiscountPercentage, model.DiscountFixed)),
		validation.Field(&r.Code, validation.When(creating, validation.Required), validation.NilOrNotEmpty,
			validation.Length(3, 50), validation.Match(offerCodePattern).Error("may contain only A-Z, 0-9, _ and -")),
		validation.Field(&r.ValidFrom, validation.When(creating, validation.Required)),
		validation.Field(&r.ValidTo, validation.When(creating, validation.Required)),
		validation.Field(&r.Status, validation.In(model.OfferStatusActive, model.OfferStatusInactive, model.OfferStatusExpired)),
		validation.Field(&r.UsageLimit, validation.When(creating, validation.Required), validation.Min(1)),
		validation.Field(&r.UsedCount, validation.Min(0)),
		validation.Field(&r.Image, validation.Length(0, 500)),
	)
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

// OfferView is an offer with its remaining redemptions.
type OfferView struct {
	*model.Offer
	Remaining int  `json:"remaining"`
	IsValid   bool `json:"is_valid"`
}

type OfferService interface {
	List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*OfferView], error)
	// Active lists offers redeemable now.
	Active(ctx context.Context) ([]*OfferView, error)
	Get(ctx context.Context, id string) (*OfferView, error)
	GetByCode(ctx context.Context, code string) (*OfferView, error)
	Create(ctx context.Context, in OfferInput) (*OfferView, error)
	Update(ctx context.Context, id string, in OfferInput) (*OfferView, error)
	Delete(ctx context.Context, id string) error
	// Redeem consumes one use of the offer with code.
	Redeem(ctx context.Context, code string) (*OfferView, error)
	Stats(ctx context.Context) (*repository.OfferStats, error)
}

type offerService struct {
	repo repository.OfferRepository
	now  func() time.Time
}

func NewOfferService(repo repository.OfferRepository) OfferService {
	return &offerService{repo: repo, now: utcNow}
}

func (s *offerService) view(o *model.Offer) *OfferView {
	return &OfferView{Offer: o, Remaining: o.Remaining(), IsValid: o.IsValidAt(s.now())}
}

func (s *offerService) views(offers []*model.Offer) []*OfferView {
	out := make([]*OfferView, 0, len(offers))
	for _, o := range offers {
		out = append(out, s.view(o))
	}
	return out
}

func (s *offerService) List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*OfferView], error) {
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return mapPage(page, s.views(page.Results)), nil
}

func (s *offerService) Active(ctx context.Context) ([]*OfferView, error) {
	offers, err := s.repo.Active(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.views(offers), nil
}

func (s *offerService) Get(ctx context.Context, id string) (*OfferView, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapOfferError(err)
	}
	return s.view(offer), nil
}

func (s *offerService) GetByCode(ctx context.Context, code string) (*OfferView, error) {
	offer, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, mapOfferError(err)
	}
	return s.view(offer), nil
}

func (s *offerService) Create(ctx context.Context, in OfferInput) (*OfferView, error) {
	in = normalizeOfferInput(in)
	if err := in.validate(true); err != nil {
		return nil, err
	}
	offer := &model.Offer{
		Status:   model.OfferStatusActive,
		Services: model.StringList{},
	}
	applyOfferInput(offer, in)
	if in.UsedCount != nil {
		offer.UsedCount = *in.UsedCount
	}
	if err := checkOffer(offer); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, mapOfferWriteError(err)
	}
	logger.L().Info("offer created", zap.String("offer_id", offer.ID), zap.String("code", offer.Code))
	return s.view(offer), nil
}

func (s *offerService) Update(ctx context.Context, id string, in OfferInput) (*OfferView, error) {
	in = normalizeOfferInput(in)
	if err := in.validate(false); err != nil {
		return nil, err
	}
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapOfferError(err)
	}
	applyOfferInput(offer, in)
	if err := checkOffer(offer); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, mapOfferWriteError(err)
	}
	if in.UsedCount != nil {
		if err := s.repo.SetUsedCount(ctx, id, *in.UsedCount); err != nil {
			return nil, mapOfferError(err)
		}
		logger.L().Info("offer used_count set", zap.String("offer_id", id), zap.Int("used_count", *in.UsedCount))
	}
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapOfferError(err)
	}
	return s.view(updated), nil
}

func (s *offerService) Delete(ctx context.Context, id string) error {
	return mapOfferError(s.repo.Delete(ctx, id))
}

func (s *offerService) Redeem(ctx context.Context, code string) (*OfferView, error) {
	offer, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, mapOfferError(err)
	}
	redeemed, err := s.repo.Redeem(ctx, offer.ID, s.now())
	if err != nil {
		return nil, mapOfferError(err)
	}
	logger.L().Info("offer redeemed", zap.String("offer_id", redeemed.ID), zap.Int("used_count", redeemed.UsedCount))
	return s.view(redeemed), nil
}

func (s *offerService) Stats(ctx context.Context) (*repository.OfferStats, error) {
	return s.repo.Stats(ctx)
}

func normalizeOfferInput(in OfferInput) OfferInput {
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		in.Code = &code
	}
	return in
}

func applyOfferInput(o *model.Offer, in OfferInput) {
	setString(&o.Title, in.Title)
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.Discount != nil {
		o.Discount = *in.Discount
	}
	setString(&o.DiscountType, in.DiscountType)
	setString(&o.Code, in.Code)
	if in.ValidFrom != nil {
		o.ValidFrom = in.ValidFrom.start()
	}
	if in.ValidTo != nil {
		o.ValidTo = in.ValidTo.end()
	}
	setString(&o.Status, in.Status)
	if in.UsageLimit != nil {
		o.UsageLimit = *in.UsageLimit
	}
	if in.Services != nil {
		o.Services = cleanList(in.Services)
	}
	setString(&o.Image, in.Image)
	if in.Terms != nil {
		o.Terms = *in.Terms
	}
}

// checkOffer validates rules spanning several fields.
func checkOffer(o *model.Offer) error {
	errs := validation.Errors{}
	if o.DiscountType == model.DiscountPercentage && o.Discount.GreaterThan(hundred) {
		errs["discount"] = errors.New("a percentage discount cannot exceed 100")
	}
	if !o.ValidTo.After(o.ValidFrom) {
		errs["valid_to"] = errors.New("must be after valid_from")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func mapOfferError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrOfferNotFound):
		return ErrOfferNotFound
	case errors.Is(err, repository.ErrOfferInactive):
		return ErrOfferInactive
	case errors.Is(err, repository.ErrOfferExhausted):
		return ErrOfferExhausted
	}
	return err
}

func mapOfferWriteError(err error) error {
	if errors.Is(err, repository.ErrOfferCodeExists) {
		return validation.Errors{"code": errors.New("an offer with this code already exists")}
	}
	return mapOfferError(err)
}

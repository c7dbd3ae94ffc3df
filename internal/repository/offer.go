package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound   = errors.New("offer not found")
	ErrOfferCodeExists = errors.New("offer code already exists")
	ErrOfferInactive   = errors.New("offer is not active")
	ErrOfferExhausted  = errors.New("offer usage limit reached")
)

// OfferListSpec drives offer lists.
var OfferListSpec = &QuerySpec{
	Table: "offers",
	Filters: map[string]string{
		"status":        "offers.status",
		"discount_type": "offers.discount_type",
	},
	Search: []string{"offers.title", "offers.code", "offers.description"},
	Ordering: map[string]string{
		"created_at": "offers.created_at",
		"valid_to":   "offers.valid_to",
	},
	DefaultOrdering: "-created_at",
}

// OfferStats summarises offers and their redemptions.
type OfferStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Expired    int64 `json:"expired"`
	TotalUsage int64 `json:"total_usage"`
}

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	GetByCode(ctx context.Context, code string) (*model.Offer, error)
	Update(ctx context.Context, offer *model.Offer) error
	SetUsedCount(ctx context.Context, id string, n int) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.Offer], error)
	Active(ctx context.Context, at time.Time) ([]*model.Offer, error)
	Redeem(ctx context.Context, id string, at time.Time) (*model.Offer, error)
	Stats(ctx context.Context) (*OfferStats, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	err := translateError(r.db.WithContext(ctx).Create(offer).Error)
	if errors.Is(err, ErrDuplicate) {
		return ErrOfferCodeExists
	}
	return err
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByCode matches the code case-insensitively.
func (r *offerRepository) GetByCode(ctx context.Context, code string) (*model.Offer, error) {
	return r.first(r.db.WithContext(ctx).Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))))
}

func (r *offerRepository) first(query *gorm.DB) (*model.Offer, error) {
	var offer model.Offer
	err := query.Scopes(Alive("offers")).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// Update writes the offer's columns except used_count, which only Redeem
// and SetUsedCount change.
func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	err := updateAll(ctx, r.db, offer, ErrOfferNotFound, "used_count")
	if errors.Is(err, ErrDuplicate) {
		return ErrOfferCodeExists
	}
	return err
}

// SetUsedCount overwrites the redemption counter. It is not bounded by usage_limit.
func (r *offerRepository) SetUsedCount(ctx context.Context, id string, n int) error {
	result := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("used_count", n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero rows when the value is unchanged.
	_, err := r.GetByID(ctx, id)
	return err
}

func (r *offerRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.Offer{}, id, ErrOfferNotFound)
}

func (r *offerRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.Offer], error) {
	return Paginate[*model.Offer](r.db.WithContext(ctx).Model(&model.Offer{}), OfferListSpec, q)
}

// Active returns the active offers whose validity window contains at,
// ending soonest first.
func (r *offerRepository) Active(ctx context.Context, at time.Time) ([]*model.Offer, error) {
	var offers []*model.Offer
	err := r.db.WithContext(ctx).
		Scopes(Alive("offers")).
		Where("status = ? AND valid_from <= ? AND valid_to >= ?", model.OfferStatusActive, at, at).
		Order("valid_to ASC").
		Order("id ASC").
		Find(&offers).Error
	return offers, err
}

// Redeem consumes one use of the offer. The increment is guarded in storage
// so concurrent redemptions never push used_count past usage_limit.
func (r *offerRepository) Redeem(ctx context.Context, id string, at time.Time) (*model.Offer, error) {
	result := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Where("status = ? AND valid_from <= ? AND valid_to >= ?", model.OfferStatusActive, at, at).
		Where("used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}

	offer, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected > 0 {
		return offer, nil
	}
	if !offer.IsValidAt(at) {
		return nil, ErrOfferInactive
	}
	return nil, ErrOfferExhausted
}

func (r *offerRepository) Stats(ctx context.Context) (*OfferStats, error) {
	var row struct {
		Total      int64
		Active     int64
		Expired    int64
		TotalUsage int64
	}
	err := r.db.WithContext(ctx).Model(&model.Offer{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS expired, "+
				"COALESCE(SUM(used_count), 0) AS total_usage",
			model.OfferStatusActive, model.OfferStatusExpired,
		).
		Scopes(Alive("offers")).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &OfferStats{
		Total:      row.Total,
		Active:     row.Active,
		Expired:    row.Expired,
		TotalUsage: row.TotalUsage,
	}, nil
}

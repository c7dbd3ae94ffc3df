package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer statuses.
const (
	OfferStatusActive   = "active"
	OfferStatusInactive = "inactive"
	OfferStatusExpired  = "expired"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// ValidOfferStatus reports whether s is a known offer status.
func ValidOfferStatus(s string) bool {
	switch s {
	case OfferStatusActive, OfferStatusInactive, OfferStatusExpired:
		return true
	}
	return false
}

// ValidDiscountType reports whether s is a known discount type.
func ValidDiscountType(s string) bool {
	return s == DiscountPercentage || s == DiscountFixed
}

// Offer is a promotional discount redeemable by code.
type Offer struct {
	BaseModel
	Title        string          `gorm:"type:varchar(200);not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	DiscountType string          `gorm:"type:varchar(20);not null" json:"discount_type"`
	Code         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	ValidFrom    time.Time       `gorm:"not null" json:"valid_from"`
	ValidTo      time.Time       `gorm:"not null" json:"valid_to"`
	Status       string          `gorm:"type:varchar(20);not null;index" json:"status"`
	UsageLimit   int             `gorm:"not null" json:"usage_limit"`
	UsedCount    int             `gorm:"not null;default:0" json:"used_count"`
	Services     StringList      `gorm:"type:json" json:"services"`
	Image        string          `gorm:"type:varchar(500)" json:"image"`
	Terms        string          `gorm:"type:text" json:"terms"`
}

// TableName pins the table name.
func (Offer) TableName() string {
	return "offers"
}

// IsValidAt reports an active offer whose window contains at.
func (o *Offer) IsValidAt(at time.Time) bool {
	return o.Status == OfferStatusActive && !at.Before(o.ValidFrom) && !at.After(o.ValidTo)
}

// Remaining is the number of redemptions left, never negative.
func (o *Offer) Remaining() int {
	if o.UsedCount >= o.UsageLimit {
		return 0
	}
	return o.UsageLimit - o.UsedCount
}

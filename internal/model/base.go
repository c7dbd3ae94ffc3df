// Package model defines the persisted records.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps records creation and last modification. CreatedAt is written
// once by gorm on insert; UpdatedAt is refreshed on every update.
type Timestamps struct {
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SoftDelete hides a record from default queries without removing it.
// DeletedAt is set if and only if IsDeleted is true.
type SoftDelete struct {
	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
}

// MarkDeleted flags the record as deleted at now. Calling it again keeps the
// first deletion time.
func (s *SoftDelete) MarkDeleted(now time.Time) {
	if s.IsDeleted {
		return
	}
	s.IsDeleted = true
	s.DeletedAt = &now
}

// Restore clears the deletion flag and timestamp.
func (s *SoftDelete) Restore() {
	s.IsDeleted = false
	s.DeletedAt = nil
}

// Deleted reports whether the record is soft-deleted.
func (s SoftDelete) Deleted() bool {
	return s.IsDeleted
}

// BaseModel is the common id + timestamps + soft delete composition.
type BaseModel struct {
	ID string `gorm:"type:char(36);primaryKey" json:"id"`
	Timestamps
	SoftDelete
}

// BeforeCreate assigns a UUID when the id is empty.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

package model

// Review display locations.
const (
	DisplayHome      = "home"
	DisplayCommunity = "community"
	DisplayBoth      = "both"
)

// ValidDisplayLocation reports whether s is a known display location.
func ValidDisplayLocation(s string) bool {
	switch s {
	case DisplayHome, DisplayCommunity, DisplayBoth:
		return true
	}
	return false
}

// Review is a customer testimonial. Only approved reviews are public.
type Review struct {
	BaseModel
	Name            string `gorm:"type:varchar(100);not null" json:"name"`
	Email           string `gorm:"type:varchar(254);not null" json:"email"`
	Location        string `gorm:"type:varchar(100)" json:"location"`
	Image           string `gorm:"type:varchar(500)" json:"image"`
	Rating          int    `gorm:"not null;index" json:"rating"`
	Comment         string `gorm:"type:text;not null" json:"comment"`
	IsApproved      bool   `gorm:"not null;index" json:"is_approved"`
	IsFeatured      bool   `gorm:"not null" json:"is_featured"`
	DisplayLocation string `gorm:"type:varchar(20);not null" json:"display_location"`
}

// TableName pins the table name.
func (Review) TableName() string {
	return "reviews"
}

package model

// Enquiry types.
const (
	EnquiryTypeContact = "contact"
	EnquiryTypeEnquiry = "enquiry"
)

// Enquiry statuses.
const (
	EnquiryStatusNew        = "new"
	EnquiryStatusInProgress = "in-progress"
	EnquiryStatusResolved   = "resolved"
)

// Enquiry priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidEnquiryType reports whether s is a known enquiry type.
func ValidEnquiryType(s string) bool {
	return s == EnquiryTypeContact || s == EnquiryTypeEnquiry
}

// ValidEnquiryStatus reports whether s is a known enquiry status.
func ValidEnquiryStatus(s string) bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusInProgress, EnquiryStatusResolved:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known priority.
func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Enquiry is a contact-form message or a detailed service enquiry.
type Enquiry struct {
	BaseModel
	Type           string     `gorm:"type:varchar(20);not null;index" json:"type"`
	Subject        string     `gorm:"type:varchar(200)" json:"subject"`
	CustomerName   string     `gorm:"type:varchar(100);not null" json:"customer_name"`
	Email          string     `gorm:"type:varchar(254);not null" json:"email"`
	Phone          string     `gorm:"type:varchar(20)" json:"phone"`
	ServiceType    string     `gorm:"type:varchar(50);index" json:"service_type"`
	Message        string     `gorm:"type:text" json:"message"`
	Address        string     `gorm:"type:text" json:"address"`
	PropertyType   string     `gorm:"type:varchar(50)" json:"property_type"`
	Area           *float64   `json:"area"`
	BuildingAge    string     `gorm:"type:varchar(50)" json:"building_age"`
	Pests          StringList `gorm:"type:json" json:"pests"`
	Severity       string     `gorm:"type:varchar(20)" json:"severity"`
	Urgency        string     `gorm:"type:varchar(20)" json:"urgency"`
	PreferredTime  string     `gorm:"type:varchar(50)" json:"preferred_time"`
	AdditionalInfo string     `gorm:"type:text" json:"additional_info"`
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority       string     `gorm:"type:varchar(10);not null;index" json:"priority"`
}

// TableName pins the table name.
func (Enquiry) TableName() string {
	return "enquiries"
}

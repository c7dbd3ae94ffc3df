package model

// Employment types.
const (
	EmploymentFullTime = "full-time"
	EmploymentPartTime = "part-time"
	EmploymentContract = "contract"
)

// Job statuses.
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// ValidEmploymentType reports whether s is a known employment type.
func ValidEmploymentType(s string) bool {
	switch s {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract:
		return true
	}
	return false
}

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	return s == JobStatusActive || s == JobStatusClosed
}

// Job is an open position.
type Job struct {
	BaseModel
	Title          string     `gorm:"type:varchar(200);not null" json:"title"`
	Location       string     `gorm:"type:varchar(100);not null" json:"location"`
	EmploymentType string     `gorm:"type:varchar(20);not null;index" json:"employment_type"`
	Experience     string     `gorm:"type:varchar(50)" json:"experience"`
	Description    string     `gorm:"type:text" json:"description"`
	Requirements   StringList `gorm:"type:json" json:"requirements"`
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`
}

// TableName pins the table name.
func (Job) TableName() string {
	return "jobs"
}

// JobApplication is a candidate's application to a job.
type JobApplication struct {
	BaseModel
	JobID       string `gorm:"type:char(36);index;not null" json:"job_id"`
	FullName    string `gorm:"type:varchar(100);not null" json:"full_name"`
	Email       string `gorm:"type:varchar(254);not null" json:"email"`
	Phone       string `gorm:"type:varchar(20)" json:"phone"`
	Experience  string `gorm:"type:varchar(50)" json:"experience"`
	Resume      string `gorm:"type:varchar(500)" json:"resume"`
	CoverLetter string `gorm:"type:text" json:"cover_letter"`

	Job *Job `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
}

// TableName pins the table name.
func (JobApplication) TableName() string {
	return "job_applications"
}

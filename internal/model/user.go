package model

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account. Email is the login identity. IsVerified, IsStaff and
// IsSuperuser are independent flags.
type User struct {
	BaseModel
	Email          string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Username       string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName      string     `gorm:"type:varchar(30)" json:"first_name"`
	LastName       string     `gorm:"type:varchar(30)" json:"last_name"`
	PhoneNumber    string     `gorm:"type:varchar(15)" json:"phone_number"`
	Address        string     `gorm:"type:text" json:"address"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	ProfilePicture string     `gorm:"type:varchar(500)" json:"profile_picture"`
	PasswordHash   string     `gorm:"type:varchar(255)" json:"-"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	IsVerified     bool       `gorm:"not null" json:"is_verified"`
	IsStaff        bool       `gorm:"not null" json:"is_staff"`
	IsSuperuser    bool       `gorm:"not null" json:"is_superuser"`
	LastLogin      *time.Time `json:"last_login"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword compares password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports staff or superuser.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// UserProfile holds optional extended profile data, one per user.
type UserProfile struct {
	BaseModel
	UserID             string `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`
	Bio                string `gorm:"type:varchar(500)" json:"bio"`
	Website            string `gorm:"type:varchar(200)" json:"website"`
	Company            string `gorm:"type:varchar(100)" json:"company"`
	Location           string `gorm:"type:varchar(100)" json:"location"`
	EmailNotifications bool   `gorm:"not null" json:"email_notifications"`
	SMSNotifications   bool   `gorm:"not null" json:"sms_notifications"`
	MarketingEmails    bool   `gorm:"not null" json:"marketing_emails"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName pins the table name.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// NewUserProfile returns a profile with the default preferences.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:             userID,
		EmailNotifications: true,
		MarketingEmails:    true,
	}
}

package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var ErrCannotDeleteSelf = errors.New("you cannot delete your own account")

// UserDetail is a user with their extended profile.
type UserDetail struct {
	*model.User
	FullName   string             `json:"full_name"`
	DateJoined time.Time          `json:"date_joined"`
	Profile    *model.UserProfile `json:"profile"`
}

// UserStats are the figures shown on the account page.
type UserStats struct {
	TotalUsers        int64     `json:"total_users"`
	VerifiedUsers     int64     `json:"verified_users"`
	UserJoinedDate    time.Time `json:"user_joined_date"`
	ProfileCompletion float64   `json:"profile_completion"`
}

// UpdateProfileInput changes the caller's own account. Nil fields are kept.
type UpdateProfileInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	// DateOfBirth is YYYY-MM-DD; an empty string clears it.
	DateOfBirth *string `json:"date_of_birth"`
}

func (r UpdateProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 30)),
		validation.Field(&r.LastName, validation.Length(0, 30)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 15)),
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
	)
}

// ExtendedProfileInput changes the caller's extended profile.
type ExtendedProfileInput struct {
	Bio                *string `json:"bio"`
	Website            *string `json:"website"`
	Company            *string `json:"company"`
	Location           *string `json:"location"`
	EmailNotifications *bool   `json:"email_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
	MarketingEmails    *bool   `json:"marketing_emails"`
}

func (r ExtendedProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.Website, validation.Length(0, 200), is.URL),
		validation.Field(&r.Company, validation.Length(0, 100)),
		validation.Field(&r.Location, validation.Length(0, 100)),
	)
}

// AdminUserInput is what an administrator may change on any account.
type AdminUserInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	IsActive    *bool   `json:"is_active"`
	IsVerified  *bool   `json:"is_verified"`
	IsStaff     *bool   `json:"is_staff"`
}

func (r AdminUserInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 30)),
		validation.Field(&r.LastName, validation.Length(0, 30)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 15)),
	)
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Detail(ctx context.Context, id string) (*UserDetail, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*UserDetail, error)
	GetExtendedProfile(ctx context.Context, id string) (*model.UserProfile, error)
	UpdateExtendedProfile(ctx context.Context, id string, in ExtendedProfileInput) (*model.UserProfile, error)
	UploadProfilePicture(ctx context.Context, id string, file *FileInput) (*UserDetail, error)
	DeleteProfilePicture(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*UserStats, error)

	List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.User], error)
	AdminUpdate(ctx context.Context, id string, in AdminUserInput) (*UserDetail, error)
	Delete(ctx context.Context, actorID, id string) error
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.UserProfileRepository
	uploads     UploadService
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.UserProfileRepository, uploads UploadService) UserService {
	return &userService{userRepo: userRepo, profileRepo: profileRepo, uploads: uploads}
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Detail(ctx context.Context, id string) (*UserDetail, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, user)
}

func (s *userService) detail(ctx context.Context, user *model.User) (*UserDetail, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		User:       user,
		FullName:   user.FullName(),
		DateJoined: user.CreatedAt,
		Profile:    profile,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*UserDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&user.FirstName, in.FirstName)
	setString(&user.LastName, in.LastName)
	setString(&user.PhoneNumber, in.PhoneNumber)
	setString(&user.Address, in.Address)
	if in.DateOfBirth != nil {
		user.DateOfBirth = nil
		if v := strings.TrimSpace(*in.DateOfBirth); v != "" {
			dob, err := time.Parse(dateLayout, v)
			if err != nil {
				return nil, validation.Errors{"date_of_birth": err}
			}
			user.DateOfBirth = &dob
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.detail(ctx, user)
}

func (s *userService) GetExtendedProfile(ctx context.Context, id string) (*model.UserProfile, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.profileRepo.GetOrCreate(ctx, id)
}

func (s *userService) UpdateExtendedProfile(ctx context.Context, id string, in ExtendedProfileInput) (*model.UserProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.GetExtendedProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&profile.Bio, in.Bio)
	setString(&profile.Website, in.Website)
	setString(&profile.Company, in.Company)
	setString(&profile.Location, in.Location)
	setBool(&profile.EmailNotifications, in.EmailNotifications)
	setBool(&profile.SMSNotifications, in.SMSNotifications)
	setBool(&profile.MarketingEmails, in.MarketingEmails)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadProfilePicture stores the image and replaces the previous picture.
func (s *userService) UploadProfilePicture(ctx context.Context, id string, file *FileInput) (*UserDetail, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if file == nil || file.Reader == nil || file.Size == 0 {
		return nil, ErrFileRequired
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, ErrNotImage
	}

	result, err := s.uploads.Upload(ctx, "profiles", file)
	if err != nil {
		return nil, err
	}
	previous := user.ProfilePicture
	user.ProfilePicture = result.URL
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.removeFile(ctx, result.URL)
		return nil, err
	}
	if previous != "" {
		s.removeFile(ctx, previous)
	}
	return s.detail(ctx, user)
}

func (s *userService) DeleteProfilePicture(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.ProfilePicture == "" {
		return nil
	}
	previous := user.ProfilePicture
	user.ProfilePicture = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.removeFile(ctx, previous)
	return nil
}

func (s *userService) removeFile(ctx context.Context, url string) {
	if err := s.uploads.Remove(ctx, url); err != nil {
		logger.L().Warn("remove stored file", zap.String("url", url), zap.Error(err))
	}
}

func (s *userService) Stats(ctx context.Context, id string) (*UserStats, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.userRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		TotalUsers:        counts.Total,
		VerifiedUsers:     counts.Verified,
		UserJoinedDate:    user.CreatedAt,
		ProfileCompletion: ProfileCompletion(user),
	}, nil
}

// ProfileCompletion is the percentage, to two decimals, of filled-in
// personal fields.
func ProfileCompletion(u *model.User) float64 {
	fields := []bool{
		u.FirstName != "",
		u.LastName != "",
		u.Email != "",
		u.PhoneNumber != "",
		u.Address != "",
		u.DateOfBirth != nil,
		u.ProfilePicture != "",
	}
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return math.Round(float64(filled)/float64(len(fields))*100*100) / 100
}

func (s *userService) List(ctx context.Context, q *repository.ListQuery) (*repository.Page[*model.User], error) {
	return s.userRepo.List(ctx, q)
}

func (s *userService) AdminUpdate(ctx context.Context, id string, in AdminUserInput) (*UserDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&user.FirstName, in.FirstName)
	setString(&user.LastName, in.LastName)
	setString(&user.PhoneNumber, in.PhoneNumber)
	setString(&user.Address, in.Address)
	setBool(&user.IsActive, in.IsActive)
	setBool(&user.IsVerified, in.IsVerified)
	setBool(&user.IsStaff, in.IsStaff)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.detail(ctx, user)
}

func (s *userService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("this email is already registered")
	ErrUsernameExists     = errors.New("this username is already taken")
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(3, 254)),
		validation.Field(&r.Username,
			validation.Length(3, 150),
			validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_"),
		),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.FirstName, validation.Length(0, 30)),
		validation.Field(&r.LastName, validation.Length(0, 30)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 15)),
	)
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// ChangePasswordInput replaces the caller's password.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, passwordRules...),
	)
}

var passwordRules = []validation.Rule{
	validation.Required,
	validation.Length(8, 128),
	validation.Match(hasUpper).Error("must contain an uppercase letter"),
	validation.Match(hasLower).Error("must contain a lowercase letter"),
	validation.Match(hasDigit).Error("must contain a number"),
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login checks the credentials and stamps last_login.
	Login(ctx context.Context, in LoginInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error
}

type authService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo, now: utcNow}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		in.Username = in.Email
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       in.Email,
		Username:    in.Username,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		IsActive:    true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUserUsernameExists):
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.VerifyPassword(in.OldPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(in.NewPassword); err != nil {
		return err
	}
	return s.userRepo.SetPasswordHash(ctx, user.ID, user.PasswordHash)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

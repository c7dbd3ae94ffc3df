package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserUsernameExists = errors.New("username already exists")
	ErrUserEmailExists    = errors.New("email already exists")
	ErrProfileNotFound    = errors.New("user profile not found")
)

// UserListSpec drives the admin user list.
var UserListSpec = &QuerySpec{
	Table: "users",
	Filters: map[string]string{
		"is_active":   "users.is_active",
		"is_verified": "users.is_verified",
		"is_staff":    "users.is_staff",
	},
	Search: []string{"users.email", "users.first_name", "users.last_name"},
	Ordering: map[string]string{
		"date_joined": "users.created_at",
		"created_at":  "users.created_at",
		"email":       "users.email",
		"last_login":  "users.last_login",
	},
	DefaultOrdering: "-created_at",
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	List(ctx context.Context, q *ListQuery) (*Page[*model.User], error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	SetPasswordHash(ctx context.Context, id, hash string) error
	Counts(ctx context.Context) (*UserCounts, error)
}

// UserCounts summarises live accounts.
type UserCounts struct {
	Total    int64 `json:"total_users"`
	Verified int64 `json:"verified_users"`
}

type UserProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.UserProfile, error)
	Update(ctx context.Context, profile *model.UserProfile) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create rejects emails and usernames held by any row, deleted ones included.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	exists, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserEmailExists
	}
	exists, err = r.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserUsernameExists
	}
	if err := translateError(r.db.WithContext(ctx).Create(user).Error); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return ErrUserEmailExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(Alive("users")).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(Alive("users")).Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update writes the account's columns except the password hash and last
// login, which change only through SetPasswordHash and TouchLastLogin.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	err := updateAll(ctx, r.db, user, ErrUserNotFound, "password_hash", "last_login")
	if errors.Is(err, ErrDuplicate) {
		return ErrUserEmailExists
	}
	return err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &model.User{}, id, ErrUserNotFound)
}

func (r *userRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &model.User{}, id, ErrUserNotFound)
}

func (r *userRepository) List(ctx context.Context, q *ListQuery) (*Page[*model.User], error) {
	return Paginate[*model.User](r.db.WithContext(ctx).Model(&model.User{}), UserListSpec, q)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return columnExists(ctx, r.db, &model.User{}, "username", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}

func (r *userRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Counts(ctx context.Context) (*UserCounts, error) {
	var counts UserCounts
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Scopes(Alive("users")).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0) AS verified").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// UserProfile Repository

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

// GetOrCreate loads the user's profile, creating one with default preferences
// on first access. A concurrent creator wins and its row is returned.
func (r *userProfileRepository) GetOrCreate(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := r.get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile = model.NewUserProfile(userID)
	if err := translateError(r.db.WithContext(ctx).Create(profile).Error); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return r.get(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

func (r *userProfileRepository) get(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) Update(ctx context.Context, profile *model.UserProfile) error {
	return updateAll(ctx, r.db, profile, ErrProfileNotFound)
}

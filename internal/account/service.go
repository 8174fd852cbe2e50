package account

import (
	"context"
	"errors"

	"github.com/bytebuddy/companion/internal/auth"
	"github.com/bytebuddy/companion/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername = errors.New("account: username already taken")
	ErrUserNotFound      = errors.New("account: no account with that username")
	ErrInvalidCredential = errors.New("account: incorrect password")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates the account and returns it. Username matching is exact and
// case-sensitive; a clash fails with ErrDuplicateUsername and leaves the
// existing account untouched.
func (s *Service) Register(ctx context.Context, displayName, username, password string) (*models.User, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate looks the account up by username and verifies the password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	return &user, nil
}

func (s *Service) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

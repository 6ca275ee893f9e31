package services

import (
	"errors"
	"fmt"

	"linknest/internal/models"
	"linknest/internal/utils"

	"gorm.io/gorm"
)

// AccountService owns user records: signup and credential checks.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates a new account. Only the bcrypt hash of the password is
// stored. Username matching is exact and case-sensitive.
func (s *AccountService) Register(username, email, rawPassword string) (*models.User, error) {
	hash, err := utils.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}

	// Uniqueness check and insert run in one transaction so two concurrent
	// signups with the same name cannot both pass the check.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return storageErr("checking username", err)
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		if err := tx.Create(&user).Error; err != nil {
			return storageErr("creating user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Verify checks a username/password pair. Read-only: it never mutates the
// store. The caller decides how much of the failure reason to surface.
func (s *AccountService) Verify(username, rawPassword string) (*models.User, error) {
	user, err := s.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(rawPassword, user.Password) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AccountService) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("looking up user", err)
	}
	return &user, nil
}

package session

import (
	"context"
	"errors"
	"time"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityProvider is the remote identity collaborator. Implementations
// return *AuthError with a provider code on rejection.
type IdentityProvider interface {
	Register(ctx context.Context, email, password, username string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// UserRecord is the provider's user row.
type UserRecord struct {
	ID           string `gorm:"column:id;primaryKey"`
	Username     string `gorm:"column:username;not null"`
	Email        string `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserRecord) TableName() string {
	return "users"
}

func (u *UserRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// GormProvider implements IdentityProvider on a GORM handle with bcrypt
// password hashes.
type GormProvider struct {
	DB *gorm.DB
}

func (p *GormProvider) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	if !validation.IsValidEmail(email) {
		return nil, authErr(CodeInvalidEmail)
	}
	if !validation.IsAcceptablePassword(password) {
		return nil, authErr(CodeWeakPassword)
	}

	var existing UserRecord
	err := p.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, authErr(CodeEmailAlreadyInUse)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &AuthError{Code: CodeNetworkFailure, Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	rec := UserRecord{Username: username, Email: email, PasswordHash: string(hash)}
	if err := p.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, &AuthError{Code: CodeNetworkFailure, Err: err}
	}
	return rec.user(), nil
}

func (p *GormProvider) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var rec UserRecord
	err := p.DB.WithContext(ctx).Where("email = ?", email).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authErr(CodeInvalidCredential)
	}
	if err != nil {
		return nil, &AuthError{Code: CodeNetworkFailure, Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, authErr(CodeInvalidCredential)
	}
	return rec.user(), nil
}

func (r *UserRecord) user() *domain.User {
	username := r.Username
	if username == "" {
		username = "User"
	}
	return &domain.User{ID: r.ID, Username: username, Email: r.Email}
}

package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Create an admin. The password must already be hashed
func (queries *Queries) CreateAdmin(ctx context.Context, admin *Admin) error {
	return queries.DB.WithContext(ctx).Create(admin).Error
}

// Get admin by username
func (queries *Queries) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	if err := queries.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Get admin by ID
func (queries *Queries) GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	var admin Admin
	if err := queries.DB.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Store a refresh token hash
func (queries *Queries) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	return queries.DB.WithContext(ctx).Create(token).Error
}

// Get a usable (not revoked, not expired) refresh token by its hash
func (queries *Queries) GetActiveRefreshToken(ctx context.Context, tokenHash string, now time.Time) (*RefreshToken, error) {
	var token RefreshToken
	err := queries.DB.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Revoke a refresh token. Only one caller can revoke a given token, the others get ErrRefreshTokenNotFound,
// which stops a stolen token from being rotated twice
func (queries *Queries) RevokeRefreshToken(ctx context.Context, id uuid.UUID, now time.Time) error {
	result := queries.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	accountdomain "outreach-backend/internal/account/domain"

	"gorm.io/gorm"
)

// AccountRepository resolves sender accounts and their mail credentials
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*accountdomain.Account, error)
	// UpdateTokens persists refreshed OAuth tokens for the account
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error
}

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new instance of accountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"updated_at":   time.Now(),
	}
	// Google only returns a refresh token on first consent
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.WithContext(ctx).Model(&accountdomain.Account{}).Where("id = ?", id).Updates(updates).Error
}

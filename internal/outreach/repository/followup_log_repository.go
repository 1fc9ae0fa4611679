package repository

import (
	"context"
	"fmt"
	"strings"

	outreachdomain "outreach-backend/internal/outreach/domain"

	"gorm.io/gorm"
)

// followUpLogRepository implements FollowUpLogRepository interface
type followUpLogRepository struct {
	db *gorm.DB
}

// NewFollowUpLogRepository creates a new instance of followUpLogRepository
func NewFollowUpLogRepository(db *gorm.DB) FollowUpLogRepository {
	return &followUpLogRepository{
		db: db,
	}
}

func (r *followUpLogRepository) ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.FollowUpLog, error) {
	var rows []*outreachdomain.FollowUpLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: follow-up log: %v", outreachdomain.ErrSourceUnavailable, err)
	}
	return rows, nil
}

func (r *followUpLogRepository) ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.FollowUpLog, error) {
	var rows []*outreachdomain.FollowUpLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(TRIM(recipient_email)) = ?", accountID, strings.ToLower(strings.TrimSpace(recipientEmail))).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: follow-up log: %v", outreachdomain.ErrSourceUnavailable, err)
	}
	return rows, nil
}

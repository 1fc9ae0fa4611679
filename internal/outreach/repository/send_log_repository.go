package repository

import (
	"context"
	"fmt"
	"strings"

	outreachdomain "outreach-backend/internal/outreach/domain"

	"gorm.io/gorm"
)

// sendLogRepository implements SendLogRepository interface
type sendLogRepository struct {
	db *gorm.DB
}

// NewSendLogRepository creates a new instance of sendLogRepository
func NewSendLogRepository(db *gorm.DB) SendLogRepository {
	return &sendLogRepository{
		db: db,
	}
}

func (r *sendLogRepository) ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.SendLog, error) {
	var rows []*outreachdomain.SendLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: send log: %v", outreachdomain.ErrSourceUnavailable, err)
	}
	return rows, nil
}

func (r *sendLogRepository) ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.SendLog, error) {
	var rows []*outreachdomain.SendLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(TRIM(recipient_email)) = ?", accountID, strings.ToLower(strings.TrimSpace(recipientEmail))).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: send log: %v", outreachdomain.ErrSourceUnavailable, err)
	}
	return rows, nil
}

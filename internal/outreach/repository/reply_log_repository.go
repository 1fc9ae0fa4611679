package repository

import (
	"context"
	"fmt"

	outreachdomain "outreach-backend/internal/outreach/domain"

	"gorm.io/gorm"
)

// replyLogRepository implements ReplyLogRepository interface
type replyLogRepository struct {
	db *gorm.DB
}

// NewReplyLogRepository creates a new instance of replyLogRepository
func NewReplyLogRepository(db *gorm.DB) ReplyLogRepository {
	return &replyLogRepository{
		db: db,
	}
}

// ListByAccount scans rows into column maps so that whichever recipient
// column a generation wrote survives the read.
func (r *replyLogRepository) ListByAccount(ctx context.Context, accountID string) ([]outreachdomain.ReplyRow, error) {
	var raw []map[string]interface{}
	err := r.db.WithContext(ctx).
		Table(outreachdomain.ReplyLogTable).
		Where("user_id = ?", accountID).
		Find(&raw).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reply log: %v", outreachdomain.ErrSourceUnavailable, err)
	}

	rows := make([]outreachdomain.ReplyRow, 0, len(raw))
	for _, m := range raw {
		rows = append(rows, outreachdomain.ReplyRow(m))
	}
	return rows, nil
}

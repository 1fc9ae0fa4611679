package repository

import (
	"context"

	outreachdomain "outreach-backend/internal/outreach/domain"
)

// SendLogRepository reads the append-only outbound email log
type SendLogRepository interface {
	// ListByAccount returns every outbound row written for the account
	ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.SendLog, error)
	// ListByRecipient returns the account's outbound rows for one normalized recipient
	ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.SendLog, error)
}

// FollowUpLogRepository reads the append-only follow-up log
type FollowUpLogRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.FollowUpLog, error)
	ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.FollowUpLog, error)
}

// ReplyLogRepository reads reply signals as raw column maps
type ReplyLogRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]outreachdomain.ReplyRow, error)
}

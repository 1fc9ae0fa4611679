package usecase

import (
	"context"

	outreachdomain "outreach-backend/internal/outreach/domain"
)

// OutreachUsecase defines the read-time projections over the outreach logs
type OutreachUsecase interface {
	// GetConversation merges log rows and the provider thread into one ordered stream
	GetConversation(ctx context.Context, accountID, contactEmail string) ([]outreachdomain.ConversationEvent, error)
	// GetConversationView returns contact, events and stats from a single gateway call
	GetConversationView(ctx context.Context, accountID, contactEmail string) (*outreachdomain.ConversationView, error)
	GetConversationStats(ctx context.Context, accountID, contactEmail string) (outreachdomain.ConversationStats, error)
	// GetFollowUpQueue lists contacts overdue for a follow-up, most overdue first. Never calls the gateway.
	GetFollowUpQueue(ctx context.Context, accountID string) ([]*outreachdomain.ContactSummary, error)
	// GetContactSummaries lists every contacted recipient with reply and eligibility flags
	GetContactSummaries(ctx context.Context, accountID string) ([]*outreachdomain.ContactSummary, error)
}

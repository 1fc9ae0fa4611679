package domain

import (
	"context"
	"time"

	contactdomain "outreach-backend/internal/contact/domain"
)

// Direction tells who sent an event relative to the account
type Direction string

const (
	DirectionOutbound Direction = "OUTBOUND"
	DirectionInbound  Direction = "INBOUND"
	DirectionFollowUp Direction = "FOLLOWUP"
)

// Source records which input produced an event
type Source string

const (
	SourceSendLog     Source = "log_outbound"
	SourceFollowUpLog Source = "log_followup"
	SourceGateway     Source = "gateway"
)

// ConversationEvent is one entry of the reconciled conversation with a contact
type ConversationEvent struct {
	ContactEmail  string    `json:"contact_email"`
	Direction     Direction `json:"direction"`
	Source        Source    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body,omitempty"`
	MessageID     string    `json:"message_id,omitempty"`
	ThreadID      string    `json:"thread_id,omitempty"`
	FollowUpCount int       `json:"followup_count,omitempty"`
	DedupKey      string    `json:"dedup_key"`
}

// ConversationStats are per-contact counts derived from the merged stream
type ConversationStats struct {
	Total    int        `json:"total"`
	Outbound int        `json:"outbound"`
	Inbound  int        `json:"inbound"`
	FirstAt  *time.Time `json:"first_at"`
	LastAt   *time.Time `json:"last_at"`
}

// ConversationView bundles everything the dashboard shows for one contact
type ConversationView struct {
	Contact *contactdomain.Contact `json:"contact"`
	Events  []ConversationEvent    `json:"events"`
	Stats   ConversationStats      `json:"stats"`
}

// ContactSummary describes where the account stands with one recipient
type ContactSummary struct {
	Contact             *contactdomain.Contact `json:"contact"`
	LastOutboundAt      time.Time              `json:"last_outbound_at"`
	LastFollowUpAt      *time.Time             `json:"last_followup_at,omitempty"`
	LastCommunicationAt time.Time              `json:"last_communication_at"`
	TotalOutbound       int                    `json:"total_outbound"`
	Replied             bool                   `json:"replied"`
	EligibleForFollowUp bool                   `json:"eligible_for_followup"`
	HoursSinceContact   float64                `json:"hours_since_contact"`
}

// MessageRetrievalGateway fetches the authoritative thread between an account
// and a contact from the remote mail provider.
type MessageRetrievalGateway interface {
	FetchThread(ctx context.Context, accountID, contactEmail string) ([]*RetrievedMessage, error)
}

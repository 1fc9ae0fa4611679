package domain

import "time"

// SendLog is one row of the outbound email log. SentAt stays raw text because
// several writer generations have stored it in different formats.
type SendLog struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_send_user_recipient;not null"`
	RecipientEmail string    `json:"recipient_email" gorm:"index:idx_send_user_recipient"`
	Subject        string    `json:"subject"`
	SentAt         string    `json:"sent_at"`
	MessageID      string    `json:"message_id,omitempty"`
	ThreadID       string    `json:"thread_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (SendLog) TableName() string {
	return "email_send_logs"
}

// FollowUpLog is one row of the follow-up log. A single row may stand for a
// batch of sends; FollowUpCount carries how many.
type FollowUpLog struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_followup_user_recipient;not null"`
	RecipientEmail string    `json:"recipient_email" gorm:"index:idx_followup_user_recipient"`
	Subject        string    `json:"subject"`
	SentAt         string    `json:"sent_at"`
	FollowUpCount  int       `json:"followup_count" gorm:"column:followup_count;default:1"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (FollowUpLog) TableName() string {
	return "email_followup_logs"
}

// Sequence returns the number of sends a row represents, never less than one.
func (f *FollowUpLog) Sequence() int {
	if f.FollowUpCount < 1 {
		return 1
	}
	return f.FollowUpCount
}

// ReplyRow is a raw reply log row. Column names differ between source
// generations, so rows are kept as a column map and read through a field
// adapter.
type ReplyRow map[string]interface{}

// ReplyLogTable is the table holding reply signals.
const ReplyLogTable = "email_reply_logs"

// RetrievedMessage is a message fetched on demand from the mail provider.
type RetrievedMessage struct {
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Date      time.Time `json:"date"`
}

package domain

import (
	"time"

	"golang.org/x/oauth2"
)

const (
	ProviderGoogle = "google"
	ProviderIMAP   = "imap"
)

// Account is the authenticated sender identity whose outbound activity is tracked.
type Account struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"index"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider"` // "google" or "imap"
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	IMAPServer   string    `json:"-" gorm:"column:imap_server"` // host:port
	IMAPUsername string    `json:"-" gorm:"column:imap_username"`
	IMAPPassword string    `json:"-" gorm:"column:imap_password"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the accounts on the shared users table.
func (Account) TableName() string {
	return "users"
}

// TokenUpdateFunc is a callback invoked when an OAuth token is refreshed
type TokenUpdateFunc func(token *oauth2.Token) error

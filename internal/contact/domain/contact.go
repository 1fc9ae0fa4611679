package domain

import "strings"

// Contact is a person the account has reached out to
type Contact struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      string `json:"-" gorm:"index"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"index"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Synthesized bool   `json:"synthesized" gorm:"-"` // true when built from a bare address
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// SynthesizeContact builds the minimal identity used when the directory has no
// entry for an address.
func SynthesizeContact(email string) *Contact {
	address := strings.ToLower(strings.TrimSpace(email))
	return &Contact{
		ID:          "email-" + address,
		Name:        address,
		Email:       address,
		Synthesized: true,
	}
}

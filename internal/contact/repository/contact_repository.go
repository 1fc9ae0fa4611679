package repository

import (
	"context"
	"errors"
	"strings"

	contactdomain "outreach-backend/internal/contact/domain"

	"gorm.io/gorm"
)

// ContactRepository is the directory used to resolve an email into a contact
type ContactRepository interface {
	// FindByEmail returns nil, nil when the address is not in the directory
	FindByEmail(ctx context.Context, email string) (*contactdomain.Contact, error)
	// FindByEmails resolves many addresses in one query, keyed by normalized email
	FindByEmails(ctx context.Context, emails []string) (map[string]*contactdomain.Contact, error)
}

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of contactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func (r *contactRepository) FindByEmail(ctx context.Context, email string) (*contactdomain.Contact, error) {
	var contact contactdomain.Contact
	err := r.db.WithContext(ctx).
		Where("LOWER(TRIM(email)) = ?", normalize(email)).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) FindByEmails(ctx context.Context, emails []string) (map[string]*contactdomain.Contact, error) {
	if len(emails) == 0 {
		return map[string]*contactdomain.Contact{}, nil
	}

	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, normalize(e))
	}

	var contacts []*contactdomain.Contact
	err := r.db.WithContext(ctx).
		Where("LOWER(TRIM(email)) IN ?", normalized).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]*contactdomain.Contact, len(contacts))
	for _, c := range contacts {
		key := normalize(c.Email)
		// First match wins when the directory holds duplicates
		if _, exists := result[key]; !exists {
			result[key] = c
		}
	}
	return result, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

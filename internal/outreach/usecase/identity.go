package usecase

import (
	"context"

	contactdomain "outreach-backend/internal/contact/domain"
	outreachdomain "outreach-backend/internal/outreach/domain"
)

// resolveContact never fails: a missing or unreachable directory yields a
// synthesized identity.
func (u *outreachUsecase) resolveContact(ctx context.Context, email string) *contactdomain.Contact {
	normalized := NormalizeEmail(email)
	if u.contactRepo == nil {
		return contactdomain.SynthesizeContact(normalized)
	}

	contact, err := u.contactRepo.FindByEmail(ctx, normalized)
	if err != nil {
		u.logger.WarnContext(ctx, "contact directory unavailable, synthesizing identity",
			"contact_email", normalized, "error", err)
		return contactdomain.SynthesizeContact(normalized)
	}
	if contact == nil {
		u.logger.DebugContext(ctx, outreachdomain.ErrIdentityNotFound.Error(), "contact_email", normalized)
		return contactdomain.SynthesizeContact(normalized)
	}
	return withNormalizedEmail(contact, normalized)
}

// resolveContacts resolves many addresses with one directory query.
func (u *outreachUsecase) resolveContacts(ctx context.Context, emails []string) map[string]*contactdomain.Contact {
	resolved := make(map[string]*contactdomain.Contact, len(emails))

	var found map[string]*contactdomain.Contact
	if u.contactRepo != nil && len(emails) > 0 {
		var err error
		found, err = u.contactRepo.FindByEmails(ctx, emails)
		if err != nil {
			u.logger.WarnContext(ctx, "contact directory unavailable, synthesizing identities",
				"contacts", len(emails), "error", err)
			found = nil
		}
	}

	for _, email := range emails {
		normalized := NormalizeEmail(email)
		if contact, ok := found[normalized]; ok && contact != nil {
			resolved[normalized] = withNormalizedEmail(contact, normalized)
			continue
		}
		resolved[normalized] = contactdomain.SynthesizeContact(normalized)
	}
	return resolved
}

func withNormalizedEmail(contact *contactdomain.Contact, normalized string) *contactdomain.Contact {
	c := *contact
	c.Email = normalized
	if c.Name == "" {
		c.Name = normalized
	}
	return &c
}

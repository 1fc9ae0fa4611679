package usecase

import (
	"context"
	"time"

	outreachdomain "outreach-backend/internal/outreach/domain"
)

func (u *outreachUsecase) GetConversationStats(ctx context.Context, accountID, contactEmail string) (outreachdomain.ConversationStats, error) {
	if err := validateAccount(accountID); err != nil {
		return outreachdomain.ConversationStats{}, err
	}
	if err := validateContact(contactEmail); err != nil {
		return outreachdomain.ConversationStats{}, err
	}
	return u.reconcile(ctx, accountID, contactEmail).stats(), nil
}

// stats counts outbound from the log rows themselves, so a send that the
// provider also returned is counted once and follow-up batches count by
// their sequence. Inbound only ever comes from the provider.
func (r *reconciliation) stats() outreachdomain.ConversationStats {
	stats := outreachdomain.ConversationStats{
		Outbound: r.outboundRows + r.followUpSequence,
	}

	first, last := r.logFirst, r.logLast
	for _, ev := range r.events {
		if ev.Direction != outreachdomain.DirectionInbound {
			continue
		}
		stats.Inbound++
		if first.IsZero() || ev.Timestamp.Before(first) {
			first = ev.Timestamp
		}
		if last.IsZero() || ev.Timestamp.After(last) {
			last = ev.Timestamp
		}
	}

	stats.Total = stats.Outbound + stats.Inbound
	stats.FirstAt = timePtr(first)
	stats.LastAt = timePtr(last)
	return stats
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	outreachdomain "outreach-backend/internal/outreach/domain"
)

// recipientActivity accumulates one recipient's log activity in a single pass
type recipientActivity struct {
	lastOutbound     time.Time
	lastFollowUp     time.Time
	outboundRows     int
	followUpSequence int
}

func (u *outreachUsecase) GetFollowUpQueue(ctx context.Context, accountID string) ([]*outreachdomain.ContactSummary, error) {
	if err := validateAccount(accountID); err != nil {
		return nil, err
	}

	summaries := u.summarize(ctx, accountID)
	queue := make([]*outreachdomain.ContactSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.EligibleForFollowUp {
			queue = append(queue, s)
		}
	}
	return queue, nil
}

func (u *outreachUsecase) GetContactSummaries(ctx context.Context, accountID string) ([]*outreachdomain.ContactSummary, error) {
	if err := validateAccount(accountID); err != nil {
		return nil, err
	}
	return u.summarize(ctx, accountID), nil
}

// summarize works from the logs only; the mail provider is never consulted so
// the queue stays available when the provider is degraded.
func (u *outreachUsecase) summarize(ctx context.Context, accountID string) []*outreachdomain.ContactSummary {
	now := u.now()
	activity := u.scanActivity(ctx, accountID)
	replied := u.repliedSet(ctx, accountID)

	emails := make([]string, 0, len(activity))
	for email, a := range activity {
		// A follow-up presumes a prior send in this account's data
		if a.outboundRows == 0 {
			continue
		}
		emails = append(emails, email)
	}
	contacts := u.resolveContacts(ctx, emails)

	summaries := make([]*outreachdomain.ContactSummary, 0, len(emails))
	for _, email := range emails {
		a := activity[email]
		_, hasReplied := replied[email]

		mostRecent := a.lastOutbound
		if a.lastFollowUp.After(mostRecent) {
			mostRecent = a.lastFollowUp
		}
		elapsed := now.Sub(mostRecent)

		summaries = append(summaries, &outreachdomain.ContactSummary{
			Contact:             contacts[email],
			LastOutboundAt:      a.lastOutbound,
			LastFollowUpAt:      timePtr(a.lastFollowUp),
			LastCommunicationAt: mostRecent,
			TotalOutbound:       a.outboundRows + a.followUpSequence,
			Replied:             hasReplied,
			EligibleForFollowUp: !hasReplied && elapsed > u.graceWindow,
			HoursSinceContact:   math.Round(elapsed.Hours()*100) / 100,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.LastCommunicationAt.Equal(b.LastCommunicationAt) {
			return a.LastCommunicationAt.Before(b.LastCommunicationAt)
		}
		return a.Contact.Email < b.Contact.Email
	})
	return summaries
}

// scanActivity keeps only the per-type maxima, no sort needed.
func (u *outreachUsecase) scanActivity(ctx context.Context, accountID string) map[string]*recipientActivity {
	activity := make(map[string]*recipientActivity)
	get := func(email string) *recipientActivity {
		a, ok := activity[email]
		if !ok {
			a = &recipientActivity{}
			activity[email] = a
		}
		return a
	}

	sendRows, err := u.sendLogRepo.ListByAccount(ctx, accountID)
	if err != nil {
		u.logger.WarnContext(ctx, "send log unavailable, follow-up queue built without it",
			"account_id", accountID, "error", err)
	}
	for _, row := range sendRows {
		if row == nil {
			continue
		}
		email := NormalizeEmail(row.RecipientEmail)
		if email == "" {
			continue
		}
		ts, err := ParseTimestamp(row.SentAt)
		if err != nil {
			u.logger.DebugContext(ctx, "skipping send log row", "row_id", row.ID, "error", err)
			continue
		}
		a := get(email)
		a.outboundRows++
		if ts.After(a.lastOutbound) {
			a.lastOutbound = ts
		}
	}

	followRows, err := u.followUpLogRepo.ListByAccount(ctx, accountID)
	if err != nil {
		u.logger.WarnContext(ctx, "follow-up log unavailable, follow-up queue built without it",
			"account_id", accountID, "error", err)
	}
	for _, row := range followRows {
		if row == nil {
			continue
		}
		email := NormalizeEmail(row.RecipientEmail)
		if email == "" {
			continue
		}
		ts, err := ParseTimestamp(row.SentAt)
		if err != nil {
			u.logger.DebugContext(ctx, "skipping follow-up log row", "row_id", row.ID, "error", err)
			continue
		}
		a := get(email)
		a.followUpSequence += row.Sequence()
		if ts.After(a.lastFollowUp) {
			a.lastFollowUp = ts
		}
	}

	return activity
}

func (u *outreachUsecase) repliedSet(ctx context.Context, accountID string) map[string]struct{} {
	rows, err := u.replyLogRepo.ListByAccount(ctx, accountID)
	if err != nil {
		u.logger.WarnContext(ctx, "reply log unavailable, treating as no repliers",
			"account_id", accountID, "error", err)
		return map[string]struct{}{}
	}

	replied, err := u.replyResolver.RepliedSet(accountID, rows)
	if err != nil {
		if errors.Is(err, outreachdomain.ErrSchemaMismatch) {
			u.logger.WarnContext(ctx, "reply log fields did not resolve, treating as no repliers",
				"account_id", accountID, "rows", len(rows), "error", err)
		}
		return map[string]struct{}{}
	}
	return replied
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/pkg/logger"
)

// reconciliation is the merged view of one (account, contact) pair plus the
// log-side counters the stats need.
type reconciliation struct {
	contactEmail     string
	events           []outreachdomain.ConversationEvent
	outboundRows     int
	followUpSequence int
	logFirst         time.Time
	logLast          time.Time
}

func (u *outreachUsecase) GetConversation(ctx context.Context, accountID, contactEmail string) ([]outreachdomain.ConversationEvent, error) {
	if err := validateAccount(accountID); err != nil {
		return nil, err
	}
	if err := validateContact(contactEmail); err != nil {
		return nil, err
	}
	return u.reconcile(ctx, accountID, contactEmail).events, nil
}

func (u *outreachUsecase) GetConversationView(ctx context.Context, accountID, contactEmail string) (*outreachdomain.ConversationView, error) {
	if err := validateAccount(accountID); err != nil {
		return nil, err
	}
	if err := validateContact(contactEmail); err != nil {
		return nil, err
	}

	rec := u.reconcile(ctx, accountID, contactEmail)
	return &outreachdomain.ConversationView{
		Contact: u.resolveContact(ctx, rec.contactEmail),
		Events:  rec.events,
		Stats:   rec.stats(),
	}, nil
}

func (u *outreachUsecase) reconcile(ctx context.Context, accountID, contactEmail string) *reconciliation {
	contact := NormalizeEmail(contactEmail)
	rec := &reconciliation{
		contactEmail: contact,
		events:       []outreachdomain.ConversationEvent{},
	}

	logEvents := u.loadLogEvents(ctx, accountID, contact, rec)
	retrieved := u.retrievedEvents(ctx, accountID, contact)

	// Retrieved rows carry the body, so they win on message id collisions
	retrievedIDs := make(map[string]struct{}, len(retrieved))
	for _, ev := range retrieved {
		if ev.MessageID != "" {
			retrievedIDs[ev.MessageID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(logEvents))
	merged := make([]outreachdomain.ConversationEvent, 0, len(logEvents)+len(retrieved))
	for _, ev := range logEvents {
		if _, collides := retrievedIDs[ev.MessageID]; ev.MessageID != "" && collides {
			continue
		}
		if _, dup := seen[ev.DedupKey]; dup {
			continue
		}
		seen[ev.DedupKey] = struct{}{}
		merged = append(merged, ev)
	}
	merged = append(merged, retrieved...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	rec.events = merged
	return rec
}

// loadLogEvents maps send and follow-up rows to events, in ingestion order,
// and accumulates the log counters on rec.
func (u *outreachUsecase) loadLogEvents(ctx context.Context, accountID, contact string, rec *reconciliation) []outreachdomain.ConversationEvent {
	var events []outreachdomain.ConversationEvent

	sendRows, err := u.sendLogRepo.ListByRecipient(ctx, accountID, contact)
	if err != nil {
		u.logger.WarnContext(ctx, "send log unavailable, continuing without it",
			"account_id", accountID, "contact_email", contact, "error", err)
		sendRows = nil
	}
	for _, row := range sendRows {
		if row == nil {
			continue
		}
		ts, err := ParseTimestamp(row.SentAt)
		if err != nil {
			u.logger.DebugContext(ctx, "skipping send log row", "row_id", row.ID, "error", err)
			continue
		}
		rec.outboundRows++
		rec.observeLog(ts)
		messageID := strings.TrimSpace(row.MessageID)
		events = append(events, outreachdomain.ConversationEvent{
			ContactEmail: contact,
			Direction:    outreachdomain.DirectionOutbound,
			Source:       outreachdomain.SourceSendLog,
			Timestamp:    ts,
			Subject:      row.Subject,
			MessageID:    messageID,
			ThreadID:     row.ThreadID,
			DedupKey:     DedupKey(messageID, outreachdomain.SourceSendLog, contact, ts),
		})
	}

	followRows, err := u.followUpLogRepo.ListByRecipient(ctx, accountID, contact)
	if err != nil {
		u.logger.WarnContext(ctx, "follow-up log unavailable, continuing without it",
			"account_id", accountID, "contact_email", contact, "error", err)
		followRows = nil
	}
	for _, row := range followRows {
		if row == nil {
			continue
		}
		ts, err := ParseTimestamp(row.SentAt)
		if err != nil {
			u.logger.DebugContext(ctx, "skipping follow-up log row", "row_id", row.ID, "error", err)
			continue
		}
		rec.followUpSequence += row.Sequence()
		rec.observeLog(ts)
		events = append(events, outreachdomain.ConversationEvent{
			ContactEmail:  contact,
			Direction:     outreachdomain.DirectionFollowUp,
			Source:        outreachdomain.SourceFollowUpLog,
			Timestamp:     ts,
			Subject:       row.Subject,
			FollowUpCount: row.Sequence(),
			DedupKey:      CompositeKey(outreachdomain.SourceFollowUpLog, contact, ts),
		})
	}

	return events
}

// retrievedEvents fetches the provider thread and classifies each message.
// Messages repeated by the provider are kept once.
func (u *outreachUsecase) retrievedEvents(ctx context.Context, accountID, contact string) []outreachdomain.ConversationEvent {
	messages := u.fetchThread(ctx, accountID, contact)
	if len(messages) == 0 {
		return nil
	}

	account := u.accountEmail(ctx, accountID)
	seen := make(map[string]struct{}, len(messages))
	events := make([]outreachdomain.ConversationEvent, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		if msg.Date.IsZero() {
			u.logger.DebugContext(ctx, "skipping retrieved message",
				"message_id", msg.MessageID, "subject", logger.Truncate(msg.Subject, 60),
				"error", outreachdomain.ErrInvalidTimestamp)
			continue
		}
		ts := msg.Date.UTC()
		messageID := strings.TrimSpace(msg.MessageID)
		key := DedupKey(messageID, outreachdomain.SourceGateway, contact, ts)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		events = append(events, outreachdomain.ConversationEvent{
			ContactEmail: contact,
			Direction:    classifyDirection(msg.From, account, contact),
			Source:       outreachdomain.SourceGateway,
			Timestamp:    ts,
			Subject:      msg.Subject,
			Body:         msg.Body,
			MessageID:    messageID,
			ThreadID:     msg.ThreadID,
			DedupKey:     key,
		})
	}
	return events
}

// classifyDirection compares the sender against the known identities.
// Anything not sent by the account counts as inbound.
func classifyDirection(from, accountEmail, contactEmail string) outreachdomain.Direction {
	sender := NormalizeAddress(from)
	switch {
	case accountEmail != "" && sender == accountEmail:
		return outreachdomain.DirectionOutbound
	case sender == contactEmail:
		return outreachdomain.DirectionInbound
	default:
		return outreachdomain.DirectionInbound
	}
}

type fetchResult struct {
	messages []*outreachdomain.RetrievedMessage
	err      error
}

// fetchThread calls the gateway under the per-call timeout. Any failure is
// logged and reported as an empty thread.
func (u *outreachUsecase) fetchThread(ctx context.Context, accountID, contact string) []*outreachdomain.RetrievedMessage {
	if u.gateway == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("%w: gateway panic: %v", outreachdomain.ErrSourceUnavailable, r)}
			}
		}()
		messages, err := u.gateway.FetchThread(callCtx, accountID, contact)
		done <- fetchResult{messages: messages, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			u.logger.WarnContext(ctx, "thread retrieval failed, using log events only",
				"account_id", accountID, "contact_email", contact,
				"unavailable", errors.Is(res.err, outreachdomain.ErrSourceUnavailable), "error", res.err)
			return nil
		}
		return res.messages
	case <-callCtx.Done():
		u.logger.WarnContext(ctx, "thread retrieval timed out, using log events only",
			"account_id", accountID, "contact_email", contact, "timeout", u.gatewayTimeout)
		return nil
	}
}

func (r *reconciliation) observeLog(ts time.Time) {
	if r.logFirst.IsZero() || ts.Before(r.logFirst) {
		r.logFirst = ts
	}
	if r.logLast.IsZero() || ts.After(r.logLast) {
		r.logLast = ts
	}
}

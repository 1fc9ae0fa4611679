package usecase_test

import (
	"context"
	"io"
	"log/slog"

	accountdomain "outreach-backend/internal/account/domain"
	contactdomain "outreach-backend/internal/contact/domain"
	outreachdomain "outreach-backend/internal/outreach/domain"
)

type mockSendLogRepo struct {
	listByAccountFn   func(ctx context.Context, accountID string) ([]*outreachdomain.SendLog, error)
	listByRecipientFn func(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.SendLog, error)
}

func (m *mockSendLogRepo) ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.SendLog, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockSendLogRepo) ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.SendLog, error) {
	if m.listByRecipientFn != nil {
		return m.listByRecipientFn(ctx, accountID, recipientEmail)
	}
	return nil, nil
}

type mockFollowUpLogRepo struct {
	listByAccountFn   func(ctx context.Context, accountID string) ([]*outreachdomain.FollowUpLog, error)
	listByRecipientFn func(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.FollowUpLog, error)
}

func (m *mockFollowUpLogRepo) ListByAccount(ctx context.Context, accountID string) ([]*outreachdomain.FollowUpLog, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockFollowUpLogRepo) ListByRecipient(ctx context.Context, accountID, recipientEmail string) ([]*outreachdomain.FollowUpLog, error) {
	if m.listByRecipientFn != nil {
		return m.listByRecipientFn(ctx, accountID, recipientEmail)
	}
	return nil, nil
}

type mockReplyLogRepo struct {
	listByAccountFn func(ctx context.Context, accountID string) ([]outreachdomain.ReplyRow, error)
}

func (m *mockReplyLogRepo) ListByAccount(ctx context.Context, accountID string) ([]outreachdomain.ReplyRow, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID)
	}
	return nil, nil
}

type mockContactRepo struct {
	findByEmailFn  func(ctx context.Context, email string) (*contactdomain.Contact, error)
	findByEmailsFn func(ctx context.Context, emails []string) (map[string]*contactdomain.Contact, error)
}

func (m *mockContactRepo) FindByEmail(ctx context.Context, email string) (*contactdomain.Contact, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockContactRepo) FindByEmails(ctx context.Context, emails []string) (map[string]*contactdomain.Contact, error) {
	if m.findByEmailsFn != nil {
		return m.findByEmailsFn(ctx, emails)
	}
	return map[string]*contactdomain.Contact{}, nil
}

type mockAccountRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*accountdomain.Account, error)
	updateTokensFn func(ctx context.Context, id, accessToken, refreshToken string) error
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &accountdomain.Account{ID: id, Email: "me@acme.io"}, nil
}

func (m *mockAccountRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error {
	if m.updateTokensFn != nil {
		return m.updateTokensFn(ctx, id, accessToken, refreshToken)
	}
	return nil
}

type mockGateway struct {
	fetchThreadFn func(ctx context.Context, accountID, contactEmail string) ([]*outreachdomain.RetrievedMessage, error)
	calls         int
}

func (m *mockGateway) FetchThread(ctx context.Context, accountID, contactEmail string) ([]*outreachdomain.RetrievedMessage, error) {
	m.calls++
	if m.fetchThreadFn != nil {
		return m.fetchThreadFn(ctx, accountID, contactEmail)
	}
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

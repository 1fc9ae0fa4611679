package gateway

import (
	"context"
	"fmt"
	"log/slog"

	accountdomain "outreach-backend/internal/account/domain"
	accountrepo "outreach-backend/internal/account/repository"
	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/pkg/imap"

	"golang.org/x/oauth2"
)

// GmailFetcher is the subset of the Gmail client used for thread retrieval
type GmailFetcher interface {
	FetchThread(ctx context.Context, accessToken, refreshToken, contactEmail string, onTokenRefresh accountdomain.TokenUpdateFunc) ([]*outreachdomain.RetrievedMessage, error)
}

// IMAPFetcher is the subset of the IMAP client used for thread retrieval
type IMAPFetcher interface {
	FetchThread(ctx context.Context, creds imap.Credentials, contactEmail string) ([]*outreachdomain.RetrievedMessage, error)
}

// accountGateway implements domain.MessageRetrievalGateway by routing each
// call to the provider the account is connected through.
type accountGateway struct {
	accountRepo accountrepo.AccountRepository
	gmail       GmailFetcher
	imap        IMAPFetcher
	logger      *slog.Logger
}

// NewAccountGateway creates the gateway. Either fetcher may be nil when the
// provider is not configured.
func NewAccountGateway(accountRepo accountrepo.AccountRepository, gmail GmailFetcher, imap IMAPFetcher, logger *slog.Logger) outreachdomain.MessageRetrievalGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountGateway{
		accountRepo: accountRepo,
		gmail:       gmail,
		imap:        imap,
		logger:      logger.With("component", "gateway"),
	}
}

func (g *accountGateway) FetchThread(ctx context.Context, accountID, contactEmail string) ([]*outreachdomain.RetrievedMessage, error) {
	account, err := g.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: account lookup: %v", outreachdomain.ErrSourceUnavailable, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s not found", outreachdomain.ErrSourceUnavailable, accountID)
	}

	var messages []*outreachdomain.RetrievedMessage
	switch account.Provider {
	case accountdomain.ProviderIMAP:
		if g.imap == nil {
			return nil, fmt.Errorf("%w: IMAP provider not configured", outreachdomain.ErrSourceUnavailable)
		}
		messages, err = g.imap.FetchThread(ctx, imap.Credentials{
			Server:   account.IMAPServer,
			Username: imapUsername(account),
			Password: account.IMAPPassword,
		}, contactEmail)
	default:
		if g.gmail == nil {
			return nil, fmt.Errorf("%w: Gmail provider not configured", outreachdomain.ErrSourceUnavailable)
		}
		messages, err = g.gmail.FetchThread(ctx, account.AccessToken, account.RefreshToken, contactEmail, g.tokenWriteBack(account.ID))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", outreachdomain.ErrSourceUnavailable, providerName(account), err)
	}
	return messages, nil
}

func (g *accountGateway) tokenWriteBack(accountID string) accountdomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		// The request context may already be gone once the refresh completes
		return g.accountRepo.UpdateTokens(context.Background(), accountID, token.AccessToken, token.RefreshToken)
	}
}

func imapUsername(account *accountdomain.Account) string {
	if account.IMAPUsername != "" {
		return account.IMAPUsername
	}
	return account.Email
}

func providerName(account *accountdomain.Account) string {
	if account.Provider == "" {
		return accountdomain.ProviderGoogle
	}
	return account.Provider
}

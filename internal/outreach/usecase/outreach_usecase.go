package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accountrepo "outreach-backend/internal/account/repository"
	contactrepo "outreach-backend/internal/contact/repository"
	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/internal/outreach/repository"
)

const (
	DefaultGraceWindow    = 24 * time.Hour
	DefaultGatewayTimeout = 8 * time.Second
)

// Options tunes the engine; zero values fall back to the defaults.
type Options struct {
	GraceWindow    time.Duration
	GatewayTimeout time.Duration
	Clock          func() time.Time
}

// outreachUsecase implements OutreachUsecase interface. It holds no derived
// state; the only cache is the reply field selection.
type outreachUsecase struct {
	sendLogRepo     repository.SendLogRepository
	followUpLogRepo repository.FollowUpLogRepository
	replyLogRepo    repository.ReplyLogRepository
	contactRepo     contactrepo.ContactRepository
	accountRepo     accountrepo.AccountRepository
	gateway         outreachdomain.MessageRetrievalGateway
	replyResolver   *ReplyFieldResolver
	graceWindow     time.Duration
	gatewayTimeout  time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

// NewOutreachUsecase creates a new instance of outreachUsecase
func NewOutreachUsecase(
	sendLogRepo repository.SendLogRepository,
	followUpLogRepo repository.FollowUpLogRepository,
	replyLogRepo repository.ReplyLogRepository,
	contactRepo contactrepo.ContactRepository,
	accountRepo accountrepo.AccountRepository,
	gateway outreachdomain.MessageRetrievalGateway,
	opts Options,
	logger *slog.Logger,
) OutreachUsecase {
	if opts.GraceWindow <= 0 {
		opts.GraceWindow = DefaultGraceWindow
	}
	if opts.GatewayTimeout <= 0 {
		opts.GatewayTimeout = DefaultGatewayTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &outreachUsecase{
		sendLogRepo:     sendLogRepo,
		followUpLogRepo: followUpLogRepo,
		replyLogRepo:    replyLogRepo,
		contactRepo:     contactRepo,
		accountRepo:     accountRepo,
		gateway:         gateway,
		replyResolver:   NewReplyFieldResolver(),
		graceWindow:     opts.GraceWindow,
		gatewayTimeout:  opts.GatewayTimeout,
		now:             opts.Clock,
		logger:          logger.With("component", "outreach"),
	}
}

// accountEmail returns the normalized sender address, or "" when unknown.
func (u *outreachUsecase) accountEmail(ctx context.Context, accountID string) string {
	if u.accountRepo == nil {
		return ""
	}
	account, err := u.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		u.logger.WarnContext(ctx, "account lookup failed, direction falls back to contact match",
			"account_id", accountID, "error", err)
		return ""
	}
	if account == nil {
		return ""
	}
	return NormalizeEmail(account.Email)
}

func validateAccount(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("%w: account id is required", outreachdomain.ErrInvalidArgument)
	}
	return nil
}

func validateContact(contactEmail string) error {
	if NormalizeEmail(contactEmail) == "" {
		return fmt.Errorf("%w: contact email is required", outreachdomain.ErrInvalidArgument)
	}
	return nil
}

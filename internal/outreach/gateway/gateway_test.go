package gateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	accountdomain "outreach-backend/internal/account/domain"
	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/internal/outreach/gateway"
	"outreach-backend/pkg/imap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/oauth2"
)

type mockAccountRepo struct {
	account      *accountdomain.Account
	err          error
	updatedID    string
	updatedToken string
}

func (m *mockAccountRepo) FindByID(_ context.Context, _ string) (*accountdomain.Account, error) {
	return m.account, m.err
}

func (m *mockAccountRepo) UpdateTokens(_ context.Context, id, accessToken, _ string) error {
	m.updatedID, m.updatedToken = id, accessToken
	return nil
}

type fakeGmail struct {
	fetchFn func(ctx context.Context, accessToken, refreshToken, contactEmail string, onTokenRefresh accountdomain.TokenUpdateFunc) ([]*outreachdomain.RetrievedMessage, error)
}

func (f *fakeGmail) FetchThread(ctx context.Context, accessToken, refreshToken, contactEmail string, onTokenRefresh accountdomain.TokenUpdateFunc) ([]*outreachdomain.RetrievedMessage, error) {
	return f.fetchFn(ctx, accessToken, refreshToken, contactEmail, onTokenRefresh)
}

type fakeIMAP struct {
	creds imap.Credentials
	msgs  []*outreachdomain.RetrievedMessage
	err   error
}

func (f *fakeIMAP) FetchThread(_ context.Context, creds imap.Credentials, _ string) ([]*outreachdomain.RetrievedMessage, error) {
	f.creds = creds
	return f.msgs, f.err
}

var _ = Describe("AccountGateway", func() {
	var (
		ctx      context.Context
		accounts *mockAccountRepo
		gm       *fakeGmail
		im       *fakeIMAP
		logger   *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		accounts = &mockAccountRepo{}
		gm = &fakeGmail{}
		im = &fakeIMAP{}
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("routes Google accounts to Gmail and writes refreshed tokens back", func() {
		accounts.account = &accountdomain.Account{ID: "acct-1", Provider: accountdomain.ProviderGoogle, AccessToken: "old", RefreshToken: "r"}
		gm.fetchFn = func(_ context.Context, access, refresh, contact string, onRefresh accountdomain.TokenUpdateFunc) ([]*outreachdomain.RetrievedMessage, error) {
			Expect(access).To(Equal("old"))
			Expect(refresh).To(Equal("r"))
			Expect(contact).To(Equal("a@x.com"))
			Expect(onRefresh(&oauth2.Token{AccessToken: "new"})).To(Succeed())
			return []*outreachdomain.RetrievedMessage{{MessageID: "m-1"}}, nil
		}

		g := gateway.NewAccountGateway(accounts, gm, im, logger)
		msgs, err := g.FetchThread(ctx, "acct-1", "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(accounts.updatedID).To(Equal("acct-1"))
		Expect(accounts.updatedToken).To(Equal("new"))
	})

	It("routes IMAP accounts with the login falling back to the account email", func() {
		accounts.account = &accountdomain.Account{ID: "acct-2", Email: "me@acme.io", Provider: accountdomain.ProviderIMAP, IMAPServer: "imap.acme.io:993", IMAPPassword: "pw"}
		im.msgs = []*outreachdomain.RetrievedMessage{{MessageID: "m-1"}, {MessageID: "m-2"}}

		g := gateway.NewAccountGateway(accounts, gm, im, logger)
		msgs, err := g.FetchThread(ctx, "acct-2", "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(im.creds).To(Equal(imap.Credentials{Server: "imap.acme.io:993", Username: "me@acme.io", Password: "pw"}))
	})

	It("wraps provider failures as source unavailable", func() {
		accounts.account = &accountdomain.Account{ID: "acct-2", Provider: accountdomain.ProviderIMAP}
		im.err = errors.New("login failed")

		g := gateway.NewAccountGateway(accounts, gm, im, logger)
		_, err := g.FetchThread(ctx, "acct-2", "a@x.com")
		Expect(errors.Is(err, outreachdomain.ErrSourceUnavailable)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("login failed"))
	})

	It("fails when the provider is not configured", func() {
		accounts.account = &accountdomain.Account{ID: "acct-1", Provider: accountdomain.ProviderGoogle}

		g := gateway.NewAccountGateway(accounts, nil, im, logger)
		_, err := g.FetchThread(ctx, "acct-1", "a@x.com")
		Expect(errors.Is(err, outreachdomain.ErrSourceUnavailable)).To(BeTrue())
	})

	It("fails for unknown accounts", func() {
		g := gateway.NewAccountGateway(accounts, gm, im, logger)
		_, err := g.FetchThread(ctx, "missing", "a@x.com")
		Expect(errors.Is(err, outreachdomain.ErrSourceUnavailable)).To(BeTrue())

		accounts.err = errors.New("db down")
		_, err = g.FetchThread(ctx, "acct-1", "a@x.com")
		Expect(errors.Is(err, outreachdomain.ErrSourceUnavailable)).To(BeTrue())
	})
})

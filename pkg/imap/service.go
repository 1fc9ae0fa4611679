package imap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sort"
	"strings"
	"time"

	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/pkg/htmltext"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Credentials identify one IMAP mailbox
type Credentials struct {
	Server   string // host:port
	Username string
	Password string
}

// Service fetches conversations from IMAP accounts. Each call opens its own
// connection so a slow server only affects the caller that hit it.
type Service struct {
	dialTimeout time.Duration
	logger      *slog.Logger
}

// sentFolderNames are tried when the server does not advertise \Sent
var sentFolderNames = []string{"Sent", "Sent Items", "Sent Messages", "[Gmail]/Sent Mail", "INBOX.Sent"}

func NewService(dialTimeout time.Duration, logger *slog.Logger) *Service {
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dialTimeout: dialTimeout,
		logger:      logger.With("component", "imap"),
	}
}

// FetchThread returns the messages exchanged with contactEmail from the inbox
// and the sent folder.
func (s *Service) FetchThread(ctx context.Context, creds Credentials, contactEmail string) ([]*outreachdomain.RetrievedMessage, error) {
	if creds.Server == "" || creds.Username == "" {
		return nil, errors.New("account has no IMAP credentials")
	}

	c, err := s.connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	// Unblock the session when the caller gives up
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Terminate()
		case <-stop:
		}
	}()

	mailboxes := []string{"INBOX"}
	if sent := s.findSentMailbox(c); sent != "" {
		mailboxes = append(mailboxes, sent)
	}

	var messages []*outreachdomain.RetrievedMessage
	for _, name := range mailboxes {
		found, err := s.searchMailbox(c, name, contactEmail)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("mailbox search failed", "mailbox", name, "error", err)
			continue
		}
		messages = append(messages, found...)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})
	return messages, nil
}

func (s *Service) connect(ctx context.Context, creds Credentials) (*client.Client, error) {
	timeout := s.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	dialer := &net.Dialer{Timeout: timeout}
	host, _, _ := net.SplitHostPort(creds.Server)
	conn, err := tls.DialWithDialer(dialer, "tcp", creds.Server, &tls.Config{ServerName: host})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create IMAP client: %w", err)
	}

	if err := c.Login(creds.Username, creds.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return c, nil
}

func (s *Service) findSentMailbox(c *client.Client) string {
	ch := make(chan *imap.MailboxInfo, 32)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", ch)
	}()

	var names []string
	special := ""
	for info := range ch {
		names = append(names, info.Name)
		for _, attr := range info.Attributes {
			if attr == imap.SentAttr && special == "" {
				special = info.Name
			}
		}
	}
	if err := <-done; err != nil {
		s.logger.Debug("failed to list mailboxes", "error", err)
		return ""
	}
	if special != "" {
		return special
	}
	return pickSentMailbox(names)
}

func pickSentMailbox(names []string) string {
	for _, candidate := range sentFolderNames {
		for _, name := range names {
			if strings.EqualFold(name, candidate) {
				return name
			}
		}
	}
	return ""
}

func (s *Service) searchMailbox(c *client.Client, mailbox, contactEmail string) ([]*outreachdomain.RetrievedMessage, error) {
	if _, err := c.Select(mailbox, true); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", mailbox, err)
	}

	uids, err := c.UidSearch(ContactCriteria(contactEmail))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, ch)
	}()

	var messages []*outreachdomain.RetrievedMessage
	for msg := range ch {
		retrieved := fromEnvelope(msg.Envelope)
		if retrieved == nil {
			continue
		}
		if body := msg.GetBody(section); body != nil {
			retrieved.Body = readBody(body)
		}
		messages = append(messages, retrieved)
	}

	if err := <-done; err != nil {
		return messages, fmt.Errorf("failed to fetch: %w", err)
	}
	return messages, nil
}

// ContactCriteria matches messages sent to or received from the address.
func ContactCriteria(contactEmail string) *imap.SearchCriteria {
	address := strings.ToLower(strings.TrimSpace(contactEmail))

	from := imap.NewSearchCriteria()
	from.Header.Add("From", address)
	to := imap.NewSearchCriteria()
	to.Header.Add("To", address)

	criteria := imap.NewSearchCriteria()
	criteria.Or = [][2]*imap.SearchCriteria{{from, to}}
	return criteria
}

func fromEnvelope(env *imap.Envelope) *outreachdomain.RetrievedMessage {
	if env == nil {
		return nil
	}

	threadID := env.InReplyTo
	if threadID == "" {
		threadID = env.MessageId
	}

	return &outreachdomain.RetrievedMessage{
		MessageID: env.MessageId,
		ThreadID:  threadID,
		From:      formatAddresses(env.From),
		To:        formatAddresses(env.To),
		Subject:   env.Subject,
		Date:      env.Date,
	}
}

func formatAddresses(list []*imap.Address) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		if a == nil {
			continue
		}
		if a.PersonalName != "" {
			parts = append(parts, fmt.Sprintf("%s <%s>", a.PersonalName, a.Address()))
		} else {
			parts = append(parts, a.Address())
		}
	}
	return strings.Join(parts, ", ")
}

// readBody prefers the text/plain part and falls back to HTML.
func readBody(r io.Reader) string {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}

	var plain, html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		if strings.HasPrefix(ct, "text/plain") && plain == "" {
			plain = string(body)
		} else if strings.HasPrefix(ct, "text/html") && html == "" {
			html = string(body)
		}
	}

	if plain != "" {
		return plain
	}
	return htmltext.ToText(html)
}

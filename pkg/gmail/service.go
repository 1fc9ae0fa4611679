package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	accountdomain "outreach-backend/internal/account/domain"
	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/pkg/htmltext"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = accountdomain.TokenUpdateFunc

type Service struct {
	clientID     string
	clientSecret string
	maxMessages  int64
	logger       *slog.Logger
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
	logger   *slog.Logger
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			s.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string, maxMessages int64, logger *slog.Logger) *Service {
	if maxMessages <= 0 || maxMessages > 500 {
		maxMessages = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		maxMessages:  maxMessages,
		logger:       logger.With("component", "gmail"),
	}
}

// GetGmailService creates Gmail service with user's access token
func (s *Service) GetGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
		logger:   s.logger,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return srv, nil
}

// FetchThread retrieves every message exchanged with contactEmail, in either
// direction, oldest first.
func (s *Service) FetchThread(ctx context.Context, accessToken, refreshToken, contactEmail string, onTokenRefresh TokenUpdateFunc) ([]*outreachdomain.RetrievedMessage, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, errors.New("account has no Gmail credentials")
	}

	srv, err := s.GetGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	user := "me"
	refs, err := s.listMessageRefs(ctx, srv, user, ThreadQuery(contactEmail))
	if err != nil {
		return nil, err
	}

	type messageResult struct {
		message *outreachdomain.RetrievedMessage
		err     error
	}

	resultChan := make(chan messageResult, len(refs))
	semaphore := make(chan struct{}, 10) // Max 10 concurrent requests

	for _, msg := range refs {
		go func(msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fullMsg, err := srv.Users.Messages.Get(user, msgID).Format("full").Context(ctx).Do()
			if err != nil {
				resultChan <- messageResult{nil, err}
				return
			}
			resultChan <- messageResult{convertGmailMessage(fullMsg), nil}
		}(msg.Id)
	}

	messages := make([]*outreachdomain.RetrievedMessage, 0, len(refs))
	for i := 0; i < len(refs); i++ {
		result := <-resultChan
		if result.err != nil {
			s.logger.Debug("skipping message that could not be fetched", "error", result.err)
			continue
		}
		if result.message != nil {
			messages = append(messages, result.message)
		}
	}

	// Parallel fetching returns messages in random order
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Date.Equal(messages[j].Date) {
			return messages[i].MessageID < messages[j].MessageID
		}
		return messages[i].Date.Before(messages[j].Date)
	})

	return messages, nil
}

// listMessageRefs follows result pages until the query is exhausted or
// maxMessages ids are collected.
func (s *Service) listMessageRefs(ctx context.Context, srv *gmail.Service, user, query string) ([]*gmail.Message, error) {
	var refs []*gmail.Message
	pageToken := ""
	for int64(len(refs)) < s.maxMessages {
		call := srv.Users.Messages.List(user).
			Q(query).
			MaxResults(s.maxMessages - int64(len(refs))).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list messages: %w", err)
		}
		refs = append(refs, resp.Messages...)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if int64(len(refs)) >= s.maxMessages {
		s.logger.Debug("thread truncated at message cap", "max_messages", s.maxMessages)
		refs = refs[:s.maxMessages]
	}
	return refs, nil
}

// ThreadQuery builds the Gmail search expression matching both directions.
func ThreadQuery(contactEmail string) string {
	address := strings.ToLower(strings.TrimSpace(contactEmail))
	return fmt.Sprintf("from:%s OR to:%s", address, address)
}

// Helper functions

func convertGmailMessage(msg *gmail.Message) *outreachdomain.RetrievedMessage {
	if msg == nil {
		return nil
	}

	var headers []*gmail.MessagePartHeader
	body := ""
	if msg.Payload != nil {
		headers = msg.Payload.Headers
		var isHTML bool
		body, isHTML = getEmailBody(msg.Payload)
		if isHTML {
			body = htmltext.ToText(body)
		}
	}

	var date time.Time
	if msg.InternalDate > 0 {
		date = time.UnixMilli(msg.InternalDate).UTC()
	}

	return &outreachdomain.RetrievedMessage{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		From:      getHeader(headers, "From"),
		To:        getHeader(headers, "To"),
		Subject:   getHeader(headers, "Subject"),
		Body:      body,
		Date:      date,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func getEmailBody(payload *gmail.MessagePart) (string, bool) {
	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := decodeBody(payload.Body.Data)
		if err == nil {
			return string(data), payload.MimeType == "text/html"
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := decodeBody(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			} else if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := decodeBody(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	// Plain text reads better in a conversation timeline
	if plainBody != "" {
		return plainBody, false
	}
	return htmlBody, htmlBody != ""
}

// Gmail returns base64url bodies, with or without padding
func decodeBody(data string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

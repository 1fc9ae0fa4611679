package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	outreachdomain "outreach-backend/internal/outreach/domain"

	"github.com/emersion/go-message/mail"
)

// NormalizeEmail produces the join key shared by every source.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeAddress extracts the bare address from header forms such as
// `"Jane Doe" <Jane@Example.com>` and normalizes it.
func NormalizeAddress(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(header); err == nil {
		return NormalizeEmail(addr.Address)
	}
	// Fall back to angle brackets for headers net/mail rejects
	if start := strings.LastIndex(header, "<"); start >= 0 {
		if end := strings.Index(header[start:], ">"); end > 0 {
			return NormalizeEmail(header[start+1 : start+end])
		}
	}
	return NormalizeEmail(header)
}

// timestampLayouts lists every format observed across log writer generations.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02",
}

// ParseTimestamp parses a raw log timestamp. Layouts without a zone are read
// as UTC; all-digit values are epoch milliseconds (or seconds when short).
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", outreachdomain.ErrInvalidTimestamp)
	}

	if isDigits(value) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			if len(value) <= 10 {
				return time.Unix(n, 0).UTC(), nil
			}
			return time.UnixMilli(n).UTC(), nil
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", outreachdomain.ErrInvalidTimestamp, value)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// CompositeKey is the identity of an event lacking a message id.
func CompositeKey(source outreachdomain.Source, recipient string, ts time.Time) string {
	return fmt.Sprintf("%s|%s|%d", source, NormalizeEmail(recipient), ts.UnixNano())
}

// DedupKey prefers the message id over the composite key.
func DedupKey(messageID string, source outreachdomain.Source, recipient string, ts time.Time) string {
	if id := strings.TrimSpace(messageID); id != "" {
		return "msg:" + id
	}
	return CompositeKey(source, recipient, ts)
}

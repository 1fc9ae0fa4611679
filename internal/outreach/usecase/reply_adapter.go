package usecase

import (
	"fmt"
	"strings"
	"sync"

	outreachdomain "outreach-backend/internal/outreach/domain"
)

// ReplyRecipientFields are the recipient column names used by successive
// reply log generations, highest priority first.
var ReplyRecipientFields = []string{"contact_email", "to", "recipient_email", "email"}

// ReplyFlagField is the column holding the replied flag.
const ReplyFlagField = "replied"

// ReplyFieldResolver picks the recipient field of an account's reply rows
// once and remembers it. It re-probes only when the remembered field stops
// producing data.
type ReplyFieldResolver struct {
	candidates []string
	mu         sync.RWMutex
	selected   map[string]string // accountID -> field
}

func NewReplyFieldResolver(candidates ...string) *ReplyFieldResolver {
	if len(candidates) == 0 {
		candidates = ReplyRecipientFields
	}
	return &ReplyFieldResolver{
		candidates: candidates,
		selected:   make(map[string]string),
	}
}

// RepliedSet returns the normalized addresses with a true replied flag. On
// ErrSchemaMismatch the set is empty.
func (r *ReplyFieldResolver) RepliedSet(accountID string, rows []outreachdomain.ReplyRow) (map[string]struct{}, error) {
	replied := make(map[string]struct{})
	if len(rows) == 0 {
		return replied, nil
	}

	field, err := r.resolveField(accountID, rows)
	if err != nil {
		return replied, err
	}

	for _, row := range rows {
		email := NormalizeEmail(stringValue(row[field]))
		if email == "" || !truthy(row[ReplyFlagField]) {
			continue
		}
		replied[email] = struct{}{}
	}
	return replied, nil
}

// SelectedField reports the field cached for an account, if any.
func (r *ReplyFieldResolver) SelectedField(accountID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	field, ok := r.selected[accountID]
	return field, ok
}

func (r *ReplyFieldResolver) resolveField(accountID string, rows []outreachdomain.ReplyRow) (string, error) {
	if field, ok := r.SelectedField(accountID); ok && yieldsData(rows, field) {
		return field, nil
	}

	for _, candidate := range r.candidates {
		if yieldsData(rows, candidate) {
			r.mu.Lock()
			r.selected[accountID] = candidate
			r.mu.Unlock()
			return candidate, nil
		}
	}

	r.mu.Lock()
	delete(r.selected, accountID)
	r.mu.Unlock()
	return "", fmt.Errorf("%w: none of %s resolved", outreachdomain.ErrSchemaMismatch, strings.Join(r.candidates, ", "))
}

func yieldsData(rows []outreachdomain.ReplyRow, field string) bool {
	for _, row := range rows {
		if NormalizeEmail(stringValue(row[field])) != "" {
			return true
		}
	}
	return false
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case *string:
		if val == nil {
			return ""
		}
		return *val
	default:
		return ""
	}
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case *bool:
		return val != nil && *val
	case string:
		return parseTruthy(val)
	case []byte:
		return parseTruthy(string(val))
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

func parseTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		return true
	default:
		return false
	}
}

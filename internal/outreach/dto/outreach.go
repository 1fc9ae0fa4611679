package dto

import (
	outreachdomain "outreach-backend/internal/outreach/domain"
)

type FollowUpQueueResponse struct {
	Candidates []*outreachdomain.ContactSummary `json:"candidates"`
	Total      int                              `json:"total"`
}

type ContactSummariesResponse struct {
	Contacts []*outreachdomain.ContactSummary `json:"contacts"`
	Total    int                              `json:"total"`
}

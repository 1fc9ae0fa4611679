package delivery

import (
	"errors"
	"net/http"
	"net/url"

	outreachdomain "outreach-backend/internal/outreach/domain"
	outreachdto "outreach-backend/internal/outreach/dto"
	"outreach-backend/internal/outreach/usecase"

	"github.com/gin-gonic/gin"
)

type OutreachHandler struct {
	outreachUsecase usecase.OutreachUsecase
}

func NewOutreachHandler(outreachUsecase usecase.OutreachUsecase) *OutreachHandler {
	return &OutreachHandler{
		outreachUsecase: outreachUsecase,
	}
}

// GET /api/accounts/:accountId/conversations/:contactEmail
func (h *OutreachHandler) GetConversation(c *gin.Context) {
	accountID := c.Param("accountId")
	contactEmail, ok := contactParam(c)
	if !ok {
		return
	}

	view, err := h.outreachUsecase.GetConversationView(c.Request.Context(), accountID, contactEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GET /api/accounts/:accountId/conversations/:contactEmail/stats
func (h *OutreachHandler) GetConversationStats(c *gin.Context) {
	accountID := c.Param("accountId")
	contactEmail, ok := contactParam(c)
	if !ok {
		return
	}

	stats, err := h.outreachUsecase.GetConversationStats(c.Request.Context(), accountID, contactEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GET /api/accounts/:accountId/followups
func (h *OutreachHandler) GetFollowUpQueue(c *gin.Context) {
	queue, err := h.outreachUsecase.GetFollowUpQueue(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outreachdto.FollowUpQueueResponse{
		Candidates: queue,
		Total:      len(queue),
	})
}

// GET /api/accounts/:accountId/contacts
func (h *OutreachHandler) GetContactSummaries(c *gin.Context) {
	summaries, err := h.outreachUsecase.GetContactSummaries(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outreachdto.ContactSummariesResponse{
		Contacts: summaries,
		Total:    len(summaries),
	})
}

func contactParam(c *gin.Context) (string, bool) {
	raw := c.Param("contactEmail")
	contactEmail, err := url.PathUnescape(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact email"})
		return "", false
	}
	return contactEmail, true
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, outreachdomain.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

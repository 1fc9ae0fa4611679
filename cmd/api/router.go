package api

import (
	"net/http"

	outreachDelivery "outreach-backend/internal/outreach/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, outreachHandler *outreachDelivery.OutreachHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		accounts := api.Group("/accounts/:accountId")
		{
			accounts.GET("/conversations/:contactEmail", outreachHandler.GetConversation)
			accounts.GET("/conversations/:contactEmail/stats", outreachHandler.GetConversationStats)
			accounts.GET("/followups", outreachHandler.GetFollowUpQueue)
			accounts.GET("/contacts", outreachHandler.GetContactSummaries)
		}
	}
}

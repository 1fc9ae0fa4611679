package api

import (
	"log/slog"

	outreachDelivery "outreach-backend/internal/outreach/delivery"
	outreachUsecase "outreach-backend/internal/outreach/usecase"
	"outreach-backend/pkg/config"
	"outreach-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	outreachHandler *outreachDelivery.OutreachHandler
	config          *config.Config
	logger          *slog.Logger
}

func NewHandler(outreachUc outreachUsecase.OutreachUsecase, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{
		outreachHandler: outreachDelivery.NewOutreachHandler(outreachUc),
		config:          cfg,
		logger:          logger.Component(log, "http"),
	}
}

// Engine builds the router with middleware and routes attached.
func (h *Handler) Engine() *gin.Engine {
	if h.config != nil && h.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(h.logger))
	r.Use(CORS())

	SetupRoutes(r, h.outreachHandler)
	return r
}

func (h *Handler) Start(addr string) error {
	h.logger.Info("server starting", "addr", addr)
	return h.Engine().Run(addr)
}

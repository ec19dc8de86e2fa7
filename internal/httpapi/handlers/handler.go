package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/catalog"
	"github.com/suPer8Hu/car-advisor/internal/chat"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/httpapi/middleware"
	"github.com/suPer8Hu/car-advisor/internal/valuation"
)

type Recommender interface {
	Recommend(budget float64, fuel, transmission string) (catalog.Record, error)
}

// PanelStore keeps the per-session "chat panel open" flag.
type PanelStore interface {
	PanelOpen(ctx context.Context, sessionID string) (bool, error)
	SetPanelOpen(ctx context.Context, sessionID string, open bool) error
	TogglePanel(ctx context.Context, sessionID string) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type TokenSigner interface {
	Sign(sessionID string) (string, error)
}

type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Handler struct {
	Valuation   *valuation.Service
	Recommender Recommender
	ChatSvc     *chat.Service
	Panel       PanelStore
	Tokens      TokenSigner
	// Jobs is nil when RabbitMQ is not configured; async chat then answers 503.
	Jobs JobPublisher
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func sessionIDFromContext(c *gin.Context) (string, bool) {
	return middleware.SessionID(c)
}

func requireSession(c *gin.Context) (string, bool) {
	sid, ok := sessionIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
	return sid, ok
}

// liveSession is requireSession plus a check that the session has not ended.
// Tokens stay valid after DELETE /sessions.
func (h *Handler) liveSession(c *gin.Context) (string, bool) {
	sid, ok := requireSession(c)
	if !ok {
		return "", false
	}
	if err := h.ChatSvc.ValidateSession(c.Request.Context(), sid); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "session not found")
			return "", false
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return "", false
	}
	return sid, true
}

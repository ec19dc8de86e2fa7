package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/chat"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/logging"
)

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.ChatSvc.CreateSession(c.Request.Context())
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("create session failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create session")
		return
	}
	token, err := h.Tokens.Sign(sess.SessionID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to sign token")
		return
	}
	common.OK(c, gin.H{
		"session_id": sess.SessionID,
		"token":      token,
	})
}

// EndSession drops the transcript and the panel flag.
func (h *Handler) EndSession(c *gin.Context) {
	sid, ok := requireSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.ChatSvc.EndSession(ctx, sid); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "session not found")
			return
		}
		logging.Ctx(ctx).Error().Err(err).Str("session_id", sid).Msg("end session failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if err := h.Panel.DeleteSession(ctx, sid); err != nil {
		// the key expires with the session ttl anyway
		logging.Ctx(ctx).Warn().Err(err).Str("session_id", sid).Msg("delete panel state failed")
	}
	common.OK(c, gin.H{"session_id": sid, "ended": true})
}

func (h *Handler) GetPanel(c *gin.Context) {
	sid, ok := h.liveSession(c)
	if !ok {
		return
	}
	open, err := h.Panel.PanelOpen(c.Request.Context(), sid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}
	common.OK(c, gin.H{"open": open})
}

type panelReq struct {
	// nil toggles
	Open *bool `json:"open"`
}

func (h *Handler) UpdatePanel(c *gin.Context) {
	sid, ok := h.liveSession(c)
	if !ok {
		return
	}
	var req panelReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ctx := c.Request.Context()
	var (
		open bool
		err  error
	)
	if req.Open == nil {
		open, err = h.Panel.TogglePanel(ctx, sid)
	} else {
		open = *req.Open
		err = h.Panel.SetPanelOpen(ctx, sid, open)
	}
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}
	common.OK(c, gin.H{"open": open})
}

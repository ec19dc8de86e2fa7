package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/chat"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"gorm.io/gorm"
)

type sendMessageReq struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	sid, okk := requireSession(c)
	if !okk {
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ctx := c.Request.Context()
	reply, err := h.ChatSvc.Handle(ctx, sid, req.Message)
	switch {
	case err == nil:
	case errors.Is(err, chat.ErrBudgetUnparseable), errors.Is(err, chat.ErrGeneration):
		// the apology is the reply
		logging.Ctx(ctx).Info().Err(err).Str("session_id", sid).Msg("chat answered with apology")
	case errors.Is(err, chat.ErrSessionNotFound):
		common.Fail(c, http.StatusNotFound, 40401, "session not found")
		return
	default:
		logging.Ctx(ctx).Error().Err(err).Str("session_id", sid).Msg("chat message failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{
		"session_id": sid,
		"reply":      reply,
	})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	sid, okk := h.liveSession(c)
	if !okk {
		return
	}
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.Query("limit"))
	var afterID uint64
	if s := c.Query("after_id"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			afterID = n
		}
	}

	msgs, err := h.ChatSvc.ListMessages(ctx, sid, limit, afterID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list messages")
		return
	}

	nextAfterID := afterID
	if len(msgs) > 0 {
		nextAfterID = msgs[len(msgs)-1].ID
	}

	common.OK(c, gin.H{
		"messages":      msgs,
		"next_after_id": nextAfterID,
	})
}

func (h *Handler) SendChatMessageAsync(c *gin.Context) {
	sid, okk := requireSession(c)
	if !okk {
		return
	}
	if h.Jobs == nil {
		common.Fail(c, http.StatusServiceUnavailable, 50300, "async chat disabled")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	// read idempotency key
	idempoKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(idempoKey) > 128 {
		common.Fail(c, http.StatusBadRequest, 10003, "idempotency key too long")
		return
	}
	var idempoKeyPtr *string
	if idempoKey != "" {
		idempoKeyPtr = &idempoKey
	}

	ctx := c.Request.Context()
	job, created, err := h.ChatSvc.EnqueueJob(ctx, sid, req.Message, idempoKeyPtr)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "session not found")
			return
		}
		logging.Ctx(ctx).Error().Err(err).Str("session_id", sid).Msg("create chat job failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	// Enqueue only when a new job was created
	if created {
		if err := h.Jobs.PublishJob(ctx, job.ID); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("job_id", job.ID).Msg("publish chat job failed")
			common.Fail(c, http.StatusInternalServerError, 50002, "enqueue failed")
			return
		}
	}

	common.OK(c, gin.H{"job_id": job.ID})
}

func (h *Handler) GetChatJob(c *gin.Context) {
	sid, okk := requireSession(c)
	if !okk {
		return
	}
	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.ChatSvc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if j.SessionID != sid {
		// hide existence
		common.Fail(c, http.StatusNotFound, 40402, "job not found")
		return
	}

	common.OK(c, gin.H{
		"job": gin.H{
			"id":                j.ID,
			"session_id":        j.SessionID,
			"status":            j.Status,
			"result_message_id": j.ResultMessageID,
			"error":             j.Error,
			"created_at":        j.CreatedAt,
			"updated_at":        j.UpdatedAt,
		},
	})
}

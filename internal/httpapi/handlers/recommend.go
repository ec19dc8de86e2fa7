package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/catalog"
	"github.com/suPer8Hu/car-advisor/internal/common"
)

type recommendReq struct {
	Budget       *float64 `json:"budget" binding:"required"`
	FuelType     string   `json:"fuel_type" binding:"required"`
	Transmission string   `json:"transmission" binding:"required"`
}

func (h *Handler) Recommend(c *gin.Context) {
	var req recommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "budget, fuel_type and transmission required")
		return
	}

	rec, err := h.Recommender.Recommend(*req.Budget, req.FuelType, req.Transmission)
	if errors.Is(err, catalog.ErrNoMatch) {
		common.OK(c, gin.H{
			"matched": false,
			"text":    catalog.NoMatchMessage,
		})
		return
	}
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{
		"matched": true,
		"car":     rec,
		"text":    rec.Describe(),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"github.com/suPer8Hu/car-advisor/internal/valuation"
)

func (h *Handler) Options(c *gin.Context) {
	common.OK(c, valuation.Options())
}

func (h *Handler) CreateValuation(c *gin.Context) {
	var req valuation.CarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	v, err := h.Valuation.Estimate(c.Request.Context(), req)
	if err != nil {
		var predErr *valuation.PredictionError
		switch {
		case errors.Is(err, valuation.ErrUnknownCategoryValue):
			common.Fail(c, http.StatusBadRequest, 10002, valuation.ErrorText(err))
		case errors.As(err, &predErr):
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("prediction failed")
			common.Fail(c, http.StatusUnprocessableEntity, 42201, valuation.ErrorText(err))
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("valuation failed")
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	common.OK(c, gin.H{
		"text":     v.Text,
		"amount":   v.Amount,
		"features": v.Features,
	})
}

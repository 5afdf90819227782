package api

import (
	"errors"
	"net/http"

	"couponkeeper/internal/usecase"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	expiryUseCase usecase.ExpiryUseCase
}

func NewJobHandler(expiryUseCase usecase.ExpiryUseCase) *JobHandler {
	return &JobHandler{
		expiryUseCase: expiryUseCase,
	}
}

// @Summary Run daily expiry sweep
// @Description Expire overdue coupons and send expiry digest emails
// @Tags jobs
// @Produce json
// @Param X-Job-Secret header string true "Shared job secret"
// @Success 200 {object} usecase.SweepResult
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /internal/jobs/daily-expiry [post]
func (h *JobHandler) RunDailyExpiry(c *gin.Context) {
	result, err := h.expiryUseCase.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSweepAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Sweep is already running",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

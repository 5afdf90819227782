package api

import (
	"errors"
	"net/http"

	reqdto "couponkeeper/internal/handler/dto/request"
	resdto "couponkeeper/internal/handler/dto/response"
	"couponkeeper/internal/handler/middleware"
	"couponkeeper/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

// @Summary Get notification preference
// @Description Get the current user's expiry notification settings
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.PreferenceResponse
// @Router /me/notification-preferences [get]
func (h *NotificationHandler) GetPreference(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	pref, err := h.notificationUseCase.GetPreference(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPreferenceRM(pref))
}

// @Summary Update notification preference
// @Description Upsert the current user's expiry notification settings
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdatePreferenceRequest true "Preference"
// @Success 200 {object} resdto.PreferenceResponse
// @Failure 422 {object} map[string]string
// @Router /me/notification-preferences [put]
func (h *NotificationHandler) UpdatePreference(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	pref, err := h.notificationUseCase.UpdatePreference(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTimezone) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid timezone",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPreferenceRM(pref))
}

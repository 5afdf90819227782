package api

import (
	"net/http"

	resdto "couponkeeper/internal/handler/dto/response"
	"couponkeeper/internal/handler/middleware"
	"couponkeeper/internal/usecase"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupUseCase usecase.GroupUseCase
}

func NewGroupHandler(groupUseCase usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{
		groupUseCase: groupUseCase,
	}
}

// @Summary List my groups
// @Description List groups the current user actively belongs to
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.GroupResponse
// @Router /groups [get]
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	groups, err := h.groupUseCase.ListMyGroups(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.GroupResponse, len(groups))
	for i, rm := range groups {
		response[i] = resdto.FromGroupRM(rm)
	}
	c.JSON(http.StatusOK, response)
}

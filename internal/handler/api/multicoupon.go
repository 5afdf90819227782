package api

import (
	"errors"
	"net/http"

	reqdto "couponkeeper/internal/handler/dto/request"
	resdto "couponkeeper/internal/handler/dto/response"
	"couponkeeper/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MultiCouponHandler struct {
	multiCouponUseCase usecase.MultiCouponUseCase
}

func NewMultiCouponHandler(multiCouponUseCase usecase.MultiCouponUseCase) *MultiCouponHandler {
	return &MultiCouponHandler{
		multiCouponUseCase: multiCouponUseCase,
	}
}

// @Summary List active multi-coupon names
// @Description Lookup of known program names for coupon entry
// @Tags multi-coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /multi-coupons [get]
func (h *MultiCouponHandler) ListActiveNames(c *gin.Context) {
	names, err := h.multiCouponUseCase.ListActiveNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// @Summary Create multi-coupon definition
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateDefinitionRequest true "Definition"
// @Success 201 {object} resdto.DefinitionResponse
// @Failure 409 {object} map[string]string
// @Router /admin/multi-coupon-definitions [post]
func (h *MultiCouponHandler) CreateDefinition(c *gin.Context) {
	var req reqdto.CreateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.multiCouponUseCase.CreateDefinition(c.Request.Context(), req)
	if err != nil {
		h.respondDefinitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromDefinitionRM(rm))
}

// @Summary List multi-coupon definitions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.DefinitionResponse
// @Router /admin/multi-coupon-definitions [get]
func (h *MultiCouponHandler) ListDefinitions(c *gin.Context) {
	definitions, err := h.multiCouponUseCase.ListDefinitions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.DefinitionResponse, len(definitions))
	for i, rm := range definitions {
		response[i] = resdto.FromDefinitionRM(rm)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get multi-coupon definition
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Definition ID"
// @Success 200 {object} resdto.DefinitionResponse
// @Failure 404 {object} map[string]string
// @Router /admin/multi-coupon-definitions/{id} [get]
func (h *MultiCouponHandler) GetDefinition(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	rm, err := h.multiCouponUseCase.GetDefinition(c.Request.Context(), id)
	if err != nil {
		h.respondDefinitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDefinitionRM(rm))
}

// @Summary Update multi-coupon definition
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Definition ID"
// @Param request body reqdto.UpdateDefinitionRequest true "Definition"
// @Success 200 {object} resdto.DefinitionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/multi-coupon-definitions/{id} [put]
func (h *MultiCouponHandler) UpdateDefinition(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.multiCouponUseCase.UpdateDefinition(c.Request.Context(), id, req)
	if err != nil {
		h.respondDefinitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDefinitionRM(rm))
}

// @Summary Delete multi-coupon definition
// @Description Remove a definition; coupons already resolved keep their snapshot
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Definition ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /admin/multi-coupon-definitions/{id} [delete]
func (h *MultiCouponHandler) DeleteDefinition(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	if err := h.multiCouponUseCase.DeleteDefinition(c.Request.Context(), id); err != nil {
		h.respondDefinitionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Resolve unmapped coupons
// @Description Map UNMAPPED coupons matching this definition's name and close their events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Definition ID"
// @Success 200 {object} resdto.ResolveUnmappedResponse
// @Failure 404 {object} map[string]string
// @Router /admin/multi-coupon-definitions/{id}/resolve-unmapped [post]
func (h *MultiCouponHandler) ResolveUnmapped(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	resolved, err := h.multiCouponUseCase.ResolveUnmapped(c.Request.Context(), id)
	if err != nil {
		h.respondDefinitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ResolveUnmappedResponse{Resolved: resolved})
}

// @Summary List unmapped events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "open | handled | ignored"
// @Success 200 {array} resdto.UnmappedEventResponse
// @Router /admin/unmapped-events [get]
func (h *MultiCouponHandler) ListEvents(c *gin.Context) {
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	events, err := h.multiCouponUseCase.ListEvents(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.UnmappedEventResponse, len(events))
	for i, rm := range events {
		response[i] = resdto.FromUnmappedEventRM(rm)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Triage unmapped event
// @Description Move the event between open, handled and ignored
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.UpdateEventRequest true "Triage change"
// @Success 200 {object} resdto.UnmappedEventResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/unmapped-events/{id} [patch]
func (h *MultiCouponHandler) UpdateEvent(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.multiCouponUseCase.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unmapped event not found",
			})
		case errors.Is(err, usecase.ErrDomainValidationFailed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Transition not allowed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromUnmappedEventRM(rm))
}

func (h *MultiCouponHandler) respondDefinitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrDefinitionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Definition not found",
		})
	case errors.Is(err, usecase.ErrDuplicateDefinitionName):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A definition with this name already exists",
		})
	case errors.Is(err, usecase.ErrDomainValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parsePathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

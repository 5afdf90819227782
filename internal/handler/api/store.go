package api

import (
	"errors"
	"net/http"

	reqdto "couponkeeper/internal/handler/dto/request"
	resdto "couponkeeper/internal/handler/dto/response"
	"couponkeeper/internal/usecase"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeUseCase usecase.StoreUseCase
}

func NewStoreHandler(storeUseCase usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{
		storeUseCase: storeUseCase,
	}
}

// @Summary List stores
// @Description Lookup of active stores for coupon entry
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.StoreResponse
// @Router /stores [get]
func (h *StoreHandler) ListActiveStores(c *gin.Context) {
	h.list(c, true)
}

// @Summary List all stores
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.StoreResponse
// @Router /admin/stores [get]
func (h *StoreHandler) ListAllStores(c *gin.Context) {
	h.list(c, false)
}

func (h *StoreHandler) list(c *gin.Context, activeOnly bool) {
	stores, err := h.storeUseCase.ListStores(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.StoreResponse, len(stores))
	for i, rm := range stores {
		response[i] = resdto.FromStoreRM(rm)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Create store
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateStoreRequest true "Store"
// @Success 201 {object} resdto.StoreResponse
// @Failure 409 {object} map[string]string
// @Router /admin/stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req reqdto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.storeUseCase.CreateStore(c.Request.Context(), req)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromStoreRM(rm))
}

// @Summary Update store
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Param request body reqdto.UpdateStoreRequest true "Store"
// @Success 200 {object} resdto.StoreResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/stores/{id} [put]
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.storeUseCase.UpdateStore(c.Request.Context(), id, req)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromStoreRM(rm))
}

// @Summary Delete store
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Store ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/stores/{id} [delete]
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	if err := h.storeUseCase.DeleteStore(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StoreHandler) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Store not found",
		})
	case errors.Is(err, usecase.ErrDuplicateStoreName):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A store with this name already exists",
		})
	case errors.Is(err, usecase.ErrStoreInUse):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Store is referenced by coupons",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

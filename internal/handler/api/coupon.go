package api

import (
	"errors"
	"net/http"
	"strconv"

	"couponkeeper/internal/domain/coupon"
	reqdto "couponkeeper/internal/handler/dto/request"
	resdto "couponkeeper/internal/handler/dto/response"
	"couponkeeper/internal/handler/middleware"
	"couponkeeper/internal/usecase"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponUseCase usecase.CouponUseCase
}

func NewCouponHandler(couponUseCase usecase.CouponUseCase) *CouponHandler {
	return &CouponHandler{
		couponUseCase: couponUseCase,
	}
}

// @Summary Create coupon
// @Description Create a SINGLE or MULTI coupon in a group
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param request body reqdto.CreateCouponRequest true "Coupon request"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /groups/{groupId}/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}

	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.couponUseCase.CreateCoupon(c.Request.Context(), req, groupID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCouponRM(rm))
}

// @Summary Get coupon
// @Description Get a coupon by ID, with its images
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	rm, err := h.couponUseCase.GetCoupon(c.Request.Context(), groupID, couponID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponRM(rm))
}

// @Summary List coupons
// @Description List a group's coupons with filters and sorting
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param storeId query string false "Filter by store"
// @Param status query string false "Filter by status"
// @Param mappingStatus query string false "Filter by mapping status"
// @Param expiringInDays query int false "Only coupons expiring within N days"
// @Param search query string false "Title/program name search"
// @Param sort query string false "expiryDate | remainingAmount | createdAt"
// @Param order query string false "asc | desc"
// @Success 200 {array} resdto.CouponResponse
// @Failure 403 {object} map[string]string
// @Router /groups/{groupId}/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}

	filters, err := parseListFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	coupons, err := h.couponUseCase.ListCoupons(c.Request.Context(), groupID, userID, filters)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	response := make([]*resdto.CouponResponse, len(coupons))
	for i, rm := range coupons {
		response[i] = resdto.FromCouponRM(rm)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Update coupon
// @Description Edit title, expiry date, total amount or notes
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateCouponRequest true "Fields to change"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id} [patch]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.couponUseCase.UpdateCoupon(c.Request.Context(), req, groupID, couponID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponRM(rm))
}

// @Summary Delete coupon
// @Tags coupons
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.couponUseCase.DeleteCoupon(c.Request.Context(), groupID, couponID, userID); err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update coupon usage
// @Description Apply an ADD or SET usage change to the coupon balance
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateUsageRequest true "Usage change"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id}/usage [post]
func (h *CouponHandler) UpdateUsage(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.couponUseCase.UpdateUsage(c.Request.Context(), req, groupID, couponID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponRM(rm))
}

// @Summary Cancel coupon
// @Description Cancel a coupon; cancellation is terminal. Group admin only.
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id}/cancel [post]
func (h *CouponHandler) CancelCoupon(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	rm, err := h.couponUseCase.CancelCoupon(c.Request.Context(), groupID, couponID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponRM(rm))
}

// @Summary Add coupon image
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Param request body reqdto.AddImageRequest true "Image"
// @Success 201 {object} resdto.ImageResponse
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id}/images [post]
func (h *CouponHandler) AddImage(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.couponUseCase.AddImage(c.Request.Context(), req, groupID, couponID, userID)
	if err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromImageRM(rm))
}

// @Summary Delete coupon image
// @Tags coupons
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Param imageId path string true "Image ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id}/images/{imageId} [delete]
func (h *CouponHandler) DeleteImage(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.pathID(c, "imageId")
	if !ok {
		return
	}

	if err := h.couponUseCase.DeleteImage(c.Request.Context(), groupID, couponID, imageID, userID); err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set primary coupon image
// @Tags coupons
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param id path string true "Coupon ID"
// @Param imageId path string true "Image ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /groups/{groupId}/coupons/{id}/images/{imageId}/primary [post]
func (h *CouponHandler) SetPrimaryImage(c *gin.Context) {
	userID, groupID, ok := h.callerAndGroup(c)
	if !ok {
		return
	}
	couponID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.pathID(c, "imageId")
	if !ok {
		return
	}

	if err := h.couponUseCase.SetPrimaryImage(c.Request.Context(), groupID, couponID, imageID, userID); err != nil {
		h.respondCouponError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CouponHandler) callerAndGroup(c *gin.Context) (userID, groupID uuid.UUID, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, uuid.Nil, false
	}

	groupID, valid := h.pathID(c, "groupId")
	if !valid {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, groupID, true
}

func (h *CouponHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parseListFilters(c *gin.Context) (readmodel.CouponListFilters, error) {
	filters := readmodel.CouponListFilters{
		Sort:  c.DefaultQuery("sort", "expiryDate"),
		Order: c.DefaultQuery("order", "asc"),
	}

	if s := c.Query("storeId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filters, errors.New("invalid storeId format")
		}
		filters.StoreID = &id
	}
	if s := c.Query("status"); s != "" {
		filters.Status = &s
	}
	if s := c.Query("mappingStatus"); s != "" {
		filters.MappingStatus = &s
	}
	if s := c.Query("expiringInDays"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 0 {
			return filters, errors.New("invalid expiringInDays value")
		}
		filters.ExpiringInDays = &days
	}
	if s := c.Query("search"); s != "" {
		filters.Search = &s
	}
	return filters, nil
}

func (h *CouponHandler) respondCouponError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotGroupMember), errors.Is(err, usecase.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions for this group",
		})
	case errors.Is(err, usecase.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, usecase.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Store not found",
		})
	case errors.Is(err, usecase.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon image not found",
		})
	case errors.Is(err, usecase.ErrUsageConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Coupon was modified concurrently, reload and retry",
		})
	case errors.Is(err, coupon.ErrUsageExceedsTotal), errors.Is(err, coupon.ErrTotalBelowUsed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Amount conflicts with the coupon balance",
		})
	case errors.Is(err, coupon.ErrNegativeAmount):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Amount cannot be negative",
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

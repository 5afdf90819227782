//go:build unit

package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/domain/user"
	"couponkeeper/internal/handler/api"
	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/usecase"
	"couponkeeper/internal/usecase/readmodel"
	"couponkeeper/tests/common/builder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCouponUseCase struct {
	mock.Mock
}

func (m *MockCouponUseCase) CreateCoupon(ctx context.Context, req reqdto.CreateCouponRequest, groupID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, req, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) GetCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, groupID, couponID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) ListCoupons(ctx context.Context, groupID, userID uuid.UUID, filters readmodel.CouponListFilters) ([]*readmodel.CouponRM, error) {
	args := m.Called(ctx, groupID, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) UpdateUsage(ctx context.Context, req reqdto.UpdateUsageRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, req, groupID, couponID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) UpdateCoupon(ctx context.Context, req reqdto.UpdateCouponRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, req, groupID, couponID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) CancelCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, groupID, couponID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponUseCase) DeleteCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, couponID, userID)
	return args.Error(0)
}

func (m *MockCouponUseCase) AddImage(ctx context.Context, req reqdto.AddImageRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponImageRM, error) {
	args := m.Called(ctx, req, groupID, couponID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponImageRM), args.Error(1)
}

func (m *MockCouponUseCase) DeleteImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, couponID, imageID, userID)
	return args.Error(0)
}

func (m *MockCouponUseCase) SetPrimaryImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, couponID, imageID, userID)
	return args.Error(0)
}

type CouponHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockUseCase *MockCouponUseCase
	handler     *api.CouponHandler
	userID      uuid.UUID
	groupID     uuid.UUID
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockUseCase = new(MockCouponUseCase)
	s.handler = api.NewCouponHandler(s.mockUseCase)
	s.userID = uuid.New()
	s.groupID = uuid.New()

	s.router = gin.New()
	authed := s.router.Group("", func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("app_role", user.AppRoleMember)
	})
	coupons := authed.Group("/groups/:groupId/coupons")
	coupons.POST("", s.handler.CreateCoupon)
	coupons.GET("", s.handler.ListCoupons)
	coupons.GET("/:id", s.handler.GetCoupon)
	coupons.PATCH("/:id", s.handler.UpdateCoupon)
	coupons.POST("/:id/usage", s.handler.UpdateUsage)
	coupons.POST("/:id/cancel", s.handler.CancelCoupon)
	coupons.DELETE("/:id", s.handler.DeleteCoupon)
}

func (s *CouponHandlerTestSuite) TestCreateCoupon() {
	s.Run("created coupon returns 201", func() {
		s.SetupTest()
		rm := builder.NewCouponBuilder().BuildRM()
		s.mockUseCase.On("CreateCoupon", mock.Anything, mock.Anything, s.groupID, s.userID).
			Return(rm, nil)

		body := `{"type":"SINGLE","title":"Coffee voucher","storeId":"` + uuid.NewString() + `",` +
			`"expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":10000}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), "Coffee voucher")
	})

	s.Run("unknown store returns 404", func() {
		s.SetupTest()
		s.mockUseCase.On("CreateCoupon", mock.Anything, mock.Anything, s.groupID, s.userID).
			Return(nil, usecase.ErrStoreNotFound)

		body := `{"type":"SINGLE","title":"Coffee voucher","storeId":"` + uuid.NewString() + `",` +
			`"expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":10000}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("non-member returns 403", func() {
		s.SetupTest()
		s.mockUseCase.On("CreateCoupon", mock.Anything, mock.Anything, s.groupID, s.userID).
			Return(nil, usecase.ErrNotGroupMember)

		body := `{"type":"MULTI","title":"Gift card","multiCouponName":"Mall Card",` +
			`"expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":10000}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("invalid type is rejected by binding", func() {
		s.SetupTest()

		body := `{"type":"DOUBLE","title":"x","expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":10000}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "CreateCoupon")
	})

	s.Run("zero total passes binding", func() {
		s.SetupTest()
		rm := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.TotalCents = 0
		}).BuildRM()
		s.mockUseCase.On("CreateCoupon", mock.Anything,
			mock.MatchedBy(func(req reqdto.CreateCouponRequest) bool {
				return req.TotalAmountCents != nil && *req.TotalAmountCents == 0
			}), s.groupID, s.userID).Return(rm, nil)

		body := `{"type":"SINGLE","title":"Empty voucher","storeId":"` + uuid.NewString() + `",` +
			`"expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":0}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusCreated, w.Code)
	})

	s.Run("negative total is rejected by binding", func() {
		s.SetupTest()

		body := `{"type":"SINGLE","title":"x","storeId":"` + uuid.NewString() + `",` +
			`"expiryDate":"2026-12-31T00:00:00Z","totalAmountCents":-5}`
		w := s.do(http.MethodPost, s.couponsPath(), body)

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "CreateCoupon")
	})
}

func (s *CouponHandlerTestSuite) TestUpdateUsage() {
	couponID := uuid.New()

	s.Run("usage conflict returns 409", func() {
		s.SetupTest()
		s.mockUseCase.On("UpdateUsage", mock.Anything, mock.Anything, s.groupID, couponID, s.userID).
			Return(nil, usecase.ErrUsageConflict)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"ADD","amountCents":500}`)

		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("exceeding the balance returns 409", func() {
		s.SetupTest()
		s.mockUseCase.On("UpdateUsage", mock.Anything, mock.Anything, s.groupID, couponID, s.userID).
			Return(nil, coupon.ErrUsageExceedsTotal)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"ADD","amountCents":500000}`)

		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("negative amount returns 422", func() {
		s.SetupTest()
		s.mockUseCase.On("UpdateUsage", mock.Anything, mock.Anything, s.groupID, couponID, s.userID).
			Return(nil, coupon.ErrNegativeAmount)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"SET","amountCents":-1}`)

		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("unknown mode is rejected by binding", func() {
		s.SetupTest()

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"REMOVE","amountCents":500}`)

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "UpdateUsage")
	})

	s.Run("missing amount is rejected by binding", func() {
		s.SetupTest()

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"SET"}`)

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "UpdateUsage")
	})

	s.Run("SET with zero amount passes binding and resets the balance", func() {
		s.SetupTest()
		rm := builder.NewCouponBuilder().BuildRM()
		s.mockUseCase.On("UpdateUsage", mock.Anything,
			builder.UsageRequest("SET", 0),
			s.groupID, couponID, s.userID).Return(rm, nil)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"SET","amountCents":0}`)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), "ACTIVE")
	})

	s.Run("successful usage update returns the new balance", func() {
		s.SetupTest()
		rm := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 500
			b.Status = coupon.StatusPartiallyUsed
		}).BuildRM()
		s.mockUseCase.On("UpdateUsage", mock.Anything,
			builder.UsageRequest("ADD", 500),
			s.groupID, couponID, s.userID).Return(rm, nil)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/usage",
			`{"mode":"ADD","amountCents":500}`)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), "PARTIALLY_USED")
	})
}

func (s *CouponHandlerTestSuite) TestGetCoupon() {
	s.Run("missing coupon returns 404", func() {
		s.SetupTest()
		couponID := uuid.New()
		s.mockUseCase.On("GetCoupon", mock.Anything, s.groupID, couponID, s.userID).
			Return(nil, usecase.ErrCouponNotFound)

		w := s.do(http.MethodGet, s.couponsPath()+"/"+couponID.String(), "")

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("malformed coupon id returns 400", func() {
		s.SetupTest()

		w := s.do(http.MethodGet, s.couponsPath()+"/not-a-uuid", "")

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "GetCoupon")
	})
}

func (s *CouponHandlerTestSuite) TestListCoupons() {
	s.Run("filters are passed through", func() {
		s.SetupTest()
		storeID := uuid.New()
		s.mockUseCase.On("ListCoupons", mock.Anything, s.groupID, s.userID,
			mock.MatchedBy(func(f readmodel.CouponListFilters) bool {
				return f.StoreID != nil && *f.StoreID == storeID &&
					f.Status != nil && *f.Status == "ACTIVE" &&
					f.Sort == "remainingAmount" && f.Order == "desc"
			})).Return([]*readmodel.CouponRM{}, nil)

		path := fmt.Sprintf("%s?storeId=%s&status=ACTIVE&sort=remainingAmount&order=desc",
			s.couponsPath(), storeID)
		w := s.do(http.MethodGet, path, "")

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("invalid expiringInDays returns 400", func() {
		s.SetupTest()

		w := s.do(http.MethodGet, s.couponsPath()+"?expiringInDays=soon", "")

		s.Equal(http.StatusBadRequest, w.Code)
		s.mockUseCase.AssertNotCalled(s.T(), "ListCoupons")
	})
}

func (s *CouponHandlerTestSuite) TestCancelCoupon() {
	s.Run("editor without admin role returns 403", func() {
		s.SetupTest()
		couponID := uuid.New()
		s.mockUseCase.On("CancelCoupon", mock.Anything, s.groupID, couponID, s.userID).
			Return(nil, usecase.ErrPermissionDenied)

		w := s.do(http.MethodPost, s.couponsPath()+"/"+couponID.String()+"/cancel", "")

		s.Equal(http.StatusForbidden, w.Code)
	})
}

func (s *CouponHandlerTestSuite) TestDeleteCoupon() {
	s.Run("delete returns 204", func() {
		s.SetupTest()
		couponID := uuid.New()
		s.mockUseCase.On("DeleteCoupon", mock.Anything, s.groupID, couponID, s.userID).Return(nil)

		w := s.do(http.MethodDelete, s.couponsPath()+"/"+couponID.String(), "")

		s.Equal(http.StatusNoContent, w.Code)
	})
}

func (s *CouponHandlerTestSuite) couponsPath() string {
	return "/groups/" + s.groupID.String() + "/coupons"
}

func (s *CouponHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestCouponHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

//go:build e2e

package multicoupon_test

import (
	"fmt"
	"net/http"
	"testing"

	"couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/handler/dto/response"
	"couponkeeper/tests/common/authtest"
	"couponkeeper/tests/common/builder"
	"couponkeeper/tests/common/dbtest"
	"couponkeeper/tests/common/httptest"
	"couponkeeper/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	definitionsURL = "/api/admin/multi-coupon-definitions"
	eventsURL      = "/api/admin/unmapped-events"
)

type MultiCouponSuite struct {
	e2e.SharedSuite
}

func TestMultiCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MultiCouponSuite))
}

// =============================================================================
// TestDefinitionAdmin - definition catalog CRUD, super admin only
// =============================================================================

func (s *MultiCouponSuite) TestDefinitionAdmin() {
	s.Run("Normal case: super admin manages definitions", func() {
		t := s.T()

		storeA := dbtest.CreateTestStore(t, s.DB, "Cafe Aroma")
		storeB := dbtest.CreateTestStore(t, s.DB, "Super Pharm")
		token := authtest.LoginUser(t, s.Router, "seed-admin@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, definitionsURL,
			request.CreateDefinitionRequest{Name: "Dream Card", StoreIDs: []uuid.UUID{storeA, storeB}}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.DefinitionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "Dream Card", created.Name)
		require.ElementsMatch(t, []uuid.UUID{storeA, storeB}, created.StoreIDs)
		require.True(t, created.IsActive)

		// Duplicate name, case-insensitive
		dw := httptest.PerformRequest(t, s.Router, http.MethodPost, definitionsURL,
			request.CreateDefinitionRequest{Name: "dream card", StoreIDs: []uuid.UUID{storeA}}, token)
		require.Equal(t, http.StatusConflict, dw.Code, dw.Body.String())

		// Update replaces the store set
		uw := httptest.PerformRequest(t, s.Router, http.MethodPut, definitionsURL+"/"+created.ID.String(),
			request.UpdateDefinitionRequest{Name: "Dream Card", StoreIDs: []uuid.UUID{storeB}, IsActive: true}, token)
		require.Equal(t, http.StatusOK, uw.Code, uw.Body.String())

		var updated response.DefinitionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, uw.Body, &updated))
		require.Equal(t, []uuid.UUID{storeB}, updated.StoreIDs)
	})

	s.Run("Error case: regular member cannot reach the admin API", func() {
		t := s.T()

		storeA := dbtest.CreateTestStore(t, s.DB, "Cafe Aroma")
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", "member")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, definitionsURL,
			request.CreateDefinitionRequest{Name: "Dream Card", StoreIDs: []uuid.UUID{storeA}}, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

// =============================================================================
// TestResolutionFlow - snapshot on create, unmapped event, resolve-unmapped
// =============================================================================

func (s *MultiCouponSuite) TestResolutionFlow() {
	s.Run("Normal case: known program name resolves at creation", func() {
		t := s.T()

		storeA := dbtest.CreateTestStore(t, s.DB, "Cafe Aroma")
		storeB := dbtest.CreateTestStore(t, s.DB, "Super Pharm")
		defID := dbtest.CreateTestDefinition(t, s.DB, "Dream Card", []uuid.UUID{storeA, storeB})

		userID := dbtest.CreateTestUser(t, s.DB, "member@example.com", "member")
		groupID := dbtest.CreateTestGroup(t, s.DB, "Family", userID)
		token := authtest.LoginUser(t, s.Router, "member@example.com", "password123")

		// Lookup is exact but case-insensitive
		name := "dream CARD"
		total := int64(20000)
		reqBody := request.CreateCouponRequest{
			Type:             "MULTI",
			Title:            "Gift card",
			MultiCouponName:  &name,
			ExpiryDate:       builder.NewCouponBuilder().ExpiryDate,
			TotalAmountCents: &total,
			Currency:         "ILS",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("/api/groups/%s/coupons", groupID), reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "MAPPED", created.MappingStatus)
		require.ElementsMatch(t, []uuid.UUID{storeA, storeB}, created.ResolvedStoreIDs)

		// Deleting the definition never retroactively unmaps the coupon
		adminToken := authtest.LoginUser(t, s.Router, "seed-admin@example.com", "password123")
		dw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			definitionsURL+"/"+defID.String(), nil, adminToken)
		require.Equal(t, http.StatusNoContent, dw.Code, dw.Body.String())

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("/api/groups/%s/coupons/%s", groupID, created.ID), nil, token)
		require.Equal(t, http.StatusOK, gw.Code)
		var after response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &after))
		require.Equal(t, "MAPPED", after.MappingStatus)
		require.ElementsMatch(t, []uuid.UUID{storeA, storeB}, after.ResolvedStoreIDs)
	})

	s.Run("Normal case: unknown name creates an unmapped coupon and an open event", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "member@example.com", "member")
		groupID := dbtest.CreateTestGroup(t, s.DB, "Family", userID)
		token := authtest.LoginUser(t, s.Router, "member@example.com", "password123")

		name := "Mystery Card"
		total := int64(20000)
		reqBody := request.CreateCouponRequest{
			Type:             "MULTI",
			Title:            "Gift card",
			MultiCouponName:  &name,
			ExpiryDate:       builder.NewCouponBuilder().ExpiryDate,
			TotalAmountCents: &total,
			Currency:         "ILS",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("/api/groups/%s/coupons", groupID), reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "UNMAPPED", created.MappingStatus)
		require.Empty(t, created.ResolvedStoreIDs)

		adminToken := authtest.LoginUser(t, s.Router, "seed-admin@example.com", "password123")
		ew := httptest.PerformRequest(t, s.Router, http.MethodGet, eventsURL+"?status=open", nil, adminToken)
		require.Equal(t, http.StatusOK, ew.Code, ew.Body.String())

		var events []response.UnmappedEventResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ew.Body, &events))
		require.Len(t, events, 1)
		require.Equal(t, "Mystery Card", events[0].MultiCouponName)
		require.Equal(t, created.ID, events[0].CouponID)
	})

	s.Run("Normal case: resolve-unmapped remaps coupons and handles events", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "member@example.com", "member")
		groupID := dbtest.CreateTestGroup(t, s.DB, "Family", userID)
		token := authtest.LoginUser(t, s.Router, "member@example.com", "password123")

		name := "Dream Card"
		total := int64(20000)
		reqBody := request.CreateCouponRequest{
			Type:             "MULTI",
			Title:            "Gift card",
			MultiCouponName:  &name,
			ExpiryDate:       builder.NewCouponBuilder().ExpiryDate,
			TotalAmountCents: &total,
			Currency:         "ILS",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("/api/groups/%s/coupons", groupID), reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "UNMAPPED", created.MappingStatus)

		// Admin adds the missing definition afterwards
		storeA := dbtest.CreateTestStore(t, s.DB, "Cafe Aroma")
		adminToken := authtest.LoginUser(t, s.Router, "seed-admin@example.com", "password123")

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, definitionsURL,
			request.CreateDefinitionRequest{Name: "Dream Card", StoreIDs: []uuid.UUID{storeA}}, adminToken)
		require.Equal(t, http.StatusCreated, cw.Code, cw.Body.String())
		var def response.DefinitionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, cw.Body, &def))

		rw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			definitionsURL+"/"+def.ID.String()+"/resolve-unmapped", nil, adminToken)
		require.Equal(t, http.StatusOK, rw.Code, rw.Body.String())

		var result response.ResolveUnmappedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, rw.Body, &result))
		require.Equal(t, 1, result.Resolved)

		// The coupon now carries the snapshot
		gw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("/api/groups/%s/coupons/%s", groupID, created.ID), nil, token)
		require.Equal(t, http.StatusOK, gw.Code)
		var remapped response.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &remapped))
		require.Equal(t, "MAPPED", remapped.MappingStatus)
		require.Equal(t, []uuid.UUID{storeA}, remapped.ResolvedStoreIDs)

		// Its event is handled, and the batch is idempotent
		ew := httptest.PerformRequest(t, s.Router, http.MethodGet, eventsURL+"?status=open", nil, adminToken)
		require.Equal(t, http.StatusOK, ew.Code)
		var open []response.UnmappedEventResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ew.Body, &open))
		require.Empty(t, open)

		rw2 := httptest.PerformRequest(t, s.Router, http.MethodPost,
			definitionsURL+"/"+def.ID.String()+"/resolve-unmapped", nil, adminToken)
		require.Equal(t, http.StatusOK, rw2.Code)
		var second response.ResolveUnmappedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, rw2.Body, &second))
		require.Equal(t, 0, second.Resolved)
	})
}

//go:build e2e

package job_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"couponkeeper/tests/common/authtest"
	"couponkeeper/tests/common/builder"
	"couponkeeper/tests/common/dbtest"
	"couponkeeper/tests/common/httptest"
	"couponkeeper/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sweepURL = "/internal/jobs/daily-expiry"

type JobSuite struct {
	e2e.SharedSuite
}

func TestJobSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(JobSuite))
}

func (s *JobSuite) secretHeader() map[string]string {
	return map[string]string{"X-Job-Secret": s.Config.Job.Secret}
}

func (s *JobSuite) TestDailyExpiry() {
	s.Run("Normal case: overdue active coupons are expired", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		groupID := dbtest.CreateTestGroup(t, s.DB, "Family", userID)
		storeID := dbtest.CreateTestStore(t, s.DB, "Cafe Aroma")
		token := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		reqBody := builder.NewCouponBuilder().
			With(func(b *builder.CouponBuilder) { b.StoreID = &storeID }).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("/api/groups/%s/coupons", groupID), reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		// Backdate the expiry so the sweep picks it up
		_, err := s.DB.Exec(context.Background(),
			"UPDATE coupons SET expiry_date = $1 WHERE id = $2",
			time.Now().Add(-48*time.Hour), created.ID)
		require.NoError(t, err)

		sw := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, sweepURL, nil, s.secretHeader())
		require.Equal(t, http.StatusOK, sw.Code, sw.Body.String())

		var result struct {
			ExpiredUpdated int `json:"expiredUpdated"`
			EmailsSent     int `json:"emailsSent"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, sw.Body, &result))
		require.Equal(t, 1, result.ExpiredUpdated)

		var status string
		err = s.DB.QueryRow(context.Background(),
			"SELECT status FROM coupons WHERE id = $1", created.ID).Scan(&status)
		require.NoError(t, err)
		require.Equal(t, "EXPIRED", status)
	})

	s.Run("Normal case: a second run finds nothing to expire", func() {
		t := s.T()

		sw := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, sweepURL, nil, s.secretHeader())
		require.Equal(t, http.StatusOK, sw.Code, sw.Body.String())

		var result struct {
			ExpiredUpdated int `json:"expiredUpdated"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, sw.Body, &result))
		require.Equal(t, 0, result.ExpiredUpdated)
	})

	s.Run("Error case: missing or wrong secret is unauthorized", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, sweepURL, nil, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, sweepURL, nil,
			map[string]string{"X-Job-Secret": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w2.Code)
	})
}

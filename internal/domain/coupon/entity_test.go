//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSingleCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewCouponBuilder()
		actual, err := b.BuildSingleDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, coupon.TypeSingle, actual.Type())
		assert.Equal(t, coupon.MappingMapped, actual.MappingStatus())
		assert.Equal(t, coupon.StatusActive, actual.Status())
		assert.Equal(t, int64(0), actual.UsedCents())
		assert.Equal(t, b.TotalCents, actual.RemainingCents())
		require.NotNil(t, actual.StoreID())
		assert.Equal(t, *b.StoreID, *actual.StoreID())
	})

	t.Run("missing store id", func(t *testing.T) {
		b := builder.NewCouponBuilder()
		b.StoreID = nil
		actual, err := b.BuildSingleDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, coupon.ErrMissingStoreID)
	})
}

func TestNewMultiCoupon(t *testing.T) {
	now := time.Now()
	groupID := uuid.New()
	createdBy := uuid.New()
	title, err := coupon.NewTitle("Mall gift card")
	require.NoError(t, err)
	total, err := coupon.NewAmount(20000)
	require.NoError(t, err)

	t.Run("mapped resolution snapshots store ids", func(t *testing.T) {
		storeIDs := []uuid.UUID{uuid.New(), uuid.New()}
		actual, err := coupon.NewMultiCoupon(
			groupID, createdBy, title, "Mall Card",
			coupon.MappedResolution(storeIDs),
			now.AddDate(1, 0, 0), total, coupon.DefaultCurrency, "", now,
		)
		require.NoError(t, err)
		assert.Equal(t, coupon.MappingMapped, actual.MappingStatus())
		assert.Equal(t, storeIDs, actual.ResolvedStoreIDs())
	})

	t.Run("unmapped resolution keeps coupon usable", func(t *testing.T) {
		actual, err := coupon.NewMultiCoupon(
			groupID, createdBy, title, "Unknown Card",
			coupon.UnmappedResolution(),
			now.AddDate(1, 0, 0), total, coupon.DefaultCurrency, "", now,
		)
		require.NoError(t, err)
		assert.Equal(t, coupon.MappingUnmapped, actual.MappingStatus())
		assert.Empty(t, actual.ResolvedStoreIDs())
		assert.Equal(t, coupon.StatusActive, actual.Status())
	})

	t.Run("missing multi coupon name", func(t *testing.T) {
		actual, err := coupon.NewMultiCoupon(
			groupID, createdBy, title, "",
			coupon.UnmappedResolution(),
			now.AddDate(1, 0, 0), total, coupon.DefaultCurrency, "", now,
		)
		require.Nil(t, actual)
		require.ErrorIs(t, err, coupon.ErrMissingMultiCouponName)
	})
}

func TestPlanUsage(t *testing.T) {
	now := time.Now()

	t.Run("ADD accumulates", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 3000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		change, err := c.PlanUsage(coupon.UsageAdd, 2000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), change.PriorUsedCents)
		assert.Equal(t, int64(5000), change.UsedCents)
		assert.Equal(t, int64(5000), change.RemainingCents)
		assert.Equal(t, coupon.StatusPartiallyUsed, change.Status)
	})

	t.Run("SET is absolute", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 3000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		change, err := c.PlanUsage(coupon.UsageSet, 7000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(7000), change.UsedCents)
		assert.Equal(t, int64(3000), change.RemainingCents)
	})

	t.Run("SET to the same value is a no-op plan", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 7000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		change, err := c.PlanUsage(coupon.UsageSet, 7000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(7000), change.PriorUsedCents)
		assert.Equal(t, int64(7000), change.UsedCents)
	})

	t.Run("consuming the full balance yields USED", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()

		change, err := c.PlanUsage(coupon.UsageSet, c.TotalCents(), now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusUsed, change.Status)
		assert.Equal(t, int64(0), change.RemainingCents)
	})

	t.Run("exceeding total is rejected", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 9000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		_, err := c.PlanUsage(coupon.UsageAdd, 2000, now)
		require.ErrorIs(t, err, coupon.ErrUsageExceedsTotal)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()

		_, err := c.PlanUsage(coupon.UsageAdd, -100, now)
		require.ErrorIs(t, err, coupon.ErrNegativeAmount)

		_, err = c.PlanUsage(coupon.UsageSet, -100, now)
		require.ErrorIs(t, err, coupon.ErrNegativeAmount)
	})

	t.Run("invalid mode is rejected", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()

		_, err := c.PlanUsage(coupon.UsageMode("REMOVE"), 100, now)
		require.ErrorIs(t, err, coupon.ErrInvalidUsageMode)
	})

	t.Run("plan does not mutate the aggregate", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()

		_, err := c.PlanUsage(coupon.UsageAdd, 2000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), c.UsedCents())
		assert.Equal(t, coupon.StatusActive, c.Status())
	})
}

func TestApplyEdit(t *testing.T) {
	now := time.Now()

	t.Run("partial edit keeps untouched fields", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.Notes = "birthday gift"
		}).BuildDomain()
		originalExpiry := c.ExpiryDate()

		title, err := coupon.NewTitle("Renamed voucher")
		require.NoError(t, err)
		err = c.ApplyEdit(coupon.EditChange{Title: &title}, now)
		require.NoError(t, err)

		assert.Equal(t, "Renamed voucher", c.Title().String())
		assert.Equal(t, originalExpiry, c.ExpiryDate())
		assert.Equal(t, "birthday gift", c.Notes())
	})

	t.Run("raising total recomputes remaining from a non-terminal baseline", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 10000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		newTotal := int64(15000)
		err := c.ApplyEdit(coupon.EditChange{TotalCents: &newTotal}, now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusPartiallyUsed, c.Status())
		assert.Equal(t, int64(5000), c.RemainingCents())
	})

	t.Run("raising total never revives a used coupon", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 10000
			b.Status = coupon.StatusUsed
		}).BuildDomain()

		newTotal := int64(15000)
		err := c.ApplyEdit(coupon.EditChange{TotalCents: &newTotal}, now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusUsed, c.Status())
		assert.Equal(t, int64(5000), c.RemainingCents())
	})

	t.Run("lowering total below used is rejected", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.UsedCents = 6000
			b.Status = coupon.StatusPartiallyUsed
		}).BuildDomain()

		newTotal := int64(5000)
		err := c.ApplyEdit(coupon.EditChange{TotalCents: &newTotal}, now)
		require.ErrorIs(t, err, coupon.ErrTotalBelowUsed)
		assert.Equal(t, int64(10000), c.TotalCents())
	})

	t.Run("moving expiry into the past expires the coupon", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()

		past := now.AddDate(0, 0, -1)
		err := c.ApplyEdit(coupon.EditChange{ExpiryDate: &past}, now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusExpired, c.Status())
	})

	t.Run("extending expiry revives an expired coupon", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.ExpiryDate = now.AddDate(0, 0, -10)
			b.UsedCents = 2500
			b.Status = coupon.StatusExpired
		}).BuildDomain()

		future := now.AddDate(0, 1, 0)
		err := c.ApplyEdit(coupon.EditChange{ExpiryDate: &future}, now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusPartiallyUsed, c.Status())
	})

	t.Run("edits never revive a cancelled coupon", func(t *testing.T) {
		c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.Status = coupon.StatusCancelled
		}).BuildDomain()

		future := now.AddDate(0, 2, 0)
		err := c.ApplyEdit(coupon.EditChange{ExpiryDate: &future}, now)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusCancelled, c.Status())
	})
}

func TestCancel(t *testing.T) {
	now := time.Now()

	c := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
		b.UsedCents = 2500
		b.Status = coupon.StatusPartiallyUsed
	}).BuildDomain()

	c.Cancel(now)
	assert.Equal(t, coupon.StatusCancelled, c.Status())

	// Terminal: later usage recomputation may not move it away.
	change, err := c.PlanUsage(coupon.UsageSet, 5000, now)
	require.NoError(t, err)
	assert.Equal(t, coupon.StatusCancelled, change.Status)
}

func TestRemap(t *testing.T) {
	now := time.Now()

	c := builder.NewCouponBuilder().
		AsMulti("Mall Card", coupon.UnmappedResolution()).
		BuildDomain()
	require.Equal(t, coupon.MappingUnmapped, c.MappingStatus())

	storeIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	c.Remap(storeIDs, now)

	assert.Equal(t, coupon.MappingMapped, c.MappingStatus())
	assert.Equal(t, storeIDs, c.ResolvedStoreIDs())
}

func TestTitleValidation(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		title, err := coupon.NewTitle("  Spa day  ")
		require.NoError(t, err)
		assert.Equal(t, "Spa day", title.String())
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := coupon.NewTitle("   ")
		require.ErrorIs(t, err, coupon.ErrEmptyTitle)
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, coupon.MaxTitleLength+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := coupon.NewTitle(string(long))
		require.ErrorIs(t, err, coupon.ErrTitleTooLong)
	})
}

//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "couponkeeper/internal/domain/coupon"
	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID               uuid.UUID
	GroupID          uuid.UUID
	CreatedBy        uuid.UUID
	Type             domcoupon.Type
	Title            string
	StoreID          *uuid.UUID
	MultiCouponName  string
	MappingStatus    domcoupon.MappingStatus
	ResolvedStoreIDs []uuid.UUID
	ExpiryDate       time.Time
	TotalCents       int64
	UsedCents        int64
	Currency         domcoupon.Currency
	Status           domcoupon.Status
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewCouponBuilder() *CouponBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	storeID := uuid.New()
	return &CouponBuilder{
		ID:            uuid.New(),
		GroupID:       uuid.New(),
		CreatedBy:     uuid.New(),
		Type:          domcoupon.TypeSingle,
		Title:         "Coffee voucher",
		StoreID:       &storeID,
		MappingStatus: domcoupon.MappingMapped,
		ExpiryDate:    now.AddDate(0, 6, 0),
		TotalCents:    10000,
		UsedCents:     0,
		Currency:      domcoupon.CurrencyILS,
		Status:        domcoupon.StatusActive,
		Notes:         "",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UsageRequest builds a usage update body; the amount binds by pointer.
func UsageRequest(mode string, amountCents int64) reqdto.UpdateUsageRequest {
	return reqdto.UpdateUsageRequest{Mode: mode, AmountCents: &amountCents}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) AsMulti(name string, resolution domcoupon.Resolution) *CouponBuilder {
	b.Type = domcoupon.TypeMulti
	b.StoreID = nil
	b.MultiCouponName = name
	b.MappingStatus = resolution.MappingStatus
	b.ResolvedStoreIDs = resolution.StoreIDs
	return b
}

// BuildDomain reconstructs the aggregate with the builder's exact state,
// bypassing creation-time validation.
func (b *CouponBuilder) BuildDomain() *domcoupon.Coupon {
	title, _ := domcoupon.NewTitle(b.Title)
	return domcoupon.Reconstruct(
		b.ID, b.GroupID, b.CreatedBy,
		b.Type, title, b.StoreID, b.MultiCouponName, b.MappingStatus, b.ResolvedStoreIDs,
		b.ExpiryDate, b.TotalCents, b.UsedCents, b.Currency, b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt,
	)
}

// BuildSingleDomain goes through the validating constructor.
func (b *CouponBuilder) BuildSingleDomain() (*domcoupon.Coupon, error) {
	title, err := domcoupon.NewTitle(b.Title)
	if err != nil {
		return nil, err
	}
	total, err := domcoupon.NewAmount(b.TotalCents)
	if err != nil {
		return nil, err
	}
	var storeID uuid.UUID
	if b.StoreID != nil {
		storeID = *b.StoreID
	}
	return domcoupon.NewSingleCoupon(
		b.GroupID, b.CreatedBy, title, storeID, b.ExpiryDate, total, b.Currency, b.Notes, b.CreatedAt,
	)
}

func (b *CouponBuilder) BuildRM() *readmodel.CouponRM {
	var name *string
	if b.MultiCouponName != "" {
		n := b.MultiCouponName
		name = &n
	}
	var notes *string
	if b.Notes != "" {
		n := b.Notes
		notes = &n
	}
	return &readmodel.CouponRM{
		ID:                   b.ID,
		GroupID:              b.GroupID,
		CreatedBy:            b.CreatedBy,
		Type:                 b.Type.String(),
		Title:                b.Title,
		StoreID:              b.StoreID,
		MultiCouponName:      name,
		MappingStatus:        b.MappingStatus.String(),
		ResolvedStoreIDs:     b.ResolvedStoreIDs,
		ExpiryDate:           b.ExpiryDate,
		TotalAmountCents:     b.TotalCents,
		UsedAmountCents:      b.UsedCents,
		RemainingAmountCents: b.TotalCents - b.UsedCents,
		Currency:             b.Currency.String(),
		Status:               b.Status.String(),
		Notes:                notes,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CreateCouponRequest {
	total := b.TotalCents
	req := reqdto.CreateCouponRequest{
		Type:             b.Type.String(),
		Title:            b.Title,
		ExpiryDate:       b.ExpiryDate,
		TotalAmountCents: &total,
		Currency:         b.Currency.String(),
	}
	if b.Type == domcoupon.TypeSingle {
		req.StoreID = b.StoreID
	} else {
		name := b.MultiCouponName
		req.MultiCouponName = &name
	}
	if b.Notes != "" {
		notes := b.Notes
		req.Notes = &notes
	}
	return req
}

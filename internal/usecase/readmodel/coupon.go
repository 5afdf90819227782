package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// CouponRM is the read model returned to the HTTP layer.
type CouponRM struct {
	ID                   uuid.UUID
	GroupID              uuid.UUID
	CreatedBy            uuid.UUID
	Type                 string
	Title                string
	StoreID              *uuid.UUID
	MultiCouponName      *string
	MappingStatus        string
	ResolvedStoreIDs     []uuid.UUID
	ExpiryDate           time.Time
	TotalAmountCents     int64
	UsedAmountCents      int64
	RemainingAmountCents int64
	Currency             string
	Status               string
	Notes                *string
	Images               []CouponImageRM
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type CouponImageRM struct {
	ID        uuid.UUID
	URL       string
	FileName  string
	MimeType  string
	IsPrimary bool
	CreatedAt time.Time
}

// CouponListFilters narrows a group-scoped coupon listing. The store filter
// matches SINGLE coupons bound to the store or MAPPED MULTI coupons whose
// resolved set contains it.
type CouponListFilters struct {
	StoreID         *uuid.UUID
	Status          *string
	MappingStatus   *string
	ExpiringInDays  *int
	Search          *string
	Sort            string // expiryDate | remainingAmount | createdAt
	Order           string // asc | desc
}

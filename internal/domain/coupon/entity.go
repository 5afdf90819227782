package coupon

import (
	"time"

	"couponkeeper/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMissingStoreID         = errs.New("storeId is required for SINGLE coupons")
	ErrMissingMultiCouponName = errs.New("multiCouponName is required for MULTI coupons")
	ErrTotalBelowUsed         = errs.New("total amount cannot be set below the used amount")
)

// Resolution is the outcome of resolving a multi-coupon name against the
// definition catalog, snapshotted at coupon-creation time.
type Resolution struct {
	MappingStatus MappingStatus
	StoreIDs      []uuid.UUID
}

func MappedResolution(storeIDs []uuid.UUID) Resolution {
	return Resolution{MappingStatus: MappingMapped, StoreIDs: storeIDs}
}

func UnmappedResolution() Resolution {
	return Resolution{MappingStatus: MappingUnmapped, StoreIDs: nil}
}

// Coupon is the central aggregate: a store-bound (SINGLE) or program-bound
// (MULTI) voucher with a usage balance and a derived lifecycle status.
type Coupon struct {
	id               uuid.UUID
	groupID          uuid.UUID
	createdBy        uuid.UUID
	typ              Type
	title            Title
	storeID          *uuid.UUID
	multiCouponName  string
	mappingStatus    MappingStatus
	resolvedStoreIDs []uuid.UUID
	expiryDate       time.Time
	totalCents       int64
	usedCents        int64
	currency         Currency
	status           Status
	notes            string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSingleCoupon(
	groupID, createdBy uuid.UUID,
	title Title,
	storeID uuid.UUID,
	expiryDate time.Time,
	total Amount,
	currency Currency,
	notes string,
	now time.Time,
) (*Coupon, error) {
	if storeID == uuid.Nil {
		return nil, ErrMissingStoreID
	}
	c := newCoupon(groupID, createdBy, TypeSingle, title, expiryDate, total, currency, notes, now)
	c.storeID = &storeID
	c.mappingStatus = MappingMapped
	return c, nil
}

func NewMultiCoupon(
	groupID, createdBy uuid.UUID,
	title Title,
	multiCouponName string,
	resolution Resolution,
	expiryDate time.Time,
	total Amount,
	currency Currency,
	notes string,
	now time.Time,
) (*Coupon, error) {
	if multiCouponName == "" {
		return nil, ErrMissingMultiCouponName
	}
	c := newCoupon(groupID, createdBy, TypeMulti, title, expiryDate, total, currency, notes, now)
	c.multiCouponName = multiCouponName
	c.mappingStatus = resolution.MappingStatus
	c.resolvedStoreIDs = resolution.StoreIDs
	return c, nil
}

func newCoupon(
	groupID, createdBy uuid.UUID,
	typ Type,
	title Title,
	expiryDate time.Time,
	total Amount,
	currency Currency,
	notes string,
	now time.Time,
) *Coupon {
	return &Coupon{
		id:         uuid.New(),
		groupID:    groupID,
		createdBy:  createdBy,
		typ:        typ,
		title:      title,
		expiryDate: expiryDate,
		totalCents: total.Cents(),
		usedCents:  0,
		currency:   currency,
		status:     CalculateStatus(0, total.Cents(), expiryDate, now, ""),
		notes:      notes,
		createdAt:  now,
		updatedAt:  now,
	}
}

// Reconstruct rebuilds an aggregate from persisted state without validation.
func Reconstruct(
	id, groupID, createdBy uuid.UUID,
	typ Type,
	title Title,
	storeID *uuid.UUID,
	multiCouponName string,
	mappingStatus MappingStatus,
	resolvedStoreIDs []uuid.UUID,
	expiryDate time.Time,
	totalCents, usedCents int64,
	currency Currency,
	status Status,
	notes string,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:               id,
		groupID:          groupID,
		createdBy:        createdBy,
		typ:              typ,
		title:            title,
		storeID:          storeID,
		multiCouponName:  multiCouponName,
		mappingStatus:    mappingStatus,
		resolvedStoreIDs: resolvedStoreIDs,
		expiryDate:       expiryDate,
		totalCents:       totalCents,
		usedCents:        usedCents,
		currency:         currency,
		status:           status,
		notes:            notes,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// UsageChange is the planned outcome of a usage update: the balance and status
// the coupon should hold after the conditional write succeeds.
type UsageChange struct {
	PriorUsedCents int64
	UsedCents      int64
	RemainingCents int64
	Status         Status
}

// PlanUsage validates an ADD/SET usage request against the current balance and
// computes the resulting state. It does not mutate the aggregate; the caller
// applies the change with a conditional write guarded on PriorUsedCents.
func (c *Coupon) PlanUsage(mode UsageMode, amountCents int64, now time.Time) (UsageChange, error) {
	if amountCents < 0 {
		return UsageChange{}, ErrNegativeAmount
	}

	var newUsed int64
	switch mode {
	case UsageAdd:
		newUsed = c.usedCents + amountCents
	case UsageSet:
		newUsed = amountCents
	default:
		return UsageChange{}, ErrInvalidUsageMode
	}

	if newUsed > c.totalCents {
		return UsageChange{}, ErrUsageExceedsTotal
	}
	if newUsed < 0 {
		return UsageChange{}, ErrNegativeAmount
	}

	return UsageChange{
		PriorUsedCents: c.usedCents,
		UsedCents:      newUsed,
		RemainingCents: c.totalCents - newUsed,
		Status:         CalculateStatus(newUsed, c.totalCents, c.expiryDate, now, c.status),
	}, nil
}

// EditChange carries optional field edits; nil means keep the current value.
type EditChange struct {
	Title      *Title
	ExpiryDate *time.Time
	TotalCents *int64
	Notes      *string
}

// ApplyEdit mutates title/expiry/total/notes and recomputes the status.
// Lowering total below the used balance is rejected to preserve the balance
// invariant. Edits are last-write-wins; there is no concurrency guard here.
func (c *Coupon) ApplyEdit(change EditChange, now time.Time) error {
	if change.TotalCents != nil {
		if *change.TotalCents < 0 {
			return ErrNegativeAmount
		}
		if *change.TotalCents < c.usedCents {
			return ErrTotalBelowUsed
		}
	}

	if change.Title != nil {
		c.title = *change.Title
	}
	if change.ExpiryDate != nil {
		c.expiryDate = *change.ExpiryDate
	}
	if change.TotalCents != nil {
		c.totalCents = *change.TotalCents
	}
	if change.Notes != nil {
		c.notes = *change.Notes
	}

	c.status = CalculateStatus(c.usedCents, c.totalCents, c.expiryDate, now, c.status)
	c.updatedAt = now
	return nil
}

// Cancel moves the coupon to CANCELLED unconditionally. CANCELLED is terminal.
func (c *Coupon) Cancel(now time.Time) {
	c.status = StatusCancelled
	c.updatedAt = now
}

// Remap applies a resolve-unmapped batch outcome: the coupon becomes MAPPED
// with a fresh snapshot of the definition's store ids.
func (c *Coupon) Remap(storeIDs []uuid.UUID, now time.Time) {
	c.mappingStatus = MappingMapped
	c.resolvedStoreIDs = storeIDs
	c.updatedAt = now
}

func (c *Coupon) ID() uuid.UUID                { return c.id }
func (c *Coupon) GroupID() uuid.UUID           { return c.groupID }
func (c *Coupon) CreatedBy() uuid.UUID         { return c.createdBy }
func (c *Coupon) Type() Type                   { return c.typ }
func (c *Coupon) Title() Title                 { return c.title }
func (c *Coupon) StoreID() *uuid.UUID          { return c.storeID }
func (c *Coupon) MultiCouponName() string      { return c.multiCouponName }
func (c *Coupon) MappingStatus() MappingStatus { return c.mappingStatus }
func (c *Coupon) ResolvedStoreIDs() []uuid.UUID { return c.resolvedStoreIDs }
func (c *Coupon) ExpiryDate() time.Time        { return c.expiryDate }
func (c *Coupon) TotalCents() int64            { return c.totalCents }
func (c *Coupon) UsedCents() int64             { return c.usedCents }
func (c *Coupon) RemainingCents() int64        { return c.totalCents - c.usedCents }
func (c *Coupon) Currency() Currency           { return c.currency }
func (c *Coupon) Status() Status               { return c.status }
func (c *Coupon) Notes() string                { return c.notes }
func (c *Coupon) CreatedAt() time.Time         { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time         { return c.updatedAt }

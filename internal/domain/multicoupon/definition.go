package multicoupon

import (
	"strings"
	"time"

	"couponkeeper/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errs.New("multi-coupon name cannot be empty")
	ErrNameTooLong  = errs.New("multi-coupon name is too long")
	ErrNoStores     = errs.New("multi-coupon definition needs at least one store")
)

const MaxNameLength = 120

// Name is a multi-coupon program name. Matching is case-insensitive and
// exact: "SuperSale" and "supersale" are the same program, "SuperSale 2" is
// not.
type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Name{}, ErrEmptyName
	}
	if len(s) > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: s}, nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) Equals(other string) bool {
	return strings.EqualFold(n.value, strings.TrimSpace(other))
}

// Definition maps a program name to the set of stores honoring it. Inactive
// definitions never resolve new coupons; already-resolved coupons keep their
// snapshot either way.
type Definition struct {
	id        uuid.UUID
	name      Name
	storeIDs  []uuid.UUID
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewDefinition(name Name, storeIDs []uuid.UUID, now time.Time) (*Definition, error) {
	if len(storeIDs) == 0 {
		return nil, ErrNoStores
	}
	return &Definition{
		id:        uuid.New(),
		name:      name,
		storeIDs:  storeIDs,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructDefinition(id uuid.UUID, name Name, storeIDs []uuid.UUID, isActive bool, createdAt, updatedAt time.Time) *Definition {
	return &Definition{
		id:        id,
		name:      name,
		storeIDs:  storeIDs,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (d *Definition) Update(name Name, storeIDs []uuid.UUID, isActive bool, now time.Time) error {
	if len(storeIDs) == 0 {
		return ErrNoStores
	}
	d.name = name
	d.storeIDs = storeIDs
	d.isActive = isActive
	d.updatedAt = now
	return nil
}

func (d *Definition) ID() uuid.UUID        { return d.id }
func (d *Definition) Name() Name           { return d.name }
func (d *Definition) StoreIDs() []uuid.UUID { return d.storeIDs }
func (d *Definition) IsActive() bool       { return d.isActive }
func (d *Definition) CreatedAt() time.Time { return d.createdAt }
func (d *Definition) UpdatedAt() time.Time { return d.updatedAt }

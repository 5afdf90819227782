package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type DefinitionRM struct {
	ID        uuid.UUID
	Name      string
	StoreIDs  []uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UnmappedEventRM struct {
	ID              uuid.UUID
	MultiCouponName string
	CouponID        uuid.UUID
	GroupID         uuid.UUID
	CreatedBy       uuid.UUID
	Status          string
	AdminNotifiedAt *time.Time
	HandledAt       *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PreferenceRM struct {
	UserID      uuid.UUID
	Enabled     bool
	DaysBefore  []int
	Timezone    string
	EmailDigest bool
	UpdatedAt   time.Time
}

// EnabledPreferenceRM joins a preference with the owning user's email for the
// expiry sweep's notification phase.
type EnabledPreferenceRM struct {
	UserID      uuid.UUID
	Email       string
	DaysBefore  []int
	Timezone    string
	EmailDigest bool
}

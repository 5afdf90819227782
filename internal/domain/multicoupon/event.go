package multicoupon

import (
	"time"

	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/pkg/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidEventStatus     = errs.New("invalid unmapped event status")
	ErrEventTransitionBlocked = errs.New("unmapped event transition not allowed")
)

// EventStatus is the triage state of an unmapped-coupon occurrence.
type EventStatus string

const (
	EventOpen    EventStatus = "open"
	EventHandled EventStatus = "handled"
	EventIgnored EventStatus = "ignored"
)

func (s EventStatus) String() string {
	return string(s)
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventOpen, EventHandled, EventIgnored:
		return true
	default:
		return false
	}
}

func NewEventStatus(s string) (EventStatus, error) {
	status := EventStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidEventStatus
	}
	return status, nil
}

// Event records one coupon created with an unmapped multi-coupon name. It is
// an append-style audit record with its own triage lifecycle, independent of
// the coupon's mappingStatus.
type Event struct {
	id              uuid.UUID
	multiCouponName string
	couponID        uuid.UUID
	groupID         uuid.UUID
	createdBy       uuid.UUID
	status          EventStatus
	adminNotifiedAt *time.Time
	handledAt       *time.Time
	notes           string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewEvent(multiCouponName string, couponID, groupID, createdBy uuid.UUID, now time.Time) *Event {
	notified := now
	return &Event{
		id:              uuid.New(),
		multiCouponName: multiCouponName,
		couponID:        couponID,
		groupID:         groupID,
		createdBy:       createdBy,
		status:          EventOpen,
		adminNotifiedAt: &notified,
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructEvent(
	id uuid.UUID,
	multiCouponName string,
	couponID, groupID, createdBy uuid.UUID,
	status EventStatus,
	adminNotifiedAt, handledAt *time.Time,
	notes string,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:              id,
		multiCouponName: multiCouponName,
		couponID:        couponID,
		groupID:         groupID,
		createdBy:       createdBy,
		status:          status,
		adminNotifiedAt: adminNotifiedAt,
		handledAt:       handledAt,
		notes:           notes,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Transition moves the event between triage states. Allowed moves: open to
// handled, open to ignored, and any state back to open (reopen). An optional
// note replaces the previous one when non-nil.
func (e *Event) Transition(target EventStatus, note *string, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidEventStatus
	}

	switch target {
	case EventOpen:
		e.handledAt = nil
	case EventHandled, EventIgnored:
		if e.status != EventOpen {
			return ErrEventTransitionBlocked
		}
		if target == EventHandled {
			handled := now
			e.handledAt = &handled
		}
	}

	e.status = target
	e.notes = patch.Coalesce(note, e.notes)
	e.updatedAt = now
	return nil
}

func (e *Event) ID() uuid.UUID              { return e.id }
func (e *Event) MultiCouponName() string    { return e.multiCouponName }
func (e *Event) CouponID() uuid.UUID        { return e.couponID }
func (e *Event) GroupID() uuid.UUID         { return e.groupID }
func (e *Event) CreatedBy() uuid.UUID       { return e.createdBy }
func (e *Event) Status() EventStatus        { return e.status }
func (e *Event) AdminNotifiedAt() *time.Time { return e.adminNotifiedAt }
func (e *Event) HandledAt() *time.Time      { return e.handledAt }
func (e *Event) Notes() string              { return e.notes }
func (e *Event) CreatedAt() time.Time       { return e.createdAt }
func (e *Event) UpdatedAt() time.Time       { return e.updatedAt }

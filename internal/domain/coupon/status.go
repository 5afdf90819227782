package coupon

import "time"

// CalculateStatus derives the lifecycle status from the usage balance, the
// expiry date and the prior status. It is the sole authority on displayed
// status and must stay a pure function of its inputs; callers supply now from
// an injected clock.
//
// The transition guard comes first: USED and CANCELLED are terminal and are
// returned unchanged regardless of balance or expiry. Past expiry wins over
// any non-terminal usage state.
func CalculateStatus(usedCents, totalCents int64, expiryDate, now time.Time, current Status) Status {
	if current.IsTerminal() {
		return current
	}

	if expiryDate.Before(now) {
		return StatusExpired
	}

	switch {
	case usedCents == 0:
		return StatusActive
	case usedCents >= totalCents:
		return StatusUsed
	default:
		return StatusPartiallyUsed
	}
}

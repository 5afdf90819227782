package coupon

import (
	"strings"

	"couponkeeper/internal/pkg/errs"
)

var (
	ErrInvalidStatus     = errs.New("invalid coupon status")
	ErrInvalidType       = errs.New("invalid coupon type")
	ErrInvalidCurrency   = errs.New("invalid currency")
	ErrInvalidUsageMode  = errs.New("invalid usage mode")
	ErrEmptyTitle        = errs.New("coupon title cannot be empty")
	ErrTitleTooLong      = errs.New("coupon title is too long")
	ErrNegativeAmount    = errs.New("amount cannot be negative")
	ErrUsageExceedsTotal = errs.New("used amount cannot exceed total amount")
)

const MaxTitleLength = 200

type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Title{}, ErrEmptyTitle
	}
	if len(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}
	return Title{value: s}, nil
}

func (t Title) String() string {
	return t.value
}

// Amount is a non-negative monetary amount in minor units (cents/agorot).
type Amount struct {
	cents int64
}

func NewAmount(cents int64) (Amount, error) {
	if cents < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{cents: cents}, nil
}

func (a Amount) Cents() int64 {
	return a.cents
}

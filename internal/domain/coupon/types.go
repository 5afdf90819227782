package coupon

// Status is the coupon lifecycle state. USED and CANCELLED are terminal:
// once reached, no recomputation moves a coupon away from them.
type Status string

const (
	StatusActive        Status = "ACTIVE"
	StatusPartiallyUsed Status = "PARTIALLY_USED"
	StatusUsed          Status = "USED"
	StatusExpired       Status = "EXPIRED"
	StatusCancelled     Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPartiallyUsed, StatusUsed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is sticky.
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusCancelled
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeMulti  Type = "MULTI"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	return t == TypeSingle || t == TypeMulti
}

func NewType(s string) (Type, error) {
	typ := Type(s)
	if !typ.IsValid() {
		return "", ErrInvalidType
	}
	return typ, nil
}

type MappingStatus string

const (
	MappingMapped   MappingStatus = "MAPPED"
	MappingUnmapped MappingStatus = "UNMAPPED"
)

func (m MappingStatus) String() string {
	return string(m)
}

func (m MappingStatus) IsValid() bool {
	return m == MappingMapped || m == MappingUnmapped
}

type Currency string

const (
	CurrencyILS Currency = "ILS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

const DefaultCurrency = CurrencyILS

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyILS, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

func NewCurrency(s string) (Currency, error) {
	if s == "" {
		return DefaultCurrency, nil
	}
	cur := Currency(s)
	if !cur.IsValid() {
		return "", ErrInvalidCurrency
	}
	return cur, nil
}

// UsageMode selects how an amount is applied to the usage balance.
// ADD is cumulative, SET is absolute (and therefore idempotent).
type UsageMode string

const (
	UsageAdd UsageMode = "ADD"
	UsageSet UsageMode = "SET"
)

func (m UsageMode) IsValid() bool {
	return m == UsageAdd || m == UsageSet
}

func NewUsageMode(s string) (UsageMode, error) {
	mode := UsageMode(s)
	if !mode.IsValid() {
		return "", ErrInvalidUsageMode
	}
	return mode, nil
}

package request

import (
	"strings"
	"time"

	"couponkeeper/internal/domain/coupon"

	"github.com/google/uuid"
)

// Amount fields bind through pointers: zero is a legitimate value, and
// required on a plain int64 would reject it as absent.
type CreateCouponRequest struct {
	Type             string     `json:"type" binding:"required,oneof=SINGLE MULTI"`
	Title            string     `json:"title" binding:"required"`
	StoreID          *uuid.UUID `json:"storeId,omitempty"`
	MultiCouponName  *string    `json:"multiCouponName,omitempty"`
	ExpiryDate       time.Time  `json:"expiryDate" binding:"required"`
	TotalAmountCents *int64     `json:"totalAmountCents" binding:"required,gte=0"`
	Currency         string     `json:"currency,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

func (r CreateCouponRequest) GetTotalAmountCents() int64 {
	if r.TotalAmountCents == nil {
		return 0
	}
	return *r.TotalAmountCents
}

func (r CreateCouponRequest) GetMultiCouponName() string {
	if r.MultiCouponName == nil {
		return ""
	}
	return strings.TrimSpace(*r.MultiCouponName)
}

func (r CreateCouponRequest) GetNotes() string {
	if r.Notes == nil {
		return ""
	}
	return strings.TrimSpace(*r.Notes)
}

type UpdateCouponRequest struct {
	Title            *string    `json:"title,omitempty"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	TotalAmountCents *int64     `json:"totalAmountCents,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

// ToChange converts the patch body into a domain edit, validating only the
// fields that are present.
func (r UpdateCouponRequest) ToChange() (coupon.EditChange, error) {
	var change coupon.EditChange

	if r.Title != nil {
		title, err := coupon.NewTitle(*r.Title)
		if err != nil {
			return coupon.EditChange{}, err
		}
		change.Title = &title
	}
	change.ExpiryDate = r.ExpiryDate
	change.TotalCents = r.TotalAmountCents
	change.Notes = r.Notes

	return change, nil
}

// SET 0 resets the balance, so the amount binds through a pointer too.
type UpdateUsageRequest struct {
	Mode        string `json:"mode" binding:"required,oneof=ADD SET"`
	AmountCents *int64 `json:"amountCents" binding:"required,gte=0"`
}

func (r UpdateUsageRequest) GetAmountCents() int64 {
	if r.AmountCents == nil {
		return 0
	}
	return *r.AmountCents
}

type AddImageRequest struct {
	URL       string `json:"url" binding:"required"`
	FileName  string `json:"fileName,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

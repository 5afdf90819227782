package response

import (
	"time"

	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID                   uuid.UUID       `json:"id"`
	GroupID              uuid.UUID       `json:"groupId"`
	CreatedBy            uuid.UUID       `json:"createdBy"`
	Type                 string          `json:"type"`
	Title                string          `json:"title"`
	StoreID              *uuid.UUID      `json:"storeId,omitempty"`
	MultiCouponName      *string         `json:"multiCouponName,omitempty"`
	MappingStatus        string          `json:"mappingStatus"`
	ResolvedStoreIDs     []uuid.UUID     `json:"resolvedStoreIds"`
	ExpiryDate           time.Time       `json:"expiryDate"`
	TotalAmountCents     int64           `json:"totalAmountCents"`
	UsedAmountCents      int64           `json:"usedAmountCents"`
	RemainingAmountCents int64           `json:"remainingAmountCents"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	Notes                *string         `json:"notes,omitempty"`
	Images               []ImageResponse `json:"images,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	FileName  string    `json:"fileName,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromCouponRM(rm *readmodel.CouponRM) *CouponResponse {
	resp := &CouponResponse{
		ID:                   rm.ID,
		GroupID:              rm.GroupID,
		CreatedBy:            rm.CreatedBy,
		Type:                 rm.Type,
		Title:                rm.Title,
		StoreID:              rm.StoreID,
		MultiCouponName:      rm.MultiCouponName,
		MappingStatus:        rm.MappingStatus,
		ResolvedStoreIDs:     rm.ResolvedStoreIDs,
		ExpiryDate:           rm.ExpiryDate,
		TotalAmountCents:     rm.TotalAmountCents,
		UsedAmountCents:      rm.UsedAmountCents,
		RemainingAmountCents: rm.RemainingAmountCents,
		Currency:             rm.Currency,
		Status:               rm.Status,
		Notes:                rm.Notes,
		CreatedAt:            rm.CreatedAt,
		UpdatedAt:            rm.UpdatedAt,
	}
	for _, img := range rm.Images {
		resp.Images = append(resp.Images, FromImageRM(&img))
	}
	return resp
}

func FromImageRM(rm *readmodel.CouponImageRM) ImageResponse {
	return ImageResponse{
		ID:        rm.ID,
		URL:       rm.URL,
		FileName:  rm.FileName,
		MimeType:  rm.MimeType,
		IsPrimary: rm.IsPrimary,
		CreatedAt: rm.CreatedAt,
	}
}

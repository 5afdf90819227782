package response

import (
	"time"

	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type DefinitionResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	StoreIDs  []uuid.UUID `json:"storeIds"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func FromDefinitionRM(rm *readmodel.DefinitionRM) *DefinitionResponse {
	return &DefinitionResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		StoreIDs:  rm.StoreIDs,
		IsActive:  rm.IsActive,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

type ResolveUnmappedResponse struct {
	Resolved int `json:"resolved"`
}

type UnmappedEventResponse struct {
	ID              uuid.UUID  `json:"id"`
	MultiCouponName string     `json:"multiCouponName"`
	CouponID        uuid.UUID  `json:"couponId"`
	GroupID         uuid.UUID  `json:"groupId"`
	CreatedBy       uuid.UUID  `json:"createdBy"`
	Status          string     `json:"status"`
	AdminNotifiedAt *time.Time `json:"adminNotifiedAt,omitempty"`
	HandledAt       *time.Time `json:"handledAt,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func FromUnmappedEventRM(rm *readmodel.UnmappedEventRM) *UnmappedEventResponse {
	return &UnmappedEventResponse{
		ID:              rm.ID,
		MultiCouponName: rm.MultiCouponName,
		CouponID:        rm.CouponID,
		GroupID:         rm.GroupID,
		CreatedBy:       rm.CreatedBy,
		Status:          rm.Status,
		AdminNotifiedAt: rm.AdminNotifiedAt,
		HandledAt:       rm.HandledAt,
		Notes:           rm.Notes,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

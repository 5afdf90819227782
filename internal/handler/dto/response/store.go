package response

import (
	"time"

	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromStoreRM(rm *readmodel.StoreRM) *StoreResponse {
	return &StoreResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		IsActive:  rm.IsActive,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

type GroupResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromGroupRM(rm *readmodel.GroupRM) *GroupResponse {
	return &GroupResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		Role:      rm.Role,
		CreatedAt: rm.CreatedAt,
	}
}

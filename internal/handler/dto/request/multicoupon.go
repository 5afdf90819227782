package request

import (
	"github.com/google/uuid"
)

type CreateDefinitionRequest struct {
	Name     string      `json:"name" binding:"required"`
	StoreIDs []uuid.UUID `json:"storeIds" binding:"required,min=1"`
}

type UpdateDefinitionRequest struct {
	Name     string      `json:"name" binding:"required"`
	StoreIDs []uuid.UUID `json:"storeIds" binding:"required,min=1"`
	IsActive bool        `json:"isActive"`
}

type UpdateEventRequest struct {
	Status string  `json:"status" binding:"required,oneof=open handled ignored"`
	Notes  *string `json:"notes,omitempty"`
}

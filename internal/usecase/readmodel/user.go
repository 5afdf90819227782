package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type AuthorizedUserRM struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	AppRole     string
	IsActive    bool
}

type GroupRM struct {
	ID        uuid.UUID
	Name      string
	Role      string // caller's membership role within the group
	CreatedAt time.Time
}

type StoreRM struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

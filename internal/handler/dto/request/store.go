package request

type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateStoreRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive bool   `json:"isActive"`
}

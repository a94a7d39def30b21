package models

type Tier struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPaid      bool   `json:"is_paid"`
	OrderRank   int    `json:"order_rank"`
}

type CreateTierRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPaid      bool   `json:"is_paid"`
	OrderRank   int    `json:"order_rank" binding:"required"`
}

type UpdateTierRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPaid      *bool   `json:"is_paid"`
	OrderRank   *int    `json:"order_rank"`
}

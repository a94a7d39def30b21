package models

import "time"

// UserPayment даёт доступ к платному Tier, пока is_active и срок не вышел
// (expiry_date == nil — бессрочно).
type UserPayment struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	TierID      int64      `json:"tier_id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	PaymentDate time.Time  `json:"payment_date"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsActive    bool       `json:"is_active"`
}

type CreateUserPaymentRequest struct {
	UserID     int64      `json:"user_id" binding:"required"`
	TierID     int64      `json:"tier_id" binding:"required"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

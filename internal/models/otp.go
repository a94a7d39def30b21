package models

import "time"

// Otp — одна живая запись на email; повторный запрос перезаписывает её.
// Хранится только bcrypt-хэш кода.
type Otp struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

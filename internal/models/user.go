package models

import "time"

// Уровни членства пользователя (не путать с Tier как сущностью контента).
const (
	UserTierStandard = "Standard"
	UserTierSilver   = "Silver"
	UserTierGold     = "Gold"
	UserTierDiamond  = "Diamond"
)

type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	TelegramID         *string   `json:"telegram_id,omitempty"`
	Username           *string   `json:"username,omitempty"`
	LanguagePreference string    `json:"language_preference"`
	WalletAddress      *string   `json:"wallet_address,omitempty"`
	Points             int       `json:"points"`
	Tier               string    `json:"tier"`
	LastActive         time.Time `json:"last_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateUserRequest — явный whitelist изменяемых полей профиля.
type UpdateUserRequest struct {
	Username           *string `json:"username"`
	LanguagePreference *string `json:"language_preference"`
	WalletAddress      *string `json:"wallet_address"`
	TelegramID         *string `json:"telegram_id"`
}

type QuizHistoryEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	QuestionID  int64     `json:"quiz_id"`
	CategoryID  int64     `json:"category_id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

type DailyActivity struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	ActivityID  string    `json:"activity_id"`
	CompletedAt time.Time `json:"completed_at"`
}

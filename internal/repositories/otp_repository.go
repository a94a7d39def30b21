package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"quizarena/internal/models"
)

type OtpRepository interface {
	Upsert(email, codeHash string, sentAt, expiresAt time.Time) error
	GetByEmail(email string) (*models.Otp, error)
	DeleteByEmail(email string) error
}

type otpRepository struct {
	DB *sql.DB
}

func NewOtpRepository(db *sql.DB) OtpRepository {
	return &otpRepository{DB: db}
}

// Upsert — новый запрос затирает предыдущий невостребованный код.
func (r *otpRepository) Upsert(email, codeHash string, sentAt, expiresAt time.Time) error {
	const q = `
		INSERT INTO otps (email, code_hash, sent_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    sent_at    = EXCLUDED.sent_at,
		    expires_at = EXCLUDED.expires_at
	`
	if _, err := r.DB.Exec(q, email, codeHash, sentAt, expiresAt); err != nil {
		return fmt.Errorf("otp upsert: %w", err)
	}
	return nil
}

func (r *otpRepository) GetByEmail(email string) (*models.Otp, error) {
	const q = `SELECT id, email, code_hash, sent_at, expires_at FROM otps WHERE email = $1`
	var o models.Otp
	if err := r.DB.QueryRow(q, email).Scan(&o.ID, &o.Email, &o.CodeHash, &o.SentAt, &o.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("otp get: %w", err)
	}
	return &o, nil
}

func (r *otpRepository) DeleteByEmail(email string) error {
	if _, err := r.DB.Exec(`DELETE FROM otps WHERE email = $1`, email); err != nil {
		return fmt.Errorf("otp delete: %w", err)
	}
	return nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"quizarena/internal/models"
)

type PaymentRepository interface {
	Create(payment *models.UserPayment) error
	List() ([]*models.UserPayment, error)
	// FindActive — активный платёж за (user, tier) с nil или будущим сроком.
	FindActive(userID, tierID int64, now time.Time) (*models.UserPayment, error)
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

const paymentColumns = `
	id, user_id, tier_id, amount, currency, payment_date, expiry_date, is_active
`

func scanPayment(row interface{ Scan(...any) error }) (*models.UserPayment, error) {
	var p models.UserPayment
	err := row.Scan(&p.ID, &p.UserID, &p.TierID, &p.Amount, &p.Currency, &p.PaymentDate, &p.ExpiryDate, &p.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("payment scan: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) Create(payment *models.UserPayment) error {
	const q = `
		INSERT INTO user_payments (user_id, tier_id, amount, currency, expiry_date, is_active)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'USD'), $5, TRUE)
		RETURNING ` + paymentColumns
	created, err := scanPayment(r.DB.QueryRow(q, payment.UserID, payment.TierID, payment.Amount, payment.Currency, payment.ExpiryDate))
	if err != nil {
		return fmt.Errorf("payment create: %w", err)
	}
	*payment = *created
	return nil
}

func (r *paymentRepository) List() ([]*models.UserPayment, error) {
	rows, err := r.DB.Query(`SELECT ` + paymentColumns + ` FROM user_payments ORDER BY payment_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("payment list: %w", err)
	}
	defer rows.Close()

	var out []*models.UserPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentRepository) FindActive(userID, tierID int64, now time.Time) (*models.UserPayment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM user_payments
		WHERE user_id = $1 AND tier_id = $2 AND is_active
		  AND (expiry_date IS NULL OR expiry_date > $3)
		ORDER BY payment_date DESC
		LIMIT 1
	`
	return scanPayment(r.DB.QueryRow(q, userID, tierID, now))
}

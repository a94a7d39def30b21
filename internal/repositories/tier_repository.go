package repositories

import (
	"database/sql"
	"fmt"

	"quizarena/internal/models"
)

type TierRepository interface {
	Create(tier *models.Tier) error
	GetByID(id int64) (*models.Tier, error)
	GetByRank(orderRank int) (*models.Tier, error)
	List() ([]*models.Tier, error)
	UpdateByRank(orderRank int, req *models.UpdateTierRequest) (*models.Tier, error)
}

type tierRepository struct {
	DB *sql.DB
}

func NewTierRepository(db *sql.DB) TierRepository {
	return &tierRepository{DB: db}
}

func scanTier(row interface{ Scan(...any) error }) (*models.Tier, error) {
	var t models.Tier
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.IsPaid, &t.OrderRank); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("tier scan: %w", err)
	}
	return &t, nil
}

func (r *tierRepository) Create(tier *models.Tier) error {
	const q = `
		INSERT INTO tiers (name, description, is_paid, order_rank)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, is_paid, order_rank
	`
	created, err := scanTier(r.DB.QueryRow(q, tier.Name, tier.Description, tier.IsPaid, tier.OrderRank))
	if err != nil {
		return fmt.Errorf("tier create: %w", err)
	}
	*tier = *created
	return nil
}

func (r *tierRepository) GetByID(id int64) (*models.Tier, error) {
	return scanTier(r.DB.QueryRow(`SELECT id, name, description, is_paid, order_rank FROM tiers WHERE id = $1`, id))
}

func (r *tierRepository) GetByRank(orderRank int) (*models.Tier, error) {
	return scanTier(r.DB.QueryRow(`SELECT id, name, description, is_paid, order_rank FROM tiers WHERE order_rank = $1`, orderRank))
}

func (r *tierRepository) List() ([]*models.Tier, error) {
	rows, err := r.DB.Query(`SELECT id, name, description, is_paid, order_rank FROM tiers ORDER BY order_rank ASC`)
	if err != nil {
		return nil, fmt.Errorf("tier list: %w", err)
	}
	defer rows.Close()

	var out []*models.Tier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tierRepository) UpdateByRank(orderRank int, req *models.UpdateTierRequest) (*models.Tier, error) {
	const q = `
		UPDATE tiers SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			is_paid     = COALESCE($4, is_paid),
			order_rank  = COALESCE($5, order_rank)
		WHERE order_rank = $1
		RETURNING id, name, description, is_paid, order_rank
	`
	return scanTier(r.DB.QueryRow(q, orderRank, req.Name, req.Description, req.IsPaid, req.OrderRank))
}

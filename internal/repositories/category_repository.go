package repositories

import (
	"database/sql"
	"fmt"

	"quizarena/internal/models"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id int64) (*models.Category, error)
	GetByRank(orderRank int) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	List() ([]*models.Category, error)
	UpdateByRank(orderRank int, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteByRank(orderRank int) (bool, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OrderRank); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("category scan: %w", err)
	}
	return &c, nil
}

func (r *categoryRepository) Create(category *models.Category) error {
	const q = `
		INSERT INTO categories (name, description, order_rank)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, order_rank
	`
	created, err := scanCategory(r.DB.QueryRow(q, category.Name, category.Description, category.OrderRank))
	if err != nil {
		return fmt.Errorf("category create: %w", err)
	}
	*category = *created
	return nil
}

func (r *categoryRepository) GetByID(id int64) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(`SELECT id, name, description, order_rank FROM categories WHERE id = $1`, id))
}

func (r *categoryRepository) GetByRank(orderRank int) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(`SELECT id, name, description, order_rank FROM categories WHERE order_rank = $1`, orderRank))
}

func (r *categoryRepository) GetByName(name string) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(`SELECT id, name, description, order_rank FROM categories WHERE name = $1`, name))
}

func (r *categoryRepository) List() ([]*models.Category, error) {
	rows, err := r.DB.Query(`SELECT id, name, description, order_rank FROM categories ORDER BY order_rank ASC`)
	if err != nil {
		return nil, fmt.Errorf("category list: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoryRepository) UpdateByRank(orderRank int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	const q = `
		UPDATE categories SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			order_rank  = COALESCE($4, order_rank)
		WHERE order_rank = $1
		RETURNING id, name, description, order_rank
	`
	return scanCategory(r.DB.QueryRow(q, orderRank, req.Name, req.Description, req.OrderRank))
}

// DeleteByRank — вопросы категории уходят каскадом (FK ON DELETE CASCADE),
// переводы — каскадом от вопросов.
func (r *categoryRepository) DeleteByRank(orderRank int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM categories WHERE order_rank = $1`, orderRank)
	if err != nil {
		return false, fmt.Errorf("category delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"quizarena/internal/models"
)

type QuestionRepository interface {
	GetByID(id int64) (*models.Question, error)
	ListByCategoryAndTier(categoryID, tierID int64) ([]*models.Question, error)
	Update(question *models.Question) error
	Delete(id int64) (bool, error)

	// CreateBatch — единственная многошаговая атомарная операция в системе:
	// upsert уровня по order_rank, вставка вопросов и вложенных переводов в
	// одной транзакции. Либо весь батч, либо ничего.
	CreateBatch(categoryID int64, tier *models.CreateTierRequest, items []models.QuestionItem) ([]*models.Question, *models.Tier, error)
}

type questionRepository struct {
	DB *sql.DB
}

func NewQuestionRepository(db *sql.DB) QuestionRepository {
	return &questionRepository{DB: db}
}

const questionColumns = `
	id, question_text, options, correct_option_index, category_id, tier_id, rank
`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var q models.Question
	err := row.Scan(
		&q.ID, &q.QuestionText, pq.Array(&q.Options), &q.CorrectOptionIndex,
		&q.CategoryID, &q.TierID, &q.Rank,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("question scan: %w", err)
	}
	return &q, nil
}

func (r *questionRepository) GetByID(id int64) (*models.Question, error) {
	const q = `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	return scanQuestion(r.DB.QueryRow(q, id))
}

func (r *questionRepository) ListByCategoryAndTier(categoryID, tierID int64) ([]*models.Question, error) {
	const q = `SELECT ` + questionColumns + ` FROM questions WHERE category_id = $1 AND tier_id = $2 ORDER BY rank ASC`
	rows, err := r.DB.Query(q, categoryID, tierID)
	if err != nil {
		return nil, fmt.Errorf("question list: %w", err)
	}
	defer rows.Close()

	var out []*models.Question
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *questionRepository) Update(question *models.Question) error {
	const q = `
		UPDATE questions
		SET question_text = $2, options = $3, correct_option_index = $4
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, question.ID, question.QuestionText, pq.Array(question.Options), question.CorrectOptionIndex); err != nil {
		return fmt.Errorf("question update: %w", err)
	}
	return nil
}

func (r *questionRepository) Delete(id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("question delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *questionRepository) CreateBatch(categoryID int64, tier *models.CreateTierRequest, items []models.QuestionItem) ([]*models.Question, *models.Tier, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("question batch begin: %w", err)
	}
	defer tx.Rollback()

	// upsert уровня: существующий не перезаписываем, новый создаём с
	// присланными полями (единственный auto-create-on-reference в системе).
	const tierQ = `
		INSERT INTO tiers (name, description, is_paid, order_rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_rank) DO UPDATE SET order_rank = EXCLUDED.order_rank
		RETURNING id, name, description, is_paid, order_rank
	`
	var t models.Tier
	if err := tx.QueryRow(tierQ, tier.Name, tier.Description, tier.IsPaid, tier.OrderRank).
		Scan(&t.ID, &t.Name, &t.Description, &t.IsPaid, &t.OrderRank); err != nil {
		return nil, nil, fmt.Errorf("question batch tier upsert: %w", err)
	}

	// rank = max+1 в рамках пары (категория, уровень)
	var nextRank int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(rank), 0) + 1 FROM questions WHERE category_id = $1 AND tier_id = $2`,
		categoryID, t.ID,
	).Scan(&nextRank); err != nil {
		return nil, nil, fmt.Errorf("question batch next rank: %w", err)
	}

	const insertQ = `
		INSERT INTO questions (question_text, options, correct_option_index, category_id, tier_id, rank)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	const trQ = `
		INSERT INTO translations (question_id, language_code, question_text, options)
		VALUES ($1, $2, $3, $4)
	`

	created := make([]*models.Question, 0, len(items))
	for i, item := range items {
		q := &models.Question{
			QuestionText:       item.Question,
			Options:            item.Options,
			CorrectOptionIndex: item.CorrectIndex,
			CategoryID:         categoryID,
			TierID:             t.ID,
			Rank:               nextRank + i,
		}
		if err := tx.QueryRow(insertQ, q.QuestionText, pq.Array(q.Options), q.CorrectOptionIndex, q.CategoryID, q.TierID, q.Rank).Scan(&q.ID); err != nil {
			return nil, nil, fmt.Errorf("question batch insert #%d: %w", i, err)
		}
		for _, tr := range item.Translations {
			if _, err := tx.Exec(trQ, q.ID, tr.LanguageCode, tr.Question, pq.Array(tr.Options)); err != nil {
				return nil, nil, fmt.Errorf("question batch translation #%d/%s: %w", i, tr.LanguageCode, err)
			}
		}
		created = append(created, q)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("question batch commit: %w", err)
	}
	return created, &t, nil
}

package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"quizarena/internal/models"
)

type TranslationRepository interface {
	GetByID(id int64) (*models.Translation, error)
	ListByQuestion(questionID int64) ([]*models.Translation, error)
	FindByQuestionAndLanguage(questionID int64, languageCode string) (*models.Translation, error)
	Update(id int64, req *models.UpdateTranslationRequest) (*models.Translation, error)
	// Upsert по ключу (question_id, language_code); created=true при вставке.
	Upsert(questionID int64, languageCode, questionText string, options []string) (bool, error)
}

type translationRepository struct {
	DB *sql.DB
}

func NewTranslationRepository(db *sql.DB) TranslationRepository {
	return &translationRepository{DB: db}
}

func scanTranslation(row interface{ Scan(...any) error }) (*models.Translation, error) {
	var t models.Translation
	if err := row.Scan(&t.ID, &t.QuestionID, &t.LanguageCode, &t.QuestionText, pq.Array(&t.Options)); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("translation scan: %w", err)
	}
	return &t, nil
}

func (r *translationRepository) GetByID(id int64) (*models.Translation, error) {
	const q = `SELECT id, question_id, language_code, question_text, options FROM translations WHERE id = $1`
	return scanTranslation(r.DB.QueryRow(q, id))
}

func (r *translationRepository) ListByQuestion(questionID int64) ([]*models.Translation, error) {
	const q = `SELECT id, question_id, language_code, question_text, options FROM translations WHERE question_id = $1 ORDER BY language_code ASC`
	rows, err := r.DB.Query(q, questionID)
	if err != nil {
		return nil, fmt.Errorf("translation list: %w", err)
	}
	defer rows.Close()

	var out []*models.Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *translationRepository) FindByQuestionAndLanguage(questionID int64, languageCode string) (*models.Translation, error) {
	const q = `SELECT id, question_id, language_code, question_text, options FROM translations WHERE question_id = $1 AND language_code = $2`
	return scanTranslation(r.DB.QueryRow(q, questionID, languageCode))
}

func (r *translationRepository) Update(id int64, req *models.UpdateTranslationRequest) (*models.Translation, error) {
	const q = `
		UPDATE translations SET
			question_text = COALESCE($2, question_text),
			options       = COALESCE($3, options)
		WHERE id = $1
		RETURNING id, question_id, language_code, question_text, options
	`
	var opts interface{}
	if req.Options != nil {
		opts = pq.Array(req.Options)
	}
	return scanTranslation(r.DB.QueryRow(q, id, req.QuestionText, opts))
}

func (r *translationRepository) Upsert(questionID int64, languageCode, questionText string, options []string) (bool, error) {
	const q = `
		INSERT INTO translations (question_id, language_code, question_text, options)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id, language_code) DO UPDATE
		SET question_text = EXCLUDED.question_text, options = EXCLUDED.options
		RETURNING (xmax = 0)
	`
	var inserted bool
	if err := r.DB.QueryRow(q, questionID, languageCode, questionText, pq.Array(options)).Scan(&inserted); err != nil {
		return false, fmt.Errorf("translation upsert: %w", err)
	}
	return inserted, nil
}

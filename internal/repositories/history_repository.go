package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"quizarena/internal/models"
)

// HistoryRepository — журналы активности вместо неограниченно растущих
// массивов внутри записи пользователя.
type HistoryRepository interface {
	AppendQuiz(entry *models.QuizHistoryEntry) error
	ListQuiz(userID int64) ([]*models.QuizHistoryEntry, error)

	AppendDaily(userID int64, activityID string, completedAt time.Time) error
	ListDaily(userID int64) ([]*models.DailyActivity, error)
	HasDailyBetween(userID int64, activityID string, from, to time.Time) (bool, error)
	CountDailyBetween(userID int64, from, to time.Time) (int, error)
}

type historyRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{DB: db}
}

func (r *historyRepository) AppendQuiz(entry *models.QuizHistoryEntry) error {
	const q = `
		INSERT INTO quiz_history (user_id, question_id, category_id, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, completed_at
	`
	if err := r.DB.QueryRow(q, entry.UserID, entry.QuestionID, entry.CategoryID, entry.Score).
		Scan(&entry.ID, &entry.CompletedAt); err != nil {
		return fmt.Errorf("quiz history append: %w", err)
	}
	return nil
}

func (r *historyRepository) ListQuiz(userID int64) ([]*models.QuizHistoryEntry, error) {
	const q = `
		SELECT id, user_id, question_id, category_id, score, completed_at
		FROM quiz_history
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("quiz history list: %w", err)
	}
	defer rows.Close()

	var out []*models.QuizHistoryEntry
	for rows.Next() {
		var e models.QuizHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.QuestionID, &e.CategoryID, &e.Score, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("quiz history scan: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *historyRepository) AppendDaily(userID int64, activityID string, completedAt time.Time) error {
	const q = `INSERT INTO daily_activities (user_id, activity_id, completed_at) VALUES ($1, $2, $3)`
	if _, err := r.DB.Exec(q, userID, activityID, completedAt); err != nil {
		return fmt.Errorf("daily activity append: %w", err)
	}
	return nil
}

func (r *historyRepository) ListDaily(userID int64) ([]*models.DailyActivity, error) {
	const q = `
		SELECT id, user_id, activity_id, completed_at
		FROM daily_activities
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("daily activity list: %w", err)
	}
	defer rows.Close()

	var out []*models.DailyActivity
	for rows.Next() {
		var a models.DailyActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityID, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("daily activity scan: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *historyRepository) HasDailyBetween(userID int64, activityID string, from, to time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM daily_activities
			WHERE user_id = $1 AND activity_id = $2 AND completed_at >= $3 AND completed_at < $4
		)
	`
	var exists bool
	if err := r.DB.QueryRow(q, userID, activityID, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("daily activity exists: %w", err)
	}
	return exists, nil
}

func (r *historyRepository) CountDailyBetween(userID int64, from, to time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM daily_activities
		WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3
	`
	var c int
	if err := r.DB.QueryRow(q, userID, from, to).Scan(&c); err != nil {
		return 0, fmt.Errorf("daily activity count: %w", err)
	}
	return c, nil
}

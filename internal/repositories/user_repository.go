package repositories

import (
	"database/sql"
	"fmt"

	"quizarena/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByTelegramID(telegramID string) (*models.User, error)
	SetTelegramID(id int64, telegramID string) error
	UpdateProfile(id int64, req *models.UpdateUserRequest) (*models.User, error)
	AddPoints(id int64, delta int) (*models.User, error)
	TouchLastActive(id int64) error

	ListByPoints(limit int) ([]*models.User, error)
	CountWithPointsAbove(points int) (int, error)
	ListRecent() ([]*models.User, error)
	Count() (int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, telegram_id, username, language_preference, wallet_address,
	points, tier, last_active, created_at, updated_at
`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.TelegramID, &u.Username, &u.LanguagePreference,
		&u.WalletAddress, &u.Points, &u.Tier, &u.LastActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	return &u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, telegram_id, username, language_preference, tier)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'en'), $5)
		RETURNING ` + userColumns
	created, err := scanUser(r.DB.QueryRow(q,
		user.Email, user.TelegramID, user.Username, user.LanguagePreference, models.UserTierStandard,
	))
	if err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	*user = *created
	return nil
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) GetByTelegramID(telegramID string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return scanUser(r.DB.QueryRow(q, telegramID))
}

func (r *userRepository) SetTelegramID(id int64, telegramID string) error {
	const q = `UPDATE users SET telegram_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, id, telegramID); err != nil {
		return fmt.Errorf("user set telegram: %w", err)
	}
	return nil
}

// UpdateProfile — только whitelist-поля; COALESCE оставляет прежнее значение,
// если поле не прислано.
func (r *userRepository) UpdateProfile(id int64, req *models.UpdateUserRequest) (*models.User, error) {
	const q = `
		UPDATE users SET
			username            = COALESCE($2, username),
			language_preference = COALESCE($3, language_preference),
			wallet_address      = COALESCE($4, wallet_address),
			telegram_id         = COALESCE($5, telegram_id),
			updated_at          = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(q, id, req.Username, req.LanguagePreference, req.WalletAddress, req.TelegramID))
}

func (r *userRepository) AddPoints(id int64, delta int) (*models.User, error) {
	const q = `
		UPDATE users SET points = points + $2, last_active = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(q, id, delta))
}

func (r *userRepository) TouchLastActive(id int64) error {
	const q = `UPDATE users SET last_active = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("user touch last_active: %w", err)
	}
	return nil
}

func (r *userRepository) listQuery(q string, args ...any) ([]*models.User, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListByPoints — по убыванию очков; limit <= 0 означает без ограничения.
func (r *userRepository) ListByPoints(limit int) ([]*models.User, error) {
	if limit > 0 {
		return r.listQuery(`SELECT `+userColumns+` FROM users ORDER BY points DESC, id ASC LIMIT $1`, limit)
	}
	return r.listQuery(`SELECT ` + userColumns + ` FROM users ORDER BY points DESC, id ASC`)
}

func (r *userRepository) CountWithPointsAbove(points int) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE points > $1`, points).Scan(&c); err != nil {
		return 0, fmt.Errorf("user count above: %w", err)
	}
	return c, nil
}

func (r *userRepository) ListRecent() ([]*models.User, error) {
	return r.listQuery(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
}

func (r *userRepository) Count() (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c); err != nil {
		return 0, fmt.Errorf("user count: %w", err)
	}
	return c, nil
}

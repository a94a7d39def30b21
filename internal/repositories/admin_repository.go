package repositories

import (
	"database/sql"
	"fmt"

	"quizarena/internal/models"
)

type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id int64) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	GetByEmailOrUsername(email, username string) (*models.Admin, error)
	UpdateLastLogin(id int64) error

	SetTwoFASecret(id int64, secret string) error
	MarkTwoFAVerified(id int64) error
	DisableTwoFA(id int64) error

	SetRefreshTokenHash(id int64, hash *string) error
}

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{DB: db}
}

const adminColumns = `
	id, email, username, password_hash, twofa_enabled, twofa_secret,
	twofa_verified, refresh_token_hash, last_login, created_at
`

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.TwoFAEnabled,
		&a.TwoFASecret, &a.TwoFAVerified, &a.RefreshTokenHash, &a.LastLogin, &a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("admin scan: %w", err)
	}
	return &a, nil
}

func (r *adminRepository) Create(admin *models.Admin) error {
	const q = `
		INSERT INTO admins (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + adminColumns
	created, err := scanAdmin(r.DB.QueryRow(q, admin.Email, admin.Username, admin.PasswordHash))
	if err != nil {
		return fmt.Errorf("admin create: %w", err)
	}
	*admin = *created
	return nil
}

func (r *adminRepository) GetByID(id int64) (*models.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.DB.QueryRow(q, id))
}

func (r *adminRepository) GetByEmail(email string) (*models.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return scanAdmin(r.DB.QueryRow(q, email))
}

func (r *adminRepository) GetByEmailOrUsername(email, username string) (*models.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1 OR username = $2 LIMIT 1`
	return scanAdmin(r.DB.QueryRow(q, email, username))
}

func (r *adminRepository) UpdateLastLogin(id int64) error {
	if _, err := r.DB.Exec(`UPDATE admins SET last_login = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("admin last_login: %w", err)
	}
	return nil
}

// SetTwoFASecret — включает 2FA, но сбрасывает подтверждение: enforcement
// в login начинается только после verify.
func (r *adminRepository) SetTwoFASecret(id int64, secret string) error {
	const q = `
		UPDATE admins
		SET twofa_enabled = TRUE, twofa_secret = $2, twofa_verified = FALSE
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, id, secret); err != nil {
		return fmt.Errorf("admin set 2fa secret: %w", err)
	}
	return nil
}

func (r *adminRepository) MarkTwoFAVerified(id int64) error {
	if _, err := r.DB.Exec(`UPDATE admins SET twofa_verified = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("admin mark 2fa verified: %w", err)
	}
	return nil
}

func (r *adminRepository) DisableTwoFA(id int64) error {
	const q = `
		UPDATE admins
		SET twofa_enabled = FALSE, twofa_secret = NULL, twofa_verified = FALSE
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("admin disable 2fa: %w", err)
	}
	return nil
}

func (r *adminRepository) SetRefreshTokenHash(id int64, hash *string) error {
	if _, err := r.DB.Exec(`UPDATE admins SET refresh_token_hash = $2 WHERE id = $1`, id, hash); err != nil {
		return fmt.Errorf("admin set refresh hash: %w", err)
	}
	return nil
}

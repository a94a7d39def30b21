package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"quizarena/internal/middleware"
	"quizarena/internal/models"
	"quizarena/internal/repositories"
	"quizarena/internal/utils"
)

var (
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTfaNotEnabled      = errors.New("2fa not enabled")
	ErrTfaCodeInvalid     = errors.New("2fa code invalid")
)

// AdminLoginResult: при включённой и подтверждённой 2FA токены не выдаются —
// клиент должен дойти через login-with-tfa.
type AdminLoginResult struct {
	RequiresTfa bool          `json:"requires_tfa"`
	TempUserID  int64         `json:"temp_user_id,omitempty"`
	Tokens      *TokenPair    `json:"tokens,omitempty"`
	Admin       *models.Admin `json:"admin,omitempty"`
}

type TfaSetup struct {
	Secret        string `json:"secret"`
	OtpAuthURL    string `json:"otp_auth_url"`
	QRCodeDataURL string `json:"qr_code_data_url"`
}

type AdminAuthService interface {
	CreateAdmin(req *models.CreateAdminRequest) (*models.Admin, error)
	Login(email, password string) (*AdminLoginResult, error)
	LoginWithTfa(email, password, code string) (*TokenPair, *models.Admin, error)
	EnableTfa(adminID int64) (*TfaSetup, error)
	VerifyTfa(adminID int64, code string) error
	DisableTfa(adminID int64) error
	Refresh(refreshToken string) (*TokenPair, *models.Admin, error)
	Profile(adminID int64) (*models.Admin, error)
}

type adminAuthService struct {
	admins     repositories.AdminRepository
	totpIssuer string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAdminAuthService(admins repositories.AdminRepository, totpIssuer string, accessTTL, refreshTTL time.Duration) AdminAuthService {
	return &adminAuthService{
		admins:     admins,
		totpIssuer: totpIssuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *adminAuthService) CreateAdmin(req *models.CreateAdminRequest) (*models.Admin, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)

	existing, err := s.admins.GetByEmailOrUsername(email, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt generate: %w", err)
	}

	admin := &models.Admin{Email: email, Username: username, PasswordHash: string(hash)}
	if err := s.admins.Create(admin); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	log.Printf("[admin][create] id=%d email=%s", admin.ID, admin.Email)
	return admin, nil
}

func (s *adminAuthService) validatePassword(email, password string) (*models.Admin, error) {
	admin, err := s.admins.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *adminAuthService) Login(email, password string) (*AdminLoginResult, error) {
	admin, err := s.validatePassword(email, password)
	if err != nil {
		return nil, err
	}

	// enforcement начинается только после подтверждения кода (verify-tfa)
	if admin.TwoFAEnabled && admin.TwoFAVerified {
		log.Printf("[admin][login] tfa required: id=%d", admin.ID)
		return &AdminLoginResult{RequiresTfa: true, TempUserID: admin.ID}, nil
	}

	pair, err := s.issueTokens(admin)
	if err != nil {
		return nil, err
	}
	if err := s.admins.UpdateLastLogin(admin.ID); err != nil {
		log.Printf("[admin][login] last_login update failed: id=%d err=%v", admin.ID, err)
	}
	return &AdminLoginResult{Tokens: pair, Admin: admin}, nil
}

func (s *adminAuthService) LoginWithTfa(email, password, code string) (*TokenPair, *models.Admin, error) {
	admin, err := s.validatePassword(email, password)
	if err != nil {
		return nil, nil, err
	}
	if !admin.TwoFAEnabled || !admin.TwoFAVerified || admin.TwoFASecret == nil {
		return nil, nil, ErrTfaNotEnabled
	}
	if !validateTotpCode(code, *admin.TwoFASecret) {
		return nil, nil, ErrTfaCodeInvalid
	}

	pair, err := s.issueTokens(admin)
	if err != nil {
		return nil, nil, err
	}
	if err := s.admins.UpdateLastLogin(admin.ID); err != nil {
		log.Printf("[admin][login-tfa] last_login update failed: id=%d err=%v", admin.ID, err)
	}
	return pair, admin, nil
}

func (s *adminAuthService) EnableTfa(adminID int64) (*TfaSetup, error) {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.totpIssuer,
		AccountName: admin.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	if err := s.admins.SetTwoFASecret(admin.ID, key.Secret()); err != nil {
		return nil, err
	}

	dataURL, err := qrDataURL(key)
	if err != nil {
		// секрет уже сохранён; настройка возможна вручную по URL
		log.Printf("[admin][enable-tfa] qr render failed: id=%d err=%v", admin.ID, err)
	}

	return &TfaSetup{Secret: key.Secret(), OtpAuthURL: key.URL(), QRCodeDataURL: dataURL}, nil
}

func (s *adminAuthService) VerifyTfa(adminID int64, code string) error {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return err
	}
	if admin == nil || admin.TwoFASecret == nil {
		return ErrTfaNotEnabled
	}
	if !validateTotpCode(code, *admin.TwoFASecret) {
		return ErrTfaCodeInvalid
	}
	return s.admins.MarkTwoFAVerified(admin.ID)
}

func (s *adminAuthService) DisableTfa(adminID int64) error {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrAdminNotFound
	}
	return s.admins.DisableTwoFA(admin.ID)
}

// Refresh — подпись плюс сверка отпечатка с БД: затирание отпечатка на
// сервере отзывает токен; успешный refresh ротирует пару.
func (s *adminAuthService) Refresh(refreshToken string) (*TokenPair, *models.Admin, error) {
	claims := &middleware.AdminClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(refreshToken), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return middleware.SigningKey(), nil
	})
	if err != nil || !token.Valid || claims.TokenType != middleware.TokenTypeRefresh {
		return nil, nil, ErrInvalidToken
	}

	admin, err := s.admins.GetByID(claims.AdminID)
	if err != nil {
		return nil, nil, err
	}
	if admin == nil || admin.RefreshTokenHash == nil {
		return nil, nil, ErrInvalidToken
	}
	if utils.HashToken(refreshToken) != *admin.RefreshTokenHash {
		return nil, nil, ErrInvalidToken
	}

	pair, err := s.issueTokens(admin)
	if err != nil {
		return nil, nil, err
	}
	return pair, admin, nil
}

func (s *adminAuthService) Profile(adminID int64) (*models.Admin, error) {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *adminAuthService) issueTokens(admin *models.Admin) (*TokenPair, error) {
	newClaims := func(tokenType string, ttl time.Duration) *middleware.AdminClaims {
		return &middleware.AdminClaims{
			AdminID:   admin.ID,
			Username:  admin.Username,
			TokenType: tokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        utils.NewTokenID(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(middleware.TokenTypeAccess, s.accessTTL)).
		SignedString(middleware.SigningKey())
	if err != nil {
		return nil, fmt.Errorf("sign admin access token: %w", err)
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(middleware.TokenTypeRefresh, s.refreshTTL)).
		SignedString(middleware.SigningKey())
	if err != nil {
		return nil, fmt.Errorf("sign admin refresh token: %w", err)
	}

	hash := utils.HashToken(refresh)
	if err := s.admins.SetRefreshTokenHash(admin.ID, &hash); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// validateTotpCode — шаг 30с, допуск ±1 окно на рассинхрон часов.
func validateTotpCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

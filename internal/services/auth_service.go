package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"quizarena/internal/middleware"
	"quizarena/internal/models"
	"quizarena/internal/presence"
	"quizarena/internal/repositories"
	"quizarena/internal/utils"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrOtpInvalid   = errors.New("otp invalid")
	ErrOtpExpired   = errors.New("otp expired")
	ErrInvalidToken = errors.New("invalid token")
)

const otpTTL = 10 * time.Minute

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	RequestOtp(email string) error
	VerifyOtp(email, code string, username, telegramID *string) (*TokenPair, *models.User, error)
	RefreshToken(refreshToken string) (*TokenPair, *models.User, error)
	GetByTelegramID(telegramID string) (*TokenPair, *models.User, error)
	UpdateProfile(userID int64, req *models.UpdateUserRequest) (*models.User, error)
	GetCurrentUser(userID int64) (*models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	otps     repositories.OtpRepository
	emails   EmailService
	tracker  *presence.Tracker
	accessTT time.Duration
	refreshT time.Duration
}

func NewAuthService(
	users repositories.UserRepository,
	otps repositories.OtpRepository,
	emails EmailService,
	tracker *presence.Tracker,
	accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		users:    users,
		otps:     otps,
		emails:   emails,
		tracker:  tracker,
		accessTT: accessTTL,
		refreshT: refreshTTL,
	}
}

func generateOtpCode() string {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%06d", rnd.Intn(1000000))
}

// RequestOtp — строгий вариант: для существующего пользователя это Conflict,
// а не тихий успех. Повторный запрос перезаписывает предыдущий код.
func (s *authService) RequestOtp(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	code := generateOtpCode()
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	now := time.Now()
	if err := s.otps.Upsert(email, string(hashBytes), now, now.Add(otpTTL)); err != nil {
		return err
	}

	if err := s.emails.SendOtpEmail(email, code); err != nil {
		return err
	}

	log.Printf("[auth][otp][send] email=%s", email)
	return nil
}

// VerifyOtp — срок проверяется раньше совпадения кода: протухшая запись
// удаляется, неверный код оставляет живую запись для повторной попытки.
func (s *authService) VerifyOtp(email, code string, username, telegramID *string) (*TokenPair, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	rec, err := s.otps.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, ErrOtpInvalid
	}
	if time.Now().After(rec.ExpiresAt) {
		if err := s.otps.DeleteByEmail(email); err != nil {
			log.Printf("[auth][otp][verify] cleanup of expired record failed: email=%s err=%v", email, err)
		}
		return nil, nil, ErrOtpExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)); err != nil {
		return nil, nil, ErrOtpInvalid
	}

	// код одноразовый
	if err := s.otps.DeleteByEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user = &models.User{Email: email, Username: username, TelegramID: telegramID}
		if err := s.users.Create(user); err != nil {
			return nil, nil, err
		}
		log.Printf("[auth][otp][verify] user created: id=%d email=%s", user.ID, email)
	} else if telegramID != nil {
		if err := s.users.SetTelegramID(user.ID, *telegramID); err != nil {
			return nil, nil, err
		}
		user.TelegramID = telegramID
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.touchPresence(user)
	return pair, user, nil
}

func (s *authService) RefreshToken(refreshToken string) (*TokenPair, *models.User, error) {
	claims := &middleware.UserClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(refreshToken), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return middleware.SigningKey(), nil
	})
	if err != nil || !token.Valid || claims.TokenType != middleware.TokenTypeRefresh {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *authService) GetByTelegramID(telegramID string) (*TokenPair, *models.User, error) {
	user, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.touchPresence(user)
	return pair, user, nil
}

func (s *authService) UpdateProfile(userID int64, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.UpdateProfile(userID, req)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) GetCurrentUser(userID int64) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) issueTokens(user *models.User) (*TokenPair, error) {
	var tg string
	if user.TelegramID != nil {
		tg = *user.TelegramID
	}
	newClaims := func(tokenType string, ttl time.Duration) *middleware.UserClaims {
		return &middleware.UserClaims{
			UserID:     user.ID,
			Email:      user.Email,
			TelegramID: tg,
			TokenType:  tokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        utils.NewTokenID(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(middleware.TokenTypeAccess, s.accessTT)).
		SignedString(middleware.SigningKey())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(middleware.TokenTypeRefresh, s.refreshT)).
		SignedString(middleware.SigningKey())
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) touchPresence(user *models.User) {
	if s.tracker == nil {
		return
	}
	info := presence.Info{UserID: user.ID, Email: user.Email}
	if user.Username != nil {
		info.Username = *user.Username
	}
	if user.TelegramID != nil {
		info.TelegramID = *user.TelegramID
	}
	s.tracker.Touch(info)
}

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizarena/internal/models"
	"quizarena/internal/utils"
)

func newAdminFixture(t *testing.T) (AdminAuthService, *fakeAdminRepo, *models.Admin) {
	t.Helper()
	admins := newFakeAdminRepo()
	svc := NewAdminAuthService(admins, "QuizArena Test", 15*time.Minute, 7*24*time.Hour)

	admin, err := svc.CreateAdmin(&models.CreateAdminRequest{
		Email:    "root@example.com",
		Username: "root",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return svc, admins, admin
}

func TestCreateAdminConflict(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.CreateAdmin(&models.CreateAdminRequest{
		Email:    "root@example.com",
		Username: "other",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrAdminExists)

	_, err = svc.CreateAdmin(&models.CreateAdminRequest{
		Email:    "other@example.com",
		Username: "root",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestAdminLoginWithoutTfa(t *testing.T) {
	svc, admins, admin := newAdminFixture(t)

	result, err := svc.Login("root@example.com", "correct-horse")
	require.NoError(t, err)
	assert.False(t, result.RequiresTfa)
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	// отпечаток refresh-токена лёг на запись админа
	stored, err := admins.GetByID(admin.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, utils.HashToken(result.Tokens.RefreshToken), *stored.RefreshTokenHash)
	assert.NotNil(t, stored.LastLogin)

	_, err = svc.Login("root@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("ghost@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTfaFullFlow(t *testing.T) {
	svc, _, admin := newAdminFixture(t)

	setup, err := svc.EnableTfa(admin.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.True(t, strings.HasPrefix(setup.OtpAuthURL, "otpauth://totp/"))
	assert.True(t, strings.HasPrefix(setup.QRCodeDataURL, "data:image/png;base64,"))

	// до verify обычный login ещё выдаёт токены
	result, err := svc.Login("root@example.com", "correct-horse")
	require.NoError(t, err)
	assert.False(t, result.RequiresTfa)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, svc.VerifyTfa(admin.ID, "000000"), ErrTfaCodeInvalid)
	require.NoError(t, svc.VerifyTfa(admin.ID, code))

	// после verify пароль без кода токенов не даёт
	result, err = svc.Login("root@example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, result.RequiresTfa)
	assert.Equal(t, admin.ID, result.TempUserID)
	assert.Nil(t, result.Tokens)

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	pair, loggedIn, err := svc.LoginWithTfa("root@example.com", "correct-horse", code)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, err = svc.LoginWithTfa("root@example.com", "correct-horse", "999999")
	assert.ErrorIs(t, err, ErrTfaCodeInvalid)

	require.NoError(t, svc.DisableTfa(admin.ID))
	result, err = svc.Login("root@example.com", "correct-horse")
	require.NoError(t, err)
	assert.False(t, result.RequiresTfa)
}

func TestLoginWithTfaRequiresEnabledTfa(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, _, err := svc.LoginWithTfa("root@example.com", "correct-horse", "123456")
	assert.ErrorIs(t, err, ErrTfaNotEnabled)
}

func TestAdminRefreshRotation(t *testing.T) {
	svc, admins, admin := newAdminFixture(t)

	result, err := svc.Login("root@example.com", "correct-horse")
	require.NoError(t, err)
	first := result.Tokens

	pair, refreshed, err := svc.Refresh(first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, refreshed.ID)
	// jti делает пару уникальной даже при выпуске в ту же секунду
	assert.NotEqual(t, first.RefreshToken, pair.RefreshToken)

	// ротация: старый refresh-токен больше не совпадает с отпечатком
	_, _, err = svc.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// новый работает
	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.NoError(t, err)

	// access-токен в refresh не принимается
	_, _, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// затирание отпечатка на сервере отзывает токен
	require.NoError(t, admins.SetRefreshTokenHash(admin.ID, nil))
	latest, lerr := svc.Login("root@example.com", "correct-horse")
	require.NoError(t, lerr)
	require.NoError(t, admins.SetRefreshTokenHash(admin.ID, nil))
	_, _, err = svc.Refresh(latest.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

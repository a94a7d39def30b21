package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// HashToken — отпечаток refresh-токена для хранения в БД. SHA-256 вместо
// bcrypt: bcrypt режет вход на 72 байтах, а JWT длиннее.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewTokenID — случайный jti. iat/exp имеют секундную точность, и без jti
// две пары, выпущенные в одну секунду, совпали бы байт в байт.
func NewTokenID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

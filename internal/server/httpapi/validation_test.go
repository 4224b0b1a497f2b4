package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLuhnValid(t *testing.T) {
	for _, n := range []string{"4111111111111111", "5500000000000004", "4012888888881881", "79927398713"} {
		assert.True(t, luhnValid(n), n)
	}
	for _, n := range []string{"4111111111111112", "1234567812345678", "", "4111-1111"} {
		assert.False(t, luhnValid(n), n)
	}
}

func TestExpirationValid(t *testing.T) {
	at := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)

	assert.True(t, expirationValid("2025/06", at))
	assert.True(t, expirationValid("2025/07", at))
	assert.True(t, expirationValid("2026/01", at))
	assert.False(t, expirationValid("2025/05", at))
	assert.False(t, expirationValid("2024/12", at))
	assert.False(t, expirationValid("2025/00", at))
	assert.False(t, expirationValid("25/06", at))
}

func TestPasswordStrong(t *testing.T) {
	assert.True(t, passwordStrong("Passw0rd"))
	assert.True(t, passwordStrong("Password!"))
	assert.False(t, passwordStrong("password1"))
	assert.False(t, passwordStrong("PASSWORD1"))
	assert.False(t, passwordStrong("Password"))
}

package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysboard/internal/auth/token"
)

var secret = []byte("test-secret")

func TestIssueAndVerify(t *testing.T) {
	raw, err := token.Issue(secret, "user-1", time.Hour, time.Now())
	require.NoError(t, err)

	userID, err := token.Verify(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := token.Issue(secret, "user-1", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = token.Verify([]byte("other-secret"), raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	raw, err := token.Issue(secret, "user-1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = token.Verify(secret, raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestExpiryWithoutVerification(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	raw, err := token.Issue(secret, "user-1", 2*time.Hour, now)
	require.NoError(t, err)

	exp, err := token.Expiry(raw)
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour).Unix(), exp.Unix())
}

func TestExpiryMalformed(t *testing.T) {
	_, err := token.Expiry("not.a.jwt")
	assert.Error(t, err)

	_, err = token.Expiry("")
	assert.Error(t, err)
}

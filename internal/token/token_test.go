package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/model"
)

var testUser = model.User{
	ID:       42,
	Username: "alice123",
	Email:    "a@b.com",
	RoleID:   model.RoleUser,
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 24*time.Hour)

	raw, err := issuer.Issue(testUser, "1.2.3.4")
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice123", claims.Username)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.RoleID)
	assert.Equal(t, "1.2.3.4", claims.IP)
}

func TestIssueWithoutIPOmitsClaim(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue(testUser, "")
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Empty(t, claims.IP)
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	raw, err := issuer.Issue(testUser, "")
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewIssuer("right-secret", time.Hour).Issue(testUser, "")
	require.NoError(t, err)

	_, err = NewIssuer("wrong-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyTamperedPayload(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue(testUser, "")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	// Flip the user ID inside the payload; the signature no longer matches.
	tampered := strings.Replace(string(payload), `"id":42`, `"id":43`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	_, err = issuer.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyTamperedSignature(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue(testUser, "")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = issuer.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, ErrMalformed)
}

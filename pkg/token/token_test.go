package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return signedToken(t, &Claims{
		Name:  "Dana Ops",
		Phone: "+15550100",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_1",
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := tokenExpiringAt(t, exp)

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Dana Ops", claims.Name)
	assert.Equal(t, "+15550100", claims.Phone)
	assert.Equal(t, "usr_1", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two parts", "abc.def"},
		{"bad base64", "a!.b!.c!"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := tokenExpiringAt(t, exp)

	got, ok := ExpiresAt(raw)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestExpiresAt_NoExpiryClaim(t *testing.T) {
	raw := signedToken(t, &Claims{Name: "Dana Ops"})

	_, ok := ExpiresAt(raw)
	assert.False(t, ok)
}

func TestExpired_SkewBoundary(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	raw := tokenExpiringAt(t, now.Add(time.Hour))

	boundary := now.Add(time.Hour).Add(-skewBuffer)

	assert.False(t, Expired(raw, boundary.Add(-time.Second)), "fresh until expiry minus skew")
	assert.True(t, Expired(raw, boundary), "expired exactly at the boundary")
	assert.True(t, Expired(raw, boundary.Add(time.Minute)))
}

func TestExpired_FailSafe(t *testing.T) {
	now := time.Now()

	// Undecodable tokens count as expired.
	assert.True(t, Expired("garbage", now))
	// So do tokens without an expiry claim.
	raw := signedToken(t, &Claims{Name: "Dana Ops"})
	assert.True(t, Expired(raw, now))
}

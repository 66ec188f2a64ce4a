package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "fonthub",
		Duration: time.Hour,
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	ts := testTokens()
	u := &User{ID: "u1", Username: "admin", TokenVersion: 3}

	token, exp, err := ts.Sign(u)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "admin", claims.Username)
	require.Equal(t, 3, claims.TokenVersion)
	require.Equal(t, "fonthub", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokens()
	other := TokenService{Secret: []byte("different"), Issuer: "fonthub", Duration: time.Hour}

	token, _, err := ts.Sign(&User{ID: "u1", Username: "admin"})
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokens()
	ts.Duration = -time.Hour

	token, _, err := ts.Sign(&User{ID: "u1", Username: "admin"})
	require.NoError(t, err)

	_, err = ts.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := testTokens().Parse("not.a.token")
	require.Error(t, err)
}

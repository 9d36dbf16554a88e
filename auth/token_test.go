package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, opts ...TokenOption) *Tokens {
	t.Helper()
	keys, err := NewKeys(testSecret())
	require.NoError(t, err)
	return NewTokens(keys, opts...)
}

func requireRejected(t *testing.T, err error, reason RejectReason) {
	t.Helper()
	require.ErrorIs(t, err, InvalidToken)
	var rejected TokenRejected
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, reason, rejected.Reason)
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tokens := newTestTokens(t, WithClock(func() time.Time { return now }))

	token, err := tokens.Issue(Subject{ID: 42, Name: "alice"}, time.Hour)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, Claims{ID: 42, Name: "alice", Exp: now.Add(time.Hour).Unix()}, claims)
}

func TestTokenHeader(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &Claims{})
	require.NoError(t, err)
	require.Equal(t, "HS256", parsed.Header["alg"])
	require.Equal(t, "JWT", parsed.Header["typ"])
}

func TestTokenExpired(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, -time.Second)
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	requireRejected(t, err, Expired)
}

func TestTokenExpiryBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tokens := newTestTokens(t, WithClock(func() time.Time { return now }))
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, 10*time.Second)
	require.NoError(t, err)

	now = now.Add(9 * time.Second)
	_, err = tokens.Verify(token)
	require.NoError(t, err)

	// exp == now is already expired
	now = now.Add(time.Second)
	_, err = tokens.Verify(token)
	requireRejected(t, err, Expired)
}

func TestTokenTampered(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, time.Hour)
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		b := []byte(token)
		// flip the high bit, the low bits of the last char are padding
		b[i] = alphabet[strings.IndexByte(alphabet, b[i])^32]
		_, err := tokens.Verify(string(b))
		require.ErrorIs(t, err, InvalidToken, "byte %v", i)
	}
}

func TestTokenWrongKey(t *testing.T) {
	token, err := newTestTokens(t).Issue(Subject{ID: 1, Name: "bob"}, time.Hour)
	require.NoError(t, err)

	other, err := NewKeys([]byte("another secret that is long enough"))
	require.NoError(t, err)
	_, err = NewTokens(other).Verify(token)
	requireRejected(t, err, InvalidSignature)
}

func TestTokenExpiredWithBadSignature(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, -time.Hour)
	require.NoError(t, err)

	other, err := NewKeys([]byte("another secret that is long enough"))
	require.NoError(t, err)
	_, err = NewTokens(other).Verify(token)
	requireRejected(t, err, InvalidSignature)
}

func TestTokenMalformed(t *testing.T) {
	tokens := newTestTokens(t)
	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.###"} {
		_, err := tokens.Verify(token)
		requireRejected(t, err, Malformed)
	}
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	tokens := newTestTokens(t)
	claims := Claims{ID: 1, Name: "bob", Exp: time.Now().Add(time.Hour).Unix()}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(unsigned)
	require.ErrorIs(t, err, InvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret())
	require.NoError(t, err)
	_, err = tokens.Verify(hs512)
	requireRejected(t, err, InvalidSignature)
}

func TestClaimsString(t *testing.T) {
	c := Claims{ID: 7, Name: "alice", Exp: 0}
	require.Equal(t, "ID: 7\nName: alice\nExpire: 1970-01-01 00:00:00 +00:00", c.String())
}

func TestTokenSignatureCheckedBeforeClaims(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue(Subject{ID: 1, Name: "bob"}, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	// garbage claims under the original signature
	_, err = tokens.Verify(parts[0] + "." + payload + "." + parts[2])
	requireRejected(t, err, InvalidSignature)

	// garbage claims correctly signed
	signing := parts[0] + "." + payload
	sig, err := jwt.SigningMethodHS256.Sign(signing, testSecret())
	require.NoError(t, err)
	_, err = tokens.Verify(signing + "." + base64.RawURLEncoding.EncodeToString(sig))
	requireRejected(t, err, Malformed)
}

package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCost = MinCost

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestHashWithSaltKnownVector(t *testing.T) {
	salt, err := ParseSalt("XajjQvNhvvRt5GSeFk1xFe")
	require.NoError(t, err)
	hash, err := HashWithSalt("allmine", 10, salt)
	require.NoError(t, err)
	require.Equal(t, "$2b$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga", hash)
}

func TestHashWithSaltIsDeterministic(t *testing.T) {
	var salt Salt
	copy(salt[:], "0123456789abcdef")
	for _, pw := range []string{"", "s3cret", "correct horse battery staple", strings.Repeat("x", 72)} {
		first, err := HashWithSalt(pw, testCost, salt)
		require.NoError(t, err)
		second, err := HashWithSalt(pw, testCost, salt)
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Len(t, first, 60)

		// any bcrypt implementation must accept it
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(first), []byte(pw)))

		ok, err := VerifyPassword(pw, first)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = VerifyPassword(pw+"!", first)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestHashWithSaltRejectsBadInput(t *testing.T) {
	var salt Salt
	_, err := HashWithSalt("pw", MinCost-1, salt)
	require.ErrorAs(t, err, &HashFailure{})
	_, err = HashWithSalt("pw", MaxCost+1, salt)
	require.ErrorAs(t, err, &HashFailure{})
	_, err = HashWithSalt(strings.Repeat("x", 73), testCost, salt)
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestHashRandom(t *testing.T) {
	first, err := HashRandom("s3cret", testCost, nil)
	require.NoError(t, err)
	second, err := HashRandom("s3cret", testCost, nil)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	for _, h := range []string{first, second} {
		ok, err := VerifyPassword("s3cret", h)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestHashRandomUsesReader(t *testing.T) {
	src := bytes.Repeat([]byte{7}, SaltSize)
	got, err := HashRandom("s3cret", testCost, bytes.NewReader(src))
	require.NoError(t, err)

	var salt Salt
	copy(salt[:], src)
	want, err := FixedSaltPolicy{Cost: testCost, Salt: salt}.Hash("s3cret")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHashRandomFailingSource(t *testing.T) {
	_, err := HashRandom("s3cret", testCost, failingReader{})
	var rsf RandomSourceFailure
	require.ErrorAs(t, err, &rsf)

	// a short read is a failure too
	_, err = RandomSaltPolicy{Cost: testCost, Rand: bytes.NewReader([]byte{1, 2, 3})}.Hash("s3cret")
	require.ErrorAs(t, err, &rsf)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("s3cret", "not a bcrypt hash")
	require.ErrorAs(t, err, &HashFailure{})
}

func TestPolicyDefaultCost(t *testing.T) {
	var salt Salt
	hash, err := FixedSaltPolicy{Salt: salt}.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultCost, cost)
}

func TestParseSalt(t *testing.T) {
	_, err := ParseSalt("short")
	require.Error(t, err)
	_, err = ParseSalt("!!!!!!!!!!!!!!!!!!!!!!")
	require.Error(t, err)
}

func TestVerifyPasswordLongerThanLimit(t *testing.T) {
	var salt Salt
	pw := strings.Repeat("x", 72)
	hash, err := HashWithSalt(pw, testCost, salt)
	require.NoError(t, err)

	ok, err := VerifyPassword(pw+"EXTRA", hash)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = VerifyPassword(pw, hash)
	require.NoError(t, err)
	require.True(t, ok)
}

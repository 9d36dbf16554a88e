package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blowfish"
)

const (
	SaltSize    = 16
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
	DefaultCost = bcrypt.DefaultCost
)

const (
	maxPasswordSize   = 72 // bcrypt ignores anything after that
	encodedDigestSize = 23 // C implementations only encode 23 of the 24 encrypted bytes
	hashVersion       = "2b"
)

type (
	Salt [SaltSize]byte

	// FixedSaltPolicy produces the same hash for the same password.
	// Never use it for passwords provided by users.
	FixedSaltPolicy struct {
		Cost int
		Salt Salt
	}

	// RandomSaltPolicy draws a new salt for every hash. Rand defaults to
	// crypto/rand.Reader.
	RandomSaltPolicy struct {
		Cost int
		Rand io.Reader
	}
)

var (
	bcryptEncoding  = base64.NewEncoding("./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789").WithPadding(base64.NoPadding)
	magicCipherData = []byte("OrpheanBeholderScryDoubt")
)

func (p FixedSaltPolicy) Hash(password string) (string, error) {
	return HashWithSalt(password, costOrDefault(p.Cost), p.Salt)
}

func (p RandomSaltPolicy) Hash(password string) (string, error) {
	return HashRandom(password, costOrDefault(p.Cost), p.Rand)
}

// HashWithSalt computes the bcrypt hash of password using the given cost
// and salt. The output uses the modular crypt format ($2b$cost$salt+digest)
// and is accepted by any bcrypt implementation.
func HashWithSalt(password string, cost int, salt Salt) (string, error) {
	if cost < MinCost || cost > MaxCost {
		return "", HashFailure{Cause: bcrypt.InvalidCostError(cost)}
	}
	if len(password) > maxPasswordSize {
		return "", HashFailure{Cause: bcrypt.ErrPasswordTooLong}
	}
	// the trailing NUL is part of the key in every bcrypt implementation
	key := make([]byte, 0, len(password)+1)
	key = append(key, password...)
	key = append(key, 0)
	defer wipe(key)

	cipher, err := blowfish.NewSaltedCipher(key, salt[:])
	if err != nil {
		return "", HashFailure{Cause: err}
	}
	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, cipher)
		blowfish.ExpandKey(salt[:], cipher)
	}

	digest := make([]byte, len(magicCipherData))
	copy(digest, magicCipherData)
	for i := 0; i < len(digest); i += blowfish.BlockSize {
		for j := 0; j < 64; j++ {
			cipher.Encrypt(digest[i:i+blowfish.BlockSize], digest[i:i+blowfish.BlockSize])
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "$%v$%02d$", hashVersion, cost)
	out.WriteString(bcryptEncoding.EncodeToString(salt[:]))
	out.WriteString(bcryptEncoding.EncodeToString(digest[:encodedDigestSize]))
	return out.String(), nil
}

// HashRandom reads SaltSize bytes from rnd and uses them as the salt. A
// failing rnd is reported as RandomSourceFailure, there is no fallback salt.
func HashRandom(password string, cost int, rnd io.Reader) (string, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	var salt Salt
	if _, err := io.ReadFull(rnd, salt[:]); err != nil {
		return "", RandomSourceFailure{Cause: err}
	}
	return HashWithSalt(password, cost, salt)
}

// VerifyPassword checks password against a stored bcrypt hash. A mismatch
// is not an error; an unparseable hash is. Passwords longer than 72 bytes
// never match, bcrypt would only look at their prefix.
func VerifyPassword(password, stored string) (bool, error) {
	if len(password) > maxPasswordSize {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	}
	return false, HashFailure{Cause: err}
}

// ParseSalt decodes a salt in the bcrypt alphabet (22 chars), as found
// inside a hash.
func ParseSalt(encoded string) (Salt, error) {
	var s Salt
	buf, err := bcryptEncoding.DecodeString(encoded)
	if err != nil {
		return s, fmt.Errorf("invalid salt encoding, cause %w", err)
	} else if len(buf) != SaltSize {
		return s, fmt.Errorf("salt should have %v bytes got %v", SaltSize, len(buf))
	}
	copy(s[:], buf)
	return s, nil
}

func costOrDefault(c int) int {
	if c == 0 {
		return DefaultCost
	}
	return c
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

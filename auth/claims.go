package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type (
	// Subject identifies who a token is issued to.
	Subject struct {
		ID   int64
		Name string
	}

	// Claims is the payload of every token.
	Claims struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Exp  int64  `json:"exp"`
	}
)

var _ jwt.Claims = Claims{}

func (c Claims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0)
}

func (c Claims) String() string {
	return fmt.Sprintf("ID: %v\nName: %v\nExpire: %v", c.ID, c.Name, c.ExpiresAt().UTC().Format("2006-01-02 15:04:05 -07:00"))
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(c.ExpiresAt()), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetSubject() (string, error)             { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

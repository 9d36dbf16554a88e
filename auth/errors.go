package auth

import (
	"errors"
	"fmt"
	"net/http"
)

type (
	// AuthError is the set of outcomes a client is allowed to see.
	AuthError byte

	// RejectReason tells why a token failed verification. It is only
	// meant for server side logs.
	RejectReason byte

	TokenRejected struct {
		Reason RejectReason
		Cause  error
	}

	HashFailure struct {
		Cause error
	}

	RandomSourceFailure struct {
		Cause error
	}
)

const (
	WrongCredentials AuthError = iota + 1
	MissingCredentials
	TokenCreation
	InvalidToken
	MissingToken
)

const (
	Malformed RejectReason = iota + 1
	InvalidSignature
	Expired
)

var (
	ErrEmptySecret = errors.New("auth: signing secret cannot be empty")
)

func (a AuthError) Error() string {
	return fmt.Sprintf("auth: %v", a.Message())
}

// Message is the text sent back to clients
func (a AuthError) Message() string {
	switch a {
	case WrongCredentials:
		return "Wrong credentials"
	case MissingCredentials:
		return "Missing credentials"
	case TokenCreation:
		return "Token creation error"
	case InvalidToken:
		return "Invalid token"
	case MissingToken:
		return "Missing token"
	}
	return "Internal error"
}

// Status maps the error to the http status code used on responses.
func (a AuthError) Status() int {
	switch a {
	case WrongCredentials:
		return http.StatusUnauthorized
	case MissingCredentials, InvalidToken, MissingToken:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (r RejectReason) String() string {
	switch r {
	case Malformed:
		return "malformed"
	case InvalidSignature:
		return "invalid signature"
	case Expired:
		return "expired"
	}
	return "unknown"
}

func (t TokenRejected) Error() string {
	if t.Cause == nil {
		return fmt.Sprintf("token rejected: %v", t.Reason)
	}
	return fmt.Sprintf("token rejected: %v, cause %v", t.Reason, t.Cause)
}

func (t TokenRejected) Unwrap() error {
	return t.Cause
}

// Is reports every rejection as InvalidToken, callers are not supposed to
// tell the reasons apart.
func (t TokenRejected) Is(target error) bool {
	return target == InvalidToken
}

func (h HashFailure) Error() string {
	return fmt.Sprintf("auth: unable to hash password, cause %v", h.Cause)
}

func (h HashFailure) Unwrap() error {
	return h.Cause
}

func (r RandomSourceFailure) Error() string {
	return fmt.Sprintf("auth: unable to read random salt, cause %v", r.Cause)
}

func (r RandomSourceFailure) Unwrap() error {
	return r.Cause
}

// Package api exposes the login flow and the protected area over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/httpserver"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

const (
	maxBodySize    = 1 << 20
	protectedIntro = "Welcome to the protected area :)\nYour data:\n"
)

type (
	tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

// AsHandler returns a router with the /auth endpoints.
func AsHandler(ctx context.Context, svc *auth.Service) (http.Handler, error) {
	router := httprouter.New()
	Mount(router, svc, NewRealm(svc.Verifier()))
	return router, nil
}

func Mount(router *httprouter.Router, svc *auth.Service, realm *Realm) {
	router.HandlerFunc("POST", "/auth/authorize", authorize(svc))
	router.Handler("GET", "/auth/protected", realm.Protect(http.HandlerFunc(protected)))
}

func authorize(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err := dec.Decode(&req); err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Debug().Err(err).Msg("Unable to decode login request")
			WriteError(w, r, auth.MissingCredentials)
			return
		}
		token, err := svc.Authorize(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		httpserver.WriteJSON(r.Context(), w, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
		})
	}
}

func protected(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.MissingToken)
		return
	}
	httpserver.WriteText(w, http.StatusOK, protectedIntro+claims.String())
}

// WriteError converts err into one of the fixed status and message pairs.
// Server faults are logged with their cause, which is never sent to the
// client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Internal error"
	var authErr auth.AuthError
	switch {
	case errors.As(err, &authErr):
		status, msg = authErr.Status(), authErr.Message()
	case errors.Is(err, auth.InvalidToken):
		status, msg = auth.InvalidToken.Status(), auth.InvalidToken.Message()
	}
	if status >= http.StatusInternalServerError {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	httpserver.WriteErrorMessage(r.Context(), w, status, msg)
}

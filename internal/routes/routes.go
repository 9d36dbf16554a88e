// Package routes puts every HTTP endpoint of turnstile behind a single
// handler.
package routes

import (
	"context"
	"net/http"

	"github.com/andrebq/turnstile/auth"
	authapi "github.com/andrebq/turnstile/auth/api"
	"github.com/andrebq/turnstile/credstore"
	usersapi "github.com/andrebq/turnstile/credstore/api"
	"github.com/andrebq/turnstile/internal/httpserver"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

func AsHandler(ctx context.Context, svc *auth.Service, store credstore.Store) (http.Handler, error) {
	router := httprouter.New()

	authapi.Mount(router, svc, authapi.NewRealm(svc.Verifier()))
	usersapi.Mount(router, svc, store)
	router.HandlerFunc("GET", "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpserver.WriteText(w, http.StatusOK, "ok")
	})
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpserver.WriteErrorMessage(r.Context(), w, http.StatusNotFound, "Not found")
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("Handler panicked")
		httpserver.WriteErrorMessage(r.Context(), w, http.StatusInternalServerError, "Internal error")
	}

	return logutil.AccessLog(router), nil
}

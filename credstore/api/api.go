// Package api exposes user registration and lookup over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/andrebq/turnstile/auth"
	authapi "github.com/andrebq/turnstile/auth/api"
	"github.com/andrebq/turnstile/credstore"
	"github.com/andrebq/turnstile/internal/httpserver"
	"github.com/andrebq/turnstile/internal/logutil"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/julienschmidt/httprouter"
)

const (
	maxBodySize = 1 << 20
	maxNameSize = 64
)

type (
	registerRequest struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	// user is the public view of a credential, the hash never leaves the
	// server.
	user struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}
)

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameSize)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

func AsHandler(ctx context.Context, svc *auth.Service, store credstore.Store) (http.Handler, error) {
	router := httprouter.New()
	Mount(router, svc, store)
	return router, nil
}

func Mount(router *httprouter.Router, svc *auth.Service, store credstore.Store) {
	router.HandlerFunc("POST", "/users", register(svc))
	router.HandlerFunc("GET", "/users", lookup(store))
}

func register(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req registerRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err := dec.Decode(&req); err != nil {
			httpserver.WriteErrorMessage(ctx, w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			httpserver.WriteErrorMessage(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		_, err := svc.Register(ctx, req.Name, req.Password)
		switch {
		case errors.Is(err, credstore.NameTaken{}):
			httpserver.WriteErrorMessage(ctx, w, http.StatusConflict, "Name already taken")
			return
		case err != nil:
			authapi.WriteError(w, r, err)
			return
		}
		httpserver.WriteText(w, http.StatusOK, "ok")
	}
}

// lookup finds users by id and/or name. With both parameters the user is
// returned only when they agree, with neither the result is empty.
func lookup(store credstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()
		idParam, name := q.Get("id"), q.Get("name")
		found := []user{}

		var cred credstore.Credential
		var err error
		switch {
		case idParam != "":
			id, perr := strconv.ParseInt(idParam, 10, 64)
			if perr != nil {
				httpserver.WriteErrorMessage(ctx, w, http.StatusBadRequest, "Invalid id")
				return
			}
			cred, err = store.FindByID(ctx, id)
			if err == nil && name != "" && cred.Name != name {
				err = credstore.UserNotFound{ID: id, Name: name}
			}
		case name != "":
			cred, err = store.FindByName(ctx, name)
		default:
			httpserver.WriteJSON(ctx, w, http.StatusOK, found)
			return
		}

		switch {
		case errors.Is(err, credstore.UserNotFound{}):
		case err != nil:
			log := logutil.GetOrDefault(ctx)
			log.Error().Err(err).Msg("User lookup failed")
			httpserver.WriteErrorMessage(ctx, w, http.StatusInternalServerError, "Internal error")
			return
		default:
			found = append(found, user{ID: cred.ID, Name: cred.Name, CreatedAt: cred.CreatedAt})
		}
		httpserver.WriteJSON(ctx, w, http.StatusOK, found)
	}
}

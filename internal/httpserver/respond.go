package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andrebq/turnstile/internal/logutil"
)

type (
	errorBody struct {
		Error string `json:"error"`
	}
)

// WriteJSON encodes v and writes it with the given status.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Error().Err(err).Msg("Unable to encode response")
		status = http.StatusInternalServerError
		buf = []byte(`{"error":"Internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}

// WriteErrorMessage sends {"error": msg} with the given status.
func WriteErrorMessage(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	WriteJSON(ctx, w, status, errorBody{Error: msg})
}

// WriteText sends a plain text body.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write([]byte(body))
}

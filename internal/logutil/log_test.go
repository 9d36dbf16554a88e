package logutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", false, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	fallback := New("not a level", false, &buf)
	fallback.Info().Msg("fallback")
	require.Contains(t, buf.String(), "fallback")
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New("debug", false, &buf))
	var seen string
	handler := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := GetOrDefault(r.Context())
		log.Debug().Msg("inside")
		seen = w.Header().Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/brew", nil).WithContext(ctx))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	require.Equal(t, seen, entry["request.id"])
	require.Equal(t, "/brew", entry["http.path"])
	require.Equal(t, float64(http.StatusTeapot), entry["http.status"])
}

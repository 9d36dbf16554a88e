package logutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog tags every request with an id, stores a logger carrying that
// id in the request context and logs the outcome once next returns.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		log := GetOrDefault(r.Context()).With().Str("request.id", reqID).Logger()
		w.Header().Set(RequestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(WithLogger(r.Context(), log)))
		log.Info().
			Str("http.method", r.Method).
			Str("http.path", r.URL.Path).
			Int("http.status", rec.status).
			Dur("http.duration", time.Since(start)).
			Msg("Request served")
	})
}

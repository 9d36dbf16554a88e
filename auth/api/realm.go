package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/logutil"
)

type (
	// Realm gates handlers behind a valid bearer token.
	Realm struct {
		verifier auth.Verifier
	}

	claimsKey byte
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)
)

func NewRealm(verifier auth.Verifier) *Realm {
	return &Realm{verifier: verifier}
}

// Extract validates the Authorization header of req.
//
// No header is MissingToken. Anything else that fails, including a scheme
// other than Bearer, is InvalidToken. The precise reason only reaches the
// logs.
func (s *Realm) Extract(req *http.Request) (auth.Claims, error) {
	hdrVal, found := req.Header["Authorization"]
	if !found || len(hdrVal) == 0 {
		return auth.Claims{}, auth.MissingToken
	}
	groups := bearerTokenRE.FindStringSubmatch(hdrVal[0])
	if len(groups) == 0 {
		return auth.Claims{}, auth.InvalidToken
	}
	claims, err := s.verifier.Verify(groups[1])
	if err != nil {
		log := logutil.GetOrDefault(req.Context())
		log.Debug().Err(err).Msg("Bearer token rejected")
		return auth.Claims{}, auth.InvalidToken
	}
	return claims, nil
}

// Protect only calls sensitive when the request carries a valid token. The
// claims are available to sensitive through ClaimsFromContext.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.Extract(r)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey(1), c)
}

func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey(1)).(auth.Claims)
	return c, ok
}

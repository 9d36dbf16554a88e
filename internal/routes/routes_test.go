package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/testutil"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

func acquireHandler(ctx context.Context, t *testing.T) (http.Handler, func()) {
	store, cleanup := testutil.AcquireStore(ctx, t, "routes")
	keys, err := auth.NewKeys([]byte("blmHX4evD5FygUEa3EWxjzuAPF7lC4sKuWBrhgti/20="))
	require.NoError(t, err)
	svc := auth.NewService(store, auth.NewTokens(keys), auth.RandomSaltPolicy{Cost: auth.MinCost}, 0)
	handler, err := AsHandler(ctx, svc, store)
	require.NoError(t, err)
	return handler, cleanup
}

func login(t *testing.T, handler http.Handler, body string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/authorize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "Bearer", res.TokenType)
	return res.AccessToken
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := acquireHandler(ctx, t)
	defer cleanup()

	apitest.New().
		Handler(handler).
		Post("/users").
		JSON(`{"name": "alice", "password": "s3cret"}`).
		Expect(t).
		Status(http.StatusOK).
		Body("ok").
		End()

	token := login(t, handler, `{"name": "alice", "password": "s3cret"}`)

	apitest.New().
		Handler(handler).
		Get("/auth/protected").
		Header("Authorization", fmt.Sprintf("Bearer %v", token)).
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			body, err := io.ReadAll(res.Body)
			if err != nil {
				return err
			}
			if !strings.Contains(string(body), "alice") {
				return fmt.Errorf("welcome message should mention alice, got %q", body)
			}
			return nil
		}).
		End()

	apitest.New().
		Handler(handler).
		Get("/auth/protected").
		Expect(t).
		Status(http.StatusBadRequest).
		End()

	apitest.New().
		Handler(handler).
		Post("/auth/authorize").
		JSON(`{"name": "alice", "password": "wrong"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Wrong credentials")).
		End()
}

func TestLoginByID(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := acquireHandler(ctx, t)
	defer cleanup()

	apitest.New().
		Handler(handler).
		Post("/users").
		JSON(`{"name": "bob", "password": "hunter2"}`).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Get("/users").
		Query("name", "bob").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$[0].id", float64(1))).
		End()

	login(t, handler, `{"id": 1, "password": "hunter2"}`)
}

func TestHealthAndNotFound(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := acquireHandler(ctx, t)
	defer cleanup()

	apitest.New().
		Handler(handler).
		Get("/healthz").
		Expect(t).
		Status(http.StatusOK).
		Body("ok").
		HeaderPresent("X-Request-Id").
		End()

	apitest.New().
		Handler(handler).
		Get("/nowhere").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

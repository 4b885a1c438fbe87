package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/justsurfingit/jobly/internal/middleware"
)

func TestAuthToken(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		want    int
		message any
	}{
		{"works", map[string]any{"username": "u1", "password": "password-u1"}, http.StatusOK, nil},
		{"unauth with non-existent user", map[string]any{"username": "no-such-user", "password": "password1"}, http.StatusUnauthorized, "Invalid username/password"},
		{"unauth with wrong password", map[string]any{"username": "u1", "password": "nope"}, http.StatusUnauthorized, "Invalid username/password"},
		{"bad request with missing data", map[string]any{"username": "u1"}, http.StatusBadRequest, []string{`instance requires property "password"`}},
		{"bad request with invalid data", map[string]any{"username": 42, "password": "above-is-a-number"}, http.StatusBadRequest, []string{"instance.username is not of a type(s) string"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := s.do(t, http.MethodPost, "/auth/token", tt.body, "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.message != nil {
				assertBody(t, rec, errorBody(tt.want, tt.message))
				return
			}
			token, _ := decode(t, rec)["token"].(string)
			claims, err := s.tokens.Parse(token)
			if err != nil {
				t.Fatal(err)
			}
			if claims.Username != "u1" || claims.IsAdmin {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}

func TestAuthRegister(t *testing.T) {
	body := map[string]any{
		"username":  "new",
		"firstName": "first",
		"lastName":  "last",
		"password":  "password",
		"email":     "new@email.com",
	}

	t.Run("works for anon", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodPost, "/auth/register", body, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
		token, _ := decode(t, rec)["token"].(string)
		claims, err := s.tokens.Parse(token)
		if err != nil {
			t.Fatal(err)
		}
		if claims.Username != "new" || claims.IsAdmin {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("cannot register as admin", func(t *testing.T) {
		s := newTestServer(t, nil)
		withAdmin := map[string]any{"isAdmin": true}
		for k, v := range body {
			withAdmin[k] = v
		}
		if rec := s.do(t, http.MethodPost, "/auth/register", withAdmin, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("bad request with missing fields", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodPost, "/auth/register", map[string]any{"username": "new"}, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		assertBody(t, rec, errorBody(http.StatusBadRequest, []string{
			`instance requires property "password"`,
			`instance requires property "firstName"`,
			`instance requires property "lastName"`,
			`instance requires property "email"`,
		}))
	})

	t.Run("bad request with invalid email", func(t *testing.T) {
		s := newTestServer(t, nil)
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["email"] = "not-an-email"
		rec := s.do(t, http.MethodPost, "/auth/register", bad, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		assertBody(t, rec, errorBody(http.StatusBadRequest, []string{"email must be a valid email"}))
	})
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(t, nil)
	s.router = NewRouter(Deps{
		Companies:    s.companies,
		Jobs:         s.jobs,
		Users:        s.users,
		Tokens:       s.tokens,
		LoginLimiter: middleware.NewRateLimiter(2, time.Hour),
	})

	login := map[string]any{"username": "u1", "password": "wrong"}
	for i := 0; i < 2; i++ {
		if rec := s.do(t, http.MethodPost, "/auth/token", login, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d", i+1, rec.Code)
		}
	}
	rec := s.do(t, http.MethodPost, "/auth/token", login, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	assertBody(t, rec, errorBody(http.StatusTooManyRequests, "Too many requests"))

	// Other routes are not throttled.
	if rec := s.do(t, http.MethodGet, "/jobs", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("GET /jobs status = %d", rec.Code)
	}
}

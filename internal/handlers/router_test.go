package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/auth"
	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/dtos"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	tokens     *auth.TokenManager
	users      *fakeUsers
	companies  *fakeCompanies
	jobs       *fakeJobs
	u1Token    string
	adminToken string
}

func newTestServer(t *testing.T, extractor JobExtractor) *testServer {
	t.Helper()
	tm, err := auth.NewTokenManager(config.SecurityConfig{SecretKey: "secret-for-tests"})
	if err != nil {
		t.Fatal(err)
	}
	s := &testServer{
		tokens:    tm,
		users:     newFakeUsers(),
		companies: newFakeCompanies(),
		jobs:      newFakeJobs(),
	}
	s.router = NewRouter(Deps{
		Companies: s.companies,
		Jobs:      s.jobs,
		Users:     s.users,
		Extractor: extractor,
		Tokens:    tm,
	})
	s.u1Token, _ = tm.CreateToken("u1", false)
	s.adminToken, _ = tm.CreateToken("admin1", true)
	return s
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return out
}

// asJSON round-trips v so it compares equal to a decoded response.
func asJSON(t *testing.T, v any) any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func errorBody(status int, message any) map[string]any {
	return map[string]any{"error": map[string]any{"message": message, "status": float64(status)}}
}

func assertBody(t *testing.T, rec *httptest.ResponseRecorder, want any) {
	t.Helper()
	got := decode(t, rec)
	if w := asJSON(t, want); !reflect.DeepEqual(got, w) {
		t.Errorf("body = %v, want %v", got, w)
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertBody(t, rec, map[string]any{"status": "ok"})
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/nope", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	assertBody(t, rec, errorBody(http.StatusNotFound, "Not Found"))
}

func TestUserRoutesRequireUsername(t *testing.T) {
	s := newTestServer(t, nil)
	nameless, err := s.tokens.CreateToken("", true)
	if err != nil {
		t.Fatal(err)
	}

	routes := []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/u1"},
		{http.MethodDelete, "/users/u1"},
		{http.MethodPost, "/users/u1/jobs/1"},
	}
	for _, rt := range routes {
		for name, token := range map[string]string{"anon": "", "nameless admin": nameless} {
			t.Run(name+" "+rt.method+" "+rt.path, func(t *testing.T) {
				rec := s.do(t, rt.method, rt.path, nil, token)
				if rec.Code != http.StatusUnauthorized {
					t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
				}
				assertBody(t, rec, errorBody(http.StatusUnauthorized, "Unauthorized"))
			})
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/companies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestExtractJobRoute(t *testing.T) {
	salary := 120000
	draft := &dtos.JobDraft{Title: "Data Engineer", Salary: &salary}

	t.Run("works for admin", func(t *testing.T) {
		s := newTestServer(t, &fakeExtractor{draft: draft})
		rec := s.do(t, http.MethodPost, "/jobs/extract", map[string]any{"rawText": "Hiring a Data Engineer", "companyHandle": "c1"}, s.adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
		assertBody(t, rec, map[string]any{"job": map[string]any{
			"title": "Data Engineer", "salary": 120000, "equity": nil, "companyHandle": "c1",
		}})
	})

	t.Run("unauth for non-admin", func(t *testing.T) {
		s := newTestServer(t, &fakeExtractor{draft: draft})
		rec := s.do(t, http.MethodPost, "/jobs/extract", map[string]any{"rawText": "x"}, s.u1Token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("bad request when not configured", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodPost, "/jobs/extract", map[string]any{"rawText": "x"}, s.adminToken)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		assertBody(t, rec, errorBody(http.StatusBadRequest, "Job extraction is not configured"))
	})

	t.Run("model failure is a 500", func(t *testing.T) {
		s := newTestServer(t, &fakeExtractor{err: errors.New("quota exceeded")})
		rec := s.do(t, http.MethodPost, "/jobs/extract", map[string]any{"rawText": "x"}, s.adminToken)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		assertBody(t, rec, errorBody(http.StatusInternalServerError, "Internal Server Error"))
	})
}

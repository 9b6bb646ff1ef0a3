package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"skillsync-backend/config"
	"skillsync-backend/internal/analysis"
	v1 "skillsync-backend/internal/delivery/http/v1"
	"skillsync-backend/internal/repository/sqlite"
	"skillsync-backend/internal/usecase"
	"skillsync-backend/pkg/auth"
	"skillsync-backend/pkg/database"
	"skillsync-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	resumeText     = "I am a Software Engineer skilled in Python and SQL."
	jobDescription = "Looking for a Software Developer with SQL and Leadership."
)

// promptCompleter answers each pipeline step by recognising its prompt.
type promptCompleter struct {
	down bool
}

func (p *promptCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if p.down {
		return "", errors.New("upstream: status 503")
	}
	switch {
	case strings.Contains(prompt, "Extract the professional skills") && strings.Contains(prompt, "Python"):
		return `["Software Engineer", "Python", "SQL"]`, nil
	case strings.Contains(prompt, "Extract the professional skills"):
		return `["Software Developer", "SQL", "Leadership"]`, nil
	case strings.Contains(prompt, "compare a candidate's skills"):
		return `{"matching": ["Software Developer", "SQL"], "missing": ["Leadership"], "jobTitle": "Software Developer"}`, nil
	case strings.Contains(prompt, "career advisor"):
		return "Solid technical match. Leadership experience is not shown.", nil
	case strings.Contains(prompt, "career coach"):
		return `[{"suggestion": "Lead a team project.", "topic": "Leadership"}]`, nil
	}
	return "", errors.New("unexpected prompt")
}

type testServer struct {
	router    *gin.Engine
	completer *promptCompleter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	db, err := database.NewSQLiteConnection(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.New()
	cfg.JWTSecret = "router-test-secret"
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.GinMode = gin.TestMode
	// The in-memory limiter is process wide; keep it out of the way.
	cfg.RateLimitGlobalThreshold = 10000
	cfg.RateLimitAuthThreshold = 10000
	cfg.RateLimitLoginThreshold = 10000
	cfg.RateLimitAnalyzeThreshold = 10000

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	require.NoError(t, err)

	completer := &promptCompleter{}
	catalog := analysis.NewResourceCatalog(cfg.ResourceSearchURL)
	m := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:     usecase.NewAuthUsecase(sqlite.NewUserRepository(db), tokens),
		AIUC:       usecase.NewAIUsecase(completer, catalog, m),
		AnalysisUC: usecase.NewAnalysisUsecase(sqlite.NewAnalysisRepository(db), validator.New()),
		HealthUC:   usecase.NewHealthUsecase(db.PingContext, nil),
		Catalog:    catalog,
		Metrics:    m,
		Config:     cfg,
	})
	return &testServer{router: router, completer: completer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
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

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type loginBody struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

func (s *testServer) registerAndLogin(t *testing.T, email string) loginBody {
	t.Helper()
	creds := map[string]string{"email": email, "password": "s3cret-pass"}
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginBody](t, rec)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "alice@example.com", "password": "s3cret-pass"}

	t.Run("Should register a new account", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Registration successful.", decode[map[string]string](t, rec)["message"])
	})

	t.Run("Should reject a duplicate email regardless of case", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "Alice@Example.com", "password": "another-pass",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already registered.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should reject an invalid email", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "not-an-email", "password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should reject an over-long password with a validation error", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "long@example.com", "password": strings.Repeat("p", 80),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Password must be at most 72 characters.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should accept a password at the length limit", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "limit@example.com", "password": strings.Repeat("p", 72),
		})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("Should answer a short wrong password with 401", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "abc",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should reject an unknown account with the same message", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should log in and set the session cookies", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[loginBody](t, rec)
		assert.NotEmpty(t, body.Token)
		assert.NotEmpty(t, body.User.ID)
		assert.Equal(t, "alice@example.com", body.User.Email)
		assert.NotContains(t, rec.Body.String(), "password")

		cookies := rec.Result().Cookies()
		names := make([]string, 0, len(cookies))
		for _, c := range cookies {
			names = append(names, c.Name)
			if c.Name == "auth_token" {
				assert.True(t, c.HttpOnly)
			}
		}
		assert.ElementsMatch(t, []string{"auth_token", "csrf_token"}, names)
	})
}

func TestAnalysisStore(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice@example.com")
	bob := s.registerAndLogin(t, "bob@example.com")

	save := map[string]any{
		"resumeText":     resumeText,
		"jobDescription": jobDescription,
		"matchScore":     0.5,
		"matchingSkills": `["SQL"]`,
		"missingSkills":  `["Leadership"]`,
		"analysis":       "Decent fit.",
		"improvements":   `[{"suggestion":"Lead a team project.","resourceUrl":"https://www.coursera.org/search?query=Leadership","searchTerm":"Leadership"}]`,
		"jobTitle":       "Software Developer",
	}

	t.Run("Should require authentication", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/analysis/save", "", save).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/analysis/mine", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/analysis/mine", "not-a-token", nil).Code)
	})

	t.Run("Should reject skill fields that are not JSON arrays", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range save {
			bad[k] = v
		}
		bad["matchingSkills"] = "SQL, Leadership"
		rec := s.do(t, http.MethodPost, "/api/analysis/save", alice.Token, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[map[string]string](t, rec)["error"], "Matching skills")
	})

	var savedID string
	t.Run("Should save for the caller", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/analysis/save", alice.Token, save)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "Analysis saved.", body["message"])
		savedID = body["id"]
		assert.NotEmpty(t, savedID)
	})

	t.Run("Should list only the caller's analyses", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/analysis/mine", alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]map[string]any](t, rec)
		require.Len(t, list, 1)
		assert.Equal(t, savedID, list[0]["id"])
		assert.Equal(t, "Software Developer", list[0]["jobTitle"])
		assert.Equal(t, jobDescription, list[0]["jobDescription"])
		assert.Contains(t, list[0], "createdAt")

		rec = s.do(t, http.MethodGet, "/api/analysis/mine", bob.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Should return the full report to its owner", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/analysis/"+savedID, alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		report := decode[map[string]any](t, rec)
		assert.Equal(t, []any{"SQL"}, report["matchingSkills"])
		assert.Equal(t, []any{"Leadership"}, report["missingSkills"])
		assert.Equal(t, 0.5, report["matchScore"])
		improvements, ok := report["improvements"].([]any)
		require.True(t, ok)
		assert.Len(t, improvements, 1)
	})

	t.Run("Should hide another account's report", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/analysis/"+savedID, bob.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Analysis not found.", decode[map[string]string](t, rec)["error"])
	})

	t.Run("Should treat a malformed id as not found", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/analysis/12345", alice.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := map[string]string{"resumeText": resumeText, "jobDescription": jobDescription}

	t.Run("Should analyze without authentication", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/ai/analyze", "", req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result struct {
			MatchScore     float64  `json:"matchScore"`
			MatchingSkills []string `json:"matchingSkills"`
			MissingSkills  []string `json:"missingSkills"`
			Analysis       string   `json:"analysis"`
			Improvements   []struct {
				Suggestion  string `json:"suggestion"`
				ResourceURL string `json:"resourceUrl"`
				SearchTerm  string `json:"searchTerm"`
			} `json:"improvements"`
			JobTitle string `json:"jobTitle"`
			Warning  string `json:"warning"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

		assert.InDelta(t, 2.0/3.0, result.MatchScore, 1e-9)
		assert.Contains(t, result.MatchingSkills, "SQL")
		assert.Contains(t, result.MatchingSkills, "Software Developer")
		assert.Contains(t, result.MissingSkills, "Leadership")
		assert.Equal(t, "Software Developer", result.JobTitle)
		assert.NotEmpty(t, result.Analysis)
		require.Len(t, result.Improvements, 1)
		assert.Equal(t, "Leadership", result.Improvements[0].SearchTerm)
		assert.Equal(t, "https://www.coursera.org/search?query=Leadership", result.Improvements[0].ResourceURL)
		assert.Empty(t, result.Warning)
	})

	t.Run("Should reject a blank resume", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/ai/analyze", "", map[string]string{
			"resumeText": "   ", "jobDescription": jobDescription,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should return a generic 500 when the completion endpoint is down", func(t *testing.T) {
		s.completer.down = true
		defer func() { s.completer.down = false }()

		rec := s.do(t, http.MethodPost, "/api/ai/analyze", "", req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "An unexpected error occurred. Please try again later.", decode[map[string]string](t, rec)["error"])
		assert.NotContains(t, rec.Body.String(), "503")
	})
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("Should report health", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","database":"ok","redis":"disabled"}`, rec.Body.String())
	})

	t.Run("Should look up learning resources", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/resources/SQL", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "SQL", body["skill"])
		assert.NotEmpty(t, body["resources"])
		assert.Equal(t, "https://www.coursera.org/search?query=SQL", body["searchUrl"])
	})

	t.Run("Should expose prometheus metrics", func(t *testing.T) {
		s.do(t, http.MethodGet, "/api/health", "", nil)
		rec := s.do(t, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "skillsync_api_http_requests_total")
	})

	t.Run("Should tag every response with a request id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/health", "", nil)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

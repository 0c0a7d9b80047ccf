package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docmanager-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:             "test",
		JWTSecret:       "bootstrap-secret",
		JWTTTL:          time.Hour,
		BcryptCost:      4,
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		MaxUploadBytes:  1 << 20,
	}
}

func buildApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected in-memory repositories without DATABASE_URL")
	}
	return app
}

func send(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func loginAs(t *testing.T, app *App, name, email, role string) string {
	t.Helper()
	resp := send(t, app, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "pa55word", "role": role,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	resp = send(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "pa55word",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil || payload.Token == "" {
		t.Fatalf("decode token: %v %s", err, resp.Body.String())
	}
	return payload.Token
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildRejectsEmptySecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = ""
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error without JWT secret")
	}
}

func TestHealthAndMetricsAreUnauthenticated(t *testing.T) {
	app := buildApp(t, testConfig(t))

	resp := send(t, app, http.MethodGet, "/api/v1/health", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"database":"memory"`) {
		t.Fatalf("unexpected health body %s", resp.Body.String())
	}

	resp = send(t, app, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestRoleMatrixAcrossResources(t *testing.T) {
	app := buildApp(t, testConfig(t))
	admin := loginAs(t, app, "Ada", "ada@example.com", "admin")
	editor := loginAs(t, app, "Eve", "eve@example.com", "editor")
	viewer := loginAs(t, app, "Vic", "vic@example.com", "viewer")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"admin lists users", http.MethodGet, "/api/v1/users", admin, nil, http.StatusOK},
		{"editor cannot list users", http.MethodGet, "/api/v1/users", editor, nil, http.StatusForbidden},
		{"viewer lists documents", http.MethodGet, "/api/v1/documents", viewer, nil, http.StatusOK},
		{"viewer cannot read ingestions", http.MethodGet, "/api/v1/ingestions", viewer, nil, http.StatusForbidden},
		{"editor creates ingestion", http.MethodPost, "/api/v1/ingestions", editor, map[string]string{"sourceType": "s3"}, http.StatusCreated},
		{"no token", http.MethodGet, "/api/v1/documents", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/documents", "garbage", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := send(t, app, tc.method, tc.path, tc.token, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestDocumentUploadThroughRouter(t *testing.T) {
	app := buildApp(t, testConfig(t))
	editor := loginAs(t, app, "Eve", "eve@example.com", "editor")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("title", "Quarterly report")
	part, err := writer.CreateFormFile("file", "report.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte("numbers"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+editor)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Document struct {
			ID         string `json:"id"`
			UploadedBy struct {
				Email string `json:"email"`
			} `json:"uploadedBy"`
		} `json:"document"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Document.UploadedBy.Email != "eve@example.com" {
		t.Fatalf("expected uploader to be stamped, got %s", resp.Body.String())
	}

	resp = send(t, app, http.MethodGet, "/api/v1/documents/"+created.Document.ID+"/file", editor, nil)
	if resp.Code != http.StatusOK || resp.Body.String() != "numbers" {
		t.Fatalf("download: %d %q", resp.Code, resp.Body.String())
	}
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthRateLimitRPS = 0.001
	cfg.AuthRateLimitBurst = 1
	app := buildApp(t, cfg)

	creds := map[string]string{"email": "nobody@example.com", "password": "x"}
	resp := send(t, app, http.MethodPost, "/api/v1/auth/login", "", creds)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("first login: expected 401, got %d", resp.Code)
	}
	resp = send(t, app, http.MethodPost, "/api/v1/auth/login", "", creds)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second login: expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

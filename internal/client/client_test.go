package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"docmanager-backend/internal/bootstrap"
	"docmanager-backend/internal/shared/config"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := bootstrap.Build(config.Config{
		Env:             "test",
		JWTSecret:       "client-secret",
		JWTTTL:          time.Hour,
		BcryptCost:      4,
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		MaxUploadBytes:  1 << 20,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv
}

func loggedIn(t *testing.T, srv *httptest.Server, email, role string) *Client {
	t.Helper()
	c := New(srv.URL+"/api/v1", NewMemorySession())
	ctx := context.Background()
	if _, err := c.Signup(ctx, NewUser{Name: "Test", Email: email, Password: "pa55word", Role: role}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := c.Login(ctx, email, "pa55word"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }

func TestGuardedCallWithoutTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemorySession())
	if _, err := c.ListDocuments(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request, got %d", hits.Load())
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"user no longer exists"}}`))
	}))
	defer srv.Close()

	session := NewMemorySession()
	token := signedToken(t, time.Now().Add(time.Hour))
	_ = session.Save(token)

	c := New(srv.URL, session)
	if _, err := c.Profile(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if gotAuth != "Bearer "+token {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if tok, _ := session.Token(); tok != "" {
		t.Fatalf("expected session cleared")
	}
}

func TestLoginFailureIsAPIError(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL+"/api/v1", NewMemorySession())

	err := c.Login(context.Background(), "ghost@example.com", "nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "invalid_credentials" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestAccountFlow(t *testing.T) {
	srv := newAPI(t)
	c := loggedIn(t, srv, "ada@example.com", "")

	profile, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.Role != "viewer" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	_, err = c.Signup(context.Background(), NewUser{Name: "Again", Email: "ada@example.com", Password: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := c.Profile(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired after logout, got %v", err)
	}
}

func TestUserManagement(t *testing.T) {
	srv := newAPI(t)
	admin := loggedIn(t, srv, "root@example.com", "admin")
	ctx := context.Background()

	created, err := admin.CreateUser(ctx, NewUser{Name: "Eve", Email: "eve@example.com", Password: "pw", Role: "editor"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	updated, err := admin.UpdateUser(ctx, created.ID, UserEdit{Role: strPtr("viewer")})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Role != "viewer" || updated.Name != "Eve" {
		t.Fatalf("unexpected update %+v", updated)
	}
	list, err := admin.ListUsers(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListUsers: %v %d", err, len(list))
	}
	if err := admin.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	_, err = admin.GetUser(ctx, created.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newAPI(t)
	editor := loggedIn(t, srv, "eve@example.com", "editor")
	ctx := context.Background()

	doc, err := editor.UploadDocument(ctx, DocumentUpload{
		Title:    strPtr("Plan"),
		FileName: "plan.txt",
		Body:     strings.NewReader("version one"),
	})
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if doc.UploadedBy == nil || doc.UploadedBy.Email != "eve@example.com" {
		t.Fatalf("expected uploader, got %+v", doc.UploadedBy)
	}

	_, err = editor.UploadDocument(ctx, DocumentUpload{Title: strPtr("No file")})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "missing_file" {
		t.Fatalf("expected missing_file, got %v", err)
	}

	edited, err := editor.UpdateDocument(ctx, doc.ID, DocumentUpload{
		Description: strPtr("second draft"),
		FileName:    "plan-v2.txt",
		Body:        strings.NewReader("version two"),
	})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	if edited.Title != "Plan" || edited.Description != "second draft" || edited.FileName != "plan-v2.txt" {
		t.Fatalf("unexpected edit %+v", edited)
	}

	var buf bytes.Buffer
	if _, err := editor.DownloadDocument(ctx, doc.ID, &buf); err != nil {
		t.Fatalf("DownloadDocument: %v", err)
	}
	if buf.String() != "version two" {
		t.Fatalf("unexpected content %q", buf.String())
	}

	if err := editor.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	list, err := editor.ListDocuments(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %d %v", len(list), err)
	}
}

func TestIngestionLifecycle(t *testing.T) {
	srv := newAPI(t)
	admin := loggedIn(t, srv, "root@example.com", "admin")
	ctx := context.Background()

	job, err := admin.CreateIngestion(ctx, "s3")
	if err != nil {
		t.Fatalf("CreateIngestion: %v", err)
	}
	if job.Status != "pending" {
		t.Fatalf("expected pending, got %s", job.Status)
	}

	job, err = admin.UpdateIngestion(ctx, job.ID, IngestionEdit{Status: strPtr("running"), Logs: []string{"started"}})
	if err != nil {
		t.Fatalf("UpdateIngestion: %v", err)
	}
	job, err = admin.UpdateIngestion(ctx, job.ID, IngestionEdit{Status: strPtr("completed"), Logs: []string{"done"}})
	if err != nil {
		t.Fatalf("UpdateIngestion: %v", err)
	}
	if job.Status != "completed" || len(job.Logs) != 2 {
		t.Fatalf("unexpected job %+v", job)
	}

	got, err := admin.GetIngestion(ctx, job.ID)
	if err != nil || got.ID != job.ID {
		t.Fatalf("GetIngestion: %v", err)
	}
	if err := admin.DeleteIngestion(ctx, job.ID); err != nil {
		t.Fatalf("DeleteIngestion: %v", err)
	}
	list, err := admin.ListIngestions(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %d %v", len(list), err)
	}
}

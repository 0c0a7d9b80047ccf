// Package client is the HTTP client used by docctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrLoginRequired is returned when a guarded call has no usable token or the
// server rejected the stored one.
var ErrLoginRequired = errors.New("login required")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to the document manager API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session Session
}

// New returns a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, session Session) *Client {
	if session == nil {
		session = NewMemorySession()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Session: session,
	}
}

type request struct {
	method      string
	path        string
	guarded     bool
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, guarded bool, payload any) (request, error) {
	req := request{method: method, path: path, guarded: guarded}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return request{}, err
		}
		req.body = bytes.NewReader(raw)
		req.contentType = "application/json"
	}
	return req, nil
}

// send performs r and returns the response for 2xx statuses; the caller closes the body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	var token string
	if r.guarded {
		t, err := c.Session.Token()
		if err != nil {
			return nil, err
		}
		if t == "" {
			return nil, ErrLoginRequired
		}
		token = t
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL+r.path, r.body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if r.guarded && resp.StatusCode == http.StatusUnauthorized {
		if err := c.Session.Clear(); err != nil {
			return nil, err
		}
		return nil, ErrLoginRequired
	}
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, guarded bool, payload, out any) error {
	r, err := jsonRequest(method, path, guarded, payload)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, r, out)
}

func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// Signup registers an account. It does not log in.
func (c *Client) Signup(ctx context.Context, in NewUser) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.call(ctx, http.MethodPost, "/auth/signup", false, in, &out)
	return out.User, err
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", false, payload, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("login response carried no token")
	}
	return c.Session.Save(out.Token)
}

// Logout forgets the stored token.
func (c *Client) Logout() error {
	return c.Session.Clear()
}

func (c *Client) Profile(ctx context.Context) (User, error) {
	var out User
	err := c.call(ctx, http.MethodGet, "/auth/profile", true, nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.call(ctx, http.MethodGet, "/users", true, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var out User
	err := c.call(ctx, http.MethodGet, resourcePath("/users", id), true, nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, in NewUser) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.call(ctx, http.MethodPost, "/users", true, in, &out)
	return out.User, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserEdit) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.call(ctx, http.MethodPut, resourcePath("/users", id), true, in, &out)
	return out.User, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, resourcePath("/users", id), true, nil, nil)
}

func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var out []Document
	err := c.call(ctx, http.MethodGet, "/documents", true, nil, &out)
	return out, err
}

func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	var out Document
	err := c.call(ctx, http.MethodGet, resourcePath("/documents", id), true, nil, &out)
	return out, err
}

// DocumentUpload is the multipart payload for document create and edit.
// On edit, nil Title/Description and a nil Body leave those fields unchanged.
type DocumentUpload struct {
	Title       *string
	Description *string
	FileName    string
	Body        io.Reader
}

func (u DocumentUpload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if u.Title != nil {
		if err := w.WriteField("title", *u.Title); err != nil {
			return nil, "", err
		}
	}
	if u.Description != nil {
		if err := w.WriteField("description", *u.Description); err != nil {
			return nil, "", err
		}
	}
	if u.Body != nil {
		part, err := w.CreateFormFile("file", u.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, u.Body); err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) UploadDocument(ctx context.Context, in DocumentUpload) (Document, error) {
	return c.sendDocument(ctx, http.MethodPost, "/documents", in)
}

func (c *Client) UpdateDocument(ctx context.Context, id string, in DocumentUpload) (Document, error) {
	return c.sendDocument(ctx, http.MethodPut, resourcePath("/documents", id), in)
}

func (c *Client) sendDocument(ctx context.Context, method, path string, in DocumentUpload) (Document, error) {
	body, contentType, err := in.encode()
	if err != nil {
		return Document{}, err
	}
	var out struct {
		Document Document `json:"document"`
	}
	err = c.doJSON(ctx, request{method: method, path: path, guarded: true, body: body, contentType: contentType}, &out)
	return out.Document, err
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, resourcePath("/documents", id), true, nil, nil)
}

// DownloadDocument streams the stored file into w and returns the bytes written.
func (c *Client) DownloadDocument(ctx context.Context, id string, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: resourcePath("/documents", id) + "/file", guarded: true})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

func (c *Client) ListIngestions(ctx context.Context) ([]Ingestion, error) {
	var out []Ingestion
	err := c.call(ctx, http.MethodGet, "/ingestions", true, nil, &out)
	return out, err
}

func (c *Client) GetIngestion(ctx context.Context, id string) (Ingestion, error) {
	var out Ingestion
	err := c.call(ctx, http.MethodGet, resourcePath("/ingestions", id), true, nil, &out)
	return out, err
}

func (c *Client) CreateIngestion(ctx context.Context, sourceType string) (Ingestion, error) {
	var out struct {
		Ingestion Ingestion `json:"ingestion"`
	}
	payload := map[string]string{"sourceType": sourceType}
	err := c.call(ctx, http.MethodPost, "/ingestions", true, payload, &out)
	return out.Ingestion, err
}

func (c *Client) UpdateIngestion(ctx context.Context, id string, in IngestionEdit) (Ingestion, error) {
	var out struct {
		Ingestion Ingestion `json:"ingestion"`
	}
	err := c.call(ctx, http.MethodPut, resourcePath("/ingestions", id), true, in, &out)
	return out.Ingestion, err
}

func (c *Client) DeleteIngestion(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, resourcePath("/ingestions", id), true, nil, nil)
}

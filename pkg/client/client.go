package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"

	"github.com/avellar/dermterm/pkg/domain"
)

// ProfileResponse is the session probe payload: the authenticated user plus
// their analysis history. History may be absent; callers must treat nil as
// an empty sequence.
type ProfileResponse struct {
	User            domain.User             `json:"user"`
	AnalysisHistory []domain.AnalysisRecord `json:"analysisHistory"`
}

// Client is the Dermalyze API client. Authentication is a session cookie
// held in the client's jar; callers never see credential material.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a new API client with a fresh cookie jar.
func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New with nil options cannot fail
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// Profile fetches the current user and analysis history. A non-2xx response
// means no active session.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.get(ctx, "/profile", &resp); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &resp, nil
}

// Login authenticates with email and password. On success the session
// cookie is captured by the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.post(ctx, "/login", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp.User, nil
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.post(ctx, "/register", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp.User, nil
}

// Logout ends the server-side session. Best effort; the caller clears local
// state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Analyze submits an image to the analysis endpoint as a multipart upload
// and returns the prediction.
func (c *Client) Analyze(ctx context.Context, filename string, file io.Reader) (*domain.Prediction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("client.Analyze: create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("client.Analyze: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client.Analyze: finalize form: %w", err)
	}

	var pred domain.Prediction
	if err := c.do(ctx, http.MethodPost, "/predict", mw.FormDataContentType(), &buf, &pred); err != nil {
		return nil, fmt.Errorf("client.Analyze: %w", err)
	}
	return &pred, nil
}

// DashboardStats fetches aggregate analysis figures.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/dashboard", &stats); err != nil {
		return nil, fmt.Errorf("client.DashboardStats: %w", err)
	}
	return &stats, nil
}

// SendFeedback submits free-form feedback text.
func (c *Client) SendFeedback(ctx context.Context, text string) error {
	if err := c.post(ctx, "/feedback", map[string]string{"feedback": text}, nil); err != nil {
		return fmt.Errorf("client.SendFeedback: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, contentType, reqBody, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			"method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	c.log.DebugContext(ctx, "request done",
		"method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

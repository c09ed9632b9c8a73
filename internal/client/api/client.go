// Package api is the CLI's HTTP client for the showcase backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"showcase/internal/client/session"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	// BaseURLEnv overrides DefaultBaseURL.
	BaseURLEnv = "SHOWCASE_API"

	defaultTimeout = 15 * time.Second
)

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

type ProjectSubmission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
	GithubURL   string `json:"github_url,omitempty"`
	DemoURL     string `json:"demo_url,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Category    string `json:"category,omitempty"`
}

type SubmitResponse struct {
	Message   string `json:"message"`
	ProjectID int64  `json:"project_id"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURLFromEnv returns $SHOWCASE_API or DefaultBaseURL.
func BaseURLFromEnv() string {
	if u := os.Getenv(BaseURLEnv); u != "" {
		return u
	}
	return DefaultBaseURL
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, username, email, password, githubUsername string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if githubUsername != "" {
		body["github_username"] = githubUsername
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitProject posts p with token as the bearer credential.
func (c *Client) SubmitProject(ctx context.Context, token string, p ProjectSubmission) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/projects", token, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(res.StatusCode)
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &Error{Status: res.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

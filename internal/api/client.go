package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sadopc/taskdeck/internal/notify"
)

const genericErrorMessage = "An error occurred"

// Error is a non-2xx response decoded once at the client boundary. Callers
// never re-parse raw error bodies.
type Error struct {
	Status      int
	Message     string
	FieldErrors []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// envelope is the fixed response shape shared by every endpoint.
type envelope struct {
	Content json.RawMessage `json:"content"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

// Client issues authenticated requests against the backend. It attaches the
// bearer credential before each send, surfaces non-2xx messages through the
// notifier, and owns 401 handling: the unauthorized hook runs once per 401
// so the rest of the system can tear the session down and return to login.
type Client struct {
	http    *http.Client
	baseURL string
	notify  notify.Notifier

	token        func() string
	unauthorized func()
}

func NewClient(baseURL string, n notify.Notifier) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		notify:  n,
		token:   func() string { return "" },
	}
}

// SetTokenSource installs the credential source consulted before each send.
func (c *Client) SetTokenSource(fn func() string) {
	c.token = fn
}

// SetUnauthorizedHook installs the side effect run on any 401 response.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.unauthorized = fn
}

// do sends one request and decodes the envelope content into out (if out is
// non-nil). Transport failures are returned as-is; HTTP failures are
// notified here and returned as *Error. No retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body is tolerated; the envelope stays zero.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.unauthorized != nil {
			c.unauthorized()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Status:      resp.StatusCode,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}
		// Field-level errors take precedence over the envelope message.
		if len(env.Errors) > 0 {
			apiErr.Message = env.Errors[0]
		}
		if apiErr.Message == "" {
			apiErr.Message = genericErrorMessage
		}
		c.notify.Error(apiErr.Message)
		return apiErr
	}

	if out != nil && len(env.Content) > 0 {
		if err := json.Unmarshal(env.Content, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is a response with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, msg)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool { return e.Code >= 500 }

// IsNotFound reports whether err is a 404 from the store.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// retryable reports whether a failed attempt may be repeated: network
// failures and 5xx are, client errors and cancellation are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

// RetryPolicy bounds how often a request is attempted.
type RetryPolicy struct {
	Attempts int           // total, including the first
	Base     time.Duration // wait before the second attempt
	Factor   float64       // growth of the wait per attempt
}

// DefaultRetry makes three attempts, waiting 200ms then 400ms.
var DefaultRetry = RetryPolicy{Attempts: 3, Base: 200 * time.Millisecond, Factor: 2}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.Base)
	for i := 1; i < attempt; i++ {
		d *= p.Factor
	}
	return time.Duration(d)
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Client talks to a document store laid out as /{collection}/{target}.
type Client struct {
	BaseURL    string
	Collection string
	HTTP       *http.Client
	Retry      RetryPolicy
}

// NewClient returns a client with the default retry policy.
func NewClient(baseURL, collection string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Collection: strings.Trim(collection, "/"),
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Retry:      DefaultRetry,
	}
}

func (c *Client) url(target string, suffix ...string) string {
	parts := append([]string{c.BaseURL, url.PathEscape(c.Collection), url.PathEscape(target)}, suffix...)
	return strings.Join(parts, "/")
}

// do runs one request with retries and returns the response body.
func (c *Client) do(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	attempts := c.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; ; attempt++ {
		var data []byte
		data, err = c.once(ctx, method, u, body)
		if err == nil {
			return data, nil
		}
		if !retryable(err) || attempt >= attempts {
			break
		}
		wait := c.Retry.delay(attempt)
		log.Printf("[SYNC] %s %s failed (attempt %d/%d), retrying in %v: %v", method, u, attempt, attempts, wait, err)
		if serr := sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (c *Client) once(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: u, Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// Load fetches the document for target.
func (c *Client) Load(ctx context.Context, target string) (*Document, error) {
	data, err := c.do(ctx, http.MethodGet, c.url(target), nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return &doc, nil
}

// Save replaces the document for target and returns what the store kept.
// The result is nil when the store answers without a body.
func (c *Client) Save(ctx context.Context, target string, doc Document) (*Document, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", target, err)
	}
	data, err := c.do(ctx, http.MethodPut, c.url(target), body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var saved Document
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return &saved, nil
}

// Exists asks whether target has a document.
func (c *Client) Exists(ctx context.Context, target string) (bool, error) {
	data, err := c.do(ctx, http.MethodGet, c.url(target, "exists"), nil)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return false, fmt.Errorf("decode exists: %w", err)
	}
	return out.Exists, nil
}

// Delete removes target's document.
func (c *Client) Delete(ctx context.Context, target string) error {
	_, err := c.do(ctx, http.MethodDelete, c.url(target), nil)
	return err
}

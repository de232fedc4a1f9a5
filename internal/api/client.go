package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Client talks to one spreadsheet RPC endpoint. The canonical record store and
// the auxiliary auth/requests store are two Clients with different URLs.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the endpoint at baseURL
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		logger:     logger,
	}
}

// buildURL appends action and the params to the base URL. Empty values are
// dropped unless keepEmpty is set.
func (c *Client) buildURL(action string, params map[string]string, keepEmpty bool) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse endpoint url: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		if v != "" || keepEmpty {
			q.Set(k, v)
		}
	}
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get issues a read call
func (c *Client) get(ctx context.Context, action string, params map[string]string) (any, error) {
	return c.do(ctx, http.MethodGet, action, params, false)
}

// post issues a mutating call with the params URL-encoded in the query
func (c *Client) post(ctx context.Context, action string, params map[string]string) (any, error) {
	return c.do(ctx, http.MethodPost, action, params, false)
}

// postAll is post that also sends empty values, so the store clears those cells
func (c *Client) postAll(ctx context.Context, action string, params map[string]string) (any, error) {
	return c.do(ctx, http.MethodPost, action, params, true)
}

func (c *Client) do(ctx context.Context, method, action string, params map[string]string, keepEmpty bool) (any, error) {
	fullURL, err := c.buildURL(action, params, keepEmpty)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}

	log := c.logger.With("action", action, "method", method, "req_id", reqID)
	log.Debug("api request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error("api request failed", "error", err)
		return nil, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}
	if resp.StatusCode >= 300 {
		log.Error("api request failed", "status", resp.StatusCode)
		return nil, &TransportError{Action: action, StatusCode: resp.StatusCode}
	}

	return handleResponse(action, body, log)
}

// handleResponse decodes a body and turns status "error" into a ProtocolError
func handleResponse(action string, body []byte, log *slog.Logger) (any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		snippet := string(body)
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		log.Error("api response was not JSON", "body", snippet)
		return nil, &FormatError{Action: action, Body: snippet, Err: err}
	}

	if obj, ok := decoded.(map[string]any); ok {
		if status, _ := obj["status"].(string); strings.EqualFold(status, "error") {
			msg, _ := obj["message"].(string)
			if msg == "" {
				msg = "Unknown API Error"
			}
			return nil, &ProtocolError{Action: action, Message: msg}
		}
	}
	return decoded, nil
}

// envelopeList extracts the list under key from an object envelope, or the
// response itself when it is a bare array
func envelopeList(decoded any, keys ...string) []any {
	switch v := decoded.(type) {
	case []any:
		return v
	case map[string]any:
		for _, k := range keys {
			if list, ok := v[k].([]any); ok {
				return list
			}
		}
	}
	return nil
}

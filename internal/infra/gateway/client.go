package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/krishivikas/assistant/internal/domain/analysis"
	"github.com/krishivikas/assistant/internal/domain/fieldscan"
	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// User-facing error strings. The backend sometimes returns its own error
// message; these are the fallbacks when it does not.
const (
	msgNetworkError  = "Network error. Please check your connection and try again."
	msgRequestFailed = "Request failed"
)

// Client talks to the farmer-assistant backend. All methods honour the
// passed context; the configured timeout is the outer bound.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// envelope is the uniform wrapper every endpoint responds with.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Analyze submits a query and decodes whichever answer shape the backend
// produced.
func (c *Client) Analyze(ctx context.Context, p analysis.Payload) (analysis.Result, error) {
	raw, err := c.post(ctx, "/api/analyze", p)
	if err != nil {
		return analysis.Result{}, err
	}
	return analysis.Decode(raw), nil
}

// Health pings the backend. A nil error means it answered.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNetwork, "build health request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNetwork, msgNetworkError, nil)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apperrors.Wrap(apperrors.CodeBackend, fmt.Sprintf("health check returned %d", resp.StatusCode), nil)
	}
	return nil
}

// CheckProximity asks whether a tree already exists near a location.
func (c *Client) CheckProximity(ctx context.Context, q fieldscan.ProximityQuery) (fieldscan.ProximityResult, error) {
	raw, err := c.post(ctx, "/check-proximity", q)
	if err != nil {
		return fieldscan.ProximityResult{}, err
	}
	var out fieldscan.ProximityResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return fieldscan.ProximityResult{}, apperrors.Wrap(apperrors.CodeDecode, "decode proximity result", err)
	}
	return out, nil
}

// SaveDecision records how the user resolved a duplicate tree pair.
func (c *Client) SaveDecision(ctx context.Context, d fieldscan.DecisionRequest) error {
	_, err := c.post(ctx, "/save-decision", d)
	return err
}

// SaveTree persists one classified, geotagged tree.
func (c *Client) SaveTree(ctx context.Context, rec fieldscan.TreeRecord) error {
	_, err := c.post(ctx, "/save-tree", rec)
	return err
}

var _ fieldscan.Backend = (*Client)(nil)

// Dashboard returns the raw dashboard document for a user. The plots
// domain flattens it into rows.
func (c *Client) Dashboard(ctx context.Context, userID string) (json.RawMessage, error) {
	u := c.baseURL + "/dashboard?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, "build dashboard request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, msgNetworkError, nil)
	}
	defer resp.Body.Close()
	return c.read(resp)
}

// post sends a JSON body and unwraps the response envelope, returning
// the data payload.
func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", "path", path, "error", err)
		return nil, apperrors.Wrap(apperrors.CodeNetwork, msgNetworkError, nil)
	}
	defer resp.Body.Close()
	c.log.Debug("backend request", "path", path, "status", resp.StatusCode, "took", time.Since(start))

	return c.read(resp)
}

// read decodes the envelope from a response, surfacing backend-supplied
// error messages when present.
func (c *Client) read(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, msgNetworkError, nil)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, apperrors.Wrap(apperrors.CodeBackend, msgRequestFailed, nil)
		}
		// Not enveloped at all: hand the body through as-is.
		return body, nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = msgRequestFailed
		}
		return nil, apperrors.Wrap(apperrors.CodeBackend, msg, nil)
	}
	if resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = msgRequestFailed
		}
		return nil, apperrors.Wrap(apperrors.CodeBackend, msg, nil)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return body, nil
}

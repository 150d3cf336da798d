// Package apiclient talks to the association's REST API, the portal's only
// persistent store. Responses use a {success, data} envelope; transport
// failures and upstream rejections map onto distinct error classes so views
// can degrade without losing state.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	apperrors "github.com/lankaspa/portal/pkg/errors"
	"github.com/lankaspa/portal/pkg/metrics"
)

// Config for the upstream client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Envelope is the association API's response shape.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
}

// Rejection is returned when the upstream accepted the request on the wire
// but refused it, optionally with per-field reasons.
type Rejection struct {
	Message string
	Fields  map[string]string
}

func (r *Rejection) Error() string {
	if r.Message == "" {
		return "rejected by the association service"
	}
	return r.Message
}

// Client is the portal's handle on the association API.
type Client struct {
	http    *resty.Client
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New builds a client. No automatic retry is configured: fetch callers
// degrade to an empty list with a retry affordance, and submission retries
// are always user-initiated.
func New(cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		http:    httpClient,
		logger:  logger.With().Str("component", "apiclient").Logger(),
		metrics: m,
	}
}

// Ping checks upstream reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return apperrors.UpstreamUnreachable(err)
	}
	if resp.StatusCode() >= 500 {
		return apperrors.UpstreamUnreachable(fmt.Errorf("upstream returned %d", resp.StatusCode()))
	}
	return nil
}

// getJSON issues one GET and decodes the envelope's data into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query map[string]string, out interface{}) error {
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	c.observe(op, start, err == nil && resp.IsSuccess())
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("upstream unreachable")
		return apperrors.UpstreamUnreachable(err)
	}

	return c.decode(op, resp, out)
}

// postJSON issues one POST with a JSON body and decodes the envelope's data
// into out (out may be nil).
func (c *Client) postJSON(ctx context.Context, op, path string, body, out interface{}) error {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	c.observe(op, start, err == nil && resp.IsSuccess())
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("upstream unreachable")
		return apperrors.UpstreamUnreachable(err)
	}

	return c.decode(op, resp, out)
}

func (c *Client) decode(op string, resp *resty.Response, out interface{}) error {
	if resp.StatusCode() >= 500 {
		return apperrors.UpstreamUnreachable(
			fmt.Errorf("%s: upstream returned %d", op, resp.StatusCode()))
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return apperrors.UpstreamUnreachable(
			fmt.Errorf("%s: malformed upstream response: %w", op, err))
	}

	if !env.Success {
		c.logger.Info().Str("op", op).Str("message", env.Message).Msg("upstream rejected request")
		if len(env.Errors) > 0 {
			return &Rejection{Message: env.Message, Fields: env.Errors}
		}
		return apperrors.UpstreamRejected(env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.UpstreamUnreachable(
				fmt.Errorf("%s: malformed upstream payload: %w", op, err))
		}
	}
	return nil
}

func (c *Client) observe(op string, start time.Time, ok bool) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	c.metrics.UpstreamRequests.WithLabelValues(op, status).Inc()
	c.metrics.UpstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

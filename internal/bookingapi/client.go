package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rkbeauty/booking-gateway/internal/availability"
	"github.com/rkbeauty/booking-gateway/internal/observability/metrics"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

const (
	defaultTimeout = 20 * time.Second

	// AdminTokenHeader carries the operator's shared secret on admin calls.
	// It is forwarded verbatim and never persisted.
	AdminTokenHeader = "x-admin-token"
)

var tracer = otel.Tracer("rkbeauty.internal.bookingapi")

// Client is an HTTP client for the remote booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.GatewayMetrics
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics wires upstream call metrics.
func WithMetrics(m *metrics.GatewayMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a booking API client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetAvailability fetches and normalizes the availability snapshot for one
// date and booking type.
func (c *Client) GetAvailability(ctx context.Context, date string, typ BookingType) (availability.Snapshot, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", string(typ))

	var raw json.RawMessage
	if err := c.do(ctx, "availability", http.MethodGet, "/availability", q, "", nil, &raw); err != nil {
		return availability.Snapshot{}, err
	}

	snap := availability.Normalize(date, raw)
	c.logger.Debug("availability fetched",
		"date", date,
		"type", string(typ),
		"morning_remaining", snap.Morning.Remaining,
		"afternoon_remaining", snap.Afternoon.Remaining,
		"blocked", snap.Blocked,
	)
	return snap, nil
}

// GetScheduleOverride loads the admin override for one date and type.
func (c *Client) GetScheduleOverride(ctx context.Context, token, date string, typ BookingType) (*Override, error) {
	q := scheduleQuery(date, typ)
	var ov Override
	if err := c.do(ctx, "schedule_get", http.MethodGet, "/admin/schedule", q, token, nil, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

// SaveScheduleOverride writes the admin override for one date and type.
func (c *Client) SaveScheduleOverride(ctx context.Context, token, date string, typ BookingType, ov Override) error {
	return c.do(ctx, "schedule_put", http.MethodPut, "/admin/schedule", scheduleQuery(date, typ), token, ov, nil)
}

// DeleteScheduleOverride removes the override, reverting the date to the
// default schedule.
func (c *Client) DeleteScheduleOverride(ctx context.Context, token, date string, typ BookingType) error {
	return c.do(ctx, "schedule_delete", http.MethodDelete, "/admin/schedule", scheduleQuery(date, typ), token, nil, nil)
}

// ListFormationSessions returns the public sessions for a formation code.
func (c *Client) ListFormationSessions(ctx context.Context, formationCode string) ([]FormationSession, error) {
	q := url.Values{}
	q.Set("formation_code", formationCode)

	var sessions []FormationSession
	if err := c.do(ctx, "sessions_public", http.MethodGet, "/formation-sessions", q, "", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// AdminListFormationSessions returns every session row for the admin table.
func (c *Client) AdminListFormationSessions(ctx context.Context, token string) ([]FormationSession, error) {
	var sessions []FormationSession
	if err := c.do(ctx, "sessions_list", http.MethodGet, "/admin/formation-sessions", nil, token, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateFormationSession creates a session row.
func (c *Client) CreateFormationSession(ctx context.Context, token string, req CreateSessionRequest) error {
	return c.do(ctx, "sessions_create", http.MethodPost, "/admin/formation-sessions", nil, token, req, nil)
}

// UpdateFormationSession applies a partial update to a session row.
func (c *Client) UpdateFormationSession(ctx context.Context, token string, id int64, req UpdateSessionRequest) error {
	path := "/admin/formation-sessions/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "sessions_update", http.MethodPatch, path, nil, token, req, nil)
}

// DeleteFormationSession deletes a session row.
func (c *Client) DeleteFormationSession(ctx context.Context, token string, id int64) error {
	path := "/admin/formation-sessions/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "sessions_delete", http.MethodDelete, path, nil, token, nil, nil)
}

// CreateCheckoutSession creates a hosted card checkout session and returns
// its redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	var resp CheckoutSessionResponse
	if err := c.do(ctx, "checkout_session", http.MethodPost, "/payments/create-checkout-session", nil, "", req, &resp); err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("bookingapi: checkout session response missing url")
	}
	return &resp, nil
}

// ResolveCheckoutSession resolves a checkout session id to its reservation.
// Both the wrapped ({reservation:{...}}) and flat response shapes are
// accepted.
func (c *Client) ResolveCheckoutSession(ctx context.Context, sessionID string) (*ReservationRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("bookingapi: session id is required")
	}

	var raw json.RawMessage
	path := "/payments/session/" + url.PathEscape(sessionID)
	if err := c.do(ctx, "checkout_resolve", http.MethodGet, path, nil, "", nil, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Reservation json.RawMessage  `json:"reservation"`
		Meta        *ReservationMeta `json:"meta"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("bookingapi: decode session response: %w", err)
	}

	target := []byte(raw)
	if len(envelope.Reservation) > 0 && string(envelope.Reservation) != "null" {
		target = envelope.Reservation
	}

	var rec ReservationRecord
	if err := json.Unmarshal(target, &rec); err != nil {
		return nil, fmt.Errorf("bookingapi: decode reservation: %w", err)
	}
	if rec.Meta == nil {
		rec.Meta = envelope.Meta
	}
	return &rec, nil
}

// CreatePayPalOrder creates an alternate-processor order and returns the
// approval page URL.
func (c *Client) CreatePayPalOrder(ctx context.Context, req PayPalOrderRequest) (*PayPalOrderResponse, error) {
	var resp PayPalOrderResponse
	if err := c.do(ctx, "paypal_order", http.MethodPost, "/paypal/create-order", nil, "", req, &resp); err != nil {
		return nil, err
	}
	if resp.ApprovalURL == "" {
		return nil, fmt.Errorf("bookingapi: paypal order response missing approval url")
	}
	return &resp, nil
}

func scheduleQuery(date string, typ BookingType) url.Values {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", string(typ))
	return q
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, token string, payload, out any) error {
	ctx, span := tracer.Start(ctx, "bookingapi."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("bookingapi.path", path),
	)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("bookingapi: marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("bookingapi: create %s request: %w", operation, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(AdminTokenHeader, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(operation, "error", time.Since(start).Seconds())
		return fmt.Errorf("bookingapi: %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveUpstream(operation, "error", time.Since(start).Seconds())
		return fmt.Errorf("bookingapi: read %s response: %w", operation, err)
	}

	c.metrics.ObserveUpstream(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, respBody)
		c.logger.Warn("booking api error",
			"operation", operation,
			"status", apiErr.Status,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("bookingapi: decode %s response: %w", operation, err)
		}
	}
	return nil
}

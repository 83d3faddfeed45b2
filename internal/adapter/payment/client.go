package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/entregago/entrega/internal/domain/model"
)

// ErrPaymentNotFound indicates the gateway doesn't know the order yet.
var ErrPaymentNotFound = errors.New("payment not registered")

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Gateway exposes operations to query the payment authority.
type Gateway interface {
	Resolve(ctx context.Context, orderID string) (*model.PaymentResolution, error)
}

// HTTPGateway implements Gateway via HTTP API.
type HTTPGateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload from the payment gateway.
type response struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
	Reason  string `json:"reason,omitempty"`
}

// NewHTTPGateway creates HTTP payment client with default timeout.
func NewHTTPGateway(baseURL string, logger *slog.Logger) (*HTTPGateway, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment gateway url must be absolute")
	}
	return &HTTPGateway{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Resolve queries the gateway for the payment state of an order.
func (g *HTTPGateway) Resolve(ctx context.Context, orderID string) (*model.PaymentResolution, error) {
	endpoint := *g.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/payments/", orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.PaymentResolution{OrderID: data.OrderID, State: model.PaymentState(data.State), Reason: data.Reason}, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrPaymentNotFound
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		g.logger.Error("payment gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("payment gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

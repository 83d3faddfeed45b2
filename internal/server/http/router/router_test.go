package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/server/http/handlers"
	testhelpers "github.com/entregago/entrega/internal/test"
)

type healthCheckerStub struct {
	err error
}

func (s healthCheckerStub) HealthCheck(context.Context) error { return s.err }

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.DeliveryFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{},
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(context.Context, int64) ([]model.Order, error) {
				return []model.Order{*testhelpers.NewOrder(model.OrderStatusConfirmed)}, nil
			},
		},
		RestaurantFacadeStub: testhelpers.RestaurantFacadeStub{},
	}
	engine := Setup(facade, healthCheckerStub{}, logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/restaurants", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for public restaurants, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for ping, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for metrics, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/orders/some-id/advance", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for advance, got %d", resp.Code)
	}
}

var _ handlers.DeliveryFacade = (*testhelpers.DeliveryFacadeStub)(nil)

package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apporder "github.com/oculare/shop-backend/internal/application/order"
	"github.com/oculare/shop-backend/internal/domain/event"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
	dompayment "github.com/oculare/shop-backend/internal/domain/payment"
	"github.com/oculare/shop-backend/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{ err error }

func (g *stubGateway) Charge(ctx context.Context, req dompayment.ChargeRequest) (*dompayment.ChargeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &dompayment.ChargeResult{ID: "pi_test", Status: dompayment.StatusSucceeded}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, o *domorder.Order) (*apporder.Invoice, error) {
	name := fmt.Sprintf("invoice_%d.pdf", o.ID)
	return &apporder.Invoice{Filename: name, Path: "/tmp/" + name}, nil
}

type stubNotifier struct{}

func (stubNotifier) Send(ctx context.Context, msg apporder.Message) error { return nil }

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, e event.Event) error { return nil }

type stubIDs struct{}

func (stubIDs) NewID() string { return "key-1" }

func newTestHandler(gateway *stubGateway) (*Handler, *memory.OrderRepository) {
	repo := memory.NewOrderRepository()
	service := apporder.NewService(repo, gateway, stubRenderer{}, stubNotifier{}, stubPublisher{}, stubIDs{}, apporder.Options{
		InitialCapacity: 500,
		SupplierURL:     "https://supplier.example.com/order",
	})
	return NewHandler(service), repo
}

func doRequest(t *testing.T, handler *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderSuccessEnvelope(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodPost, "/order",
		`{"name":"Alice Doe","email":"alice@example.com","phone":"+34 600 000 000","address":"Calle Mayor 1","quantity":2,"token":"tok_visa"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success      bool   `json:"success"`
		Message      string `json:"message"`
		SupplierLink string `json:"supplierLink"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Contains(t, resp.SupplierLink, "https://supplier.example.com/order?")
	assert.Contains(t, resp.SupplierLink, "quantity=2")
}

func TestPlaceOrderDeclinedReturnsGenericFailure(t *testing.T) {
	handler, repo := newTestHandler(&stubGateway{err: dompayment.ErrDeclined})

	rec := doRequest(t, handler, http.MethodPost, "/order",
		`{"name":"Alice Doe","email":"alice@example.com","phone":"+34 600 000 000","address":"Calle Mayor 1","quantity":2,"token":"tok_visa"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	// Internal taxonomy must never leak to the caller.
	assert.Equal(t, "order processing error", resp.Message)

	total, err := repo.TotalQuantity(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaceOrderRejectsMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodPost, "/order", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderRejectsInvalidQuantity(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodPost, "/order",
		`{"name":"Alice Doe","email":"alice@example.com","phone":"+34 600 000 000","address":"Calle Mayor 1","quantity":0,"token":"tok_visa"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockQuery(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodGet, "/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stock int64 `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(500), resp.Stock)
}

func TestUpdateTracking(t *testing.T) {
	handler, repo := newTestHandler(&stubGateway{})

	order, err := domorder.New("Alice Doe", "alice@example.com", "+34 600 000 000", "Calle Mayor 1", "Portable Eye Massager", 1)
	require.NoError(t, err)
	id, err := repo.Insert(context.Background(), order)
	require.NoError(t, err)

	rec := doRequest(t, handler, http.MethodPost, "/tracking",
		fmt.Sprintf(`{"orderId":%d,"tracking":"TRK-1"}`, id))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "TRK-1", updated.Tracking)
}

func TestUpdateTrackingUnknownOrder(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodPost, "/tracking", `{"orderId":99,"tracking":"TRK-1"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodGet, "/order", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/stock", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(&stubGateway{})

	rec := doRequest(t, handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

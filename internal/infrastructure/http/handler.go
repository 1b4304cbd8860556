package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	apporder "github.com/oculare/shop-backend/internal/application/order"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
)

// Callers only ever see the generic messages; the internal error
// taxonomy stays in the logs.
const (
	msgOrderReceived   = "order received"
	msgOrderFailed     = "order processing error"
	msgTrackingUpdated = "tracking updated and customer notified"
	msgTrackingFailed  = "tracking update error"
)

type Handler struct {
	orderService *apporder.Service
}

func NewHandler(orderSvc *apporder.Service) *Handler {
	return &Handler{orderService: orderSvc}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/order", h.method(http.MethodPost, h.handlePlaceOrder))
	mux.HandleFunc("/tracking", h.method(http.MethodPost, h.handleUpdateTracking))
	mux.HandleFunc("/stock", h.method(http.MethodGet, h.handleStock))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

type placeOrderRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Quantity int    `json:"quantity"`
	Token    string `json:"token"`
}

type placeOrderResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SupplierLink string `json:"supplierLink"`
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orderService.PlaceOrder(r.Context(), apporder.PlaceOrderInput{
		CustomerName: req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Quantity:     req.Quantity,
		PaymentToken: req.Token,
	})
	if err != nil {
		switch {
		case errors.Is(err, domorder.ErrMissingField), errors.Is(err, domorder.ErrInvalidQuantity):
			writeFailure(w, http.StatusBadRequest, err.Error())
		default:
			writeFailure(w, http.StatusInternalServerError, msgOrderFailed)
		}
		return
	}

	writeJSON(w, http.StatusOK, placeOrderResponse{
		Success:      true,
		Message:      msgOrderReceived,
		SupplierLink: result.SupplierLink,
	})
}

type updateTrackingRequest struct {
	OrderID  int64  `json:"orderId"`
	Tracking string `json:"tracking"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) handleUpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req updateTrackingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orderService.UpdateTracking(r.Context(), req.OrderID, req.Tracking); err != nil {
		if errors.Is(err, domorder.ErrMissingField) {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		writeFailure(w, http.StatusInternalServerError, msgTrackingFailed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: msgTrackingUpdated,
	})
}

type stockResponse struct {
	Stock int64 `json:"stock"`
}

func (h *Handler) handleStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.orderService.Stock(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "stock query error")
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Stock: stock})
}

func (h *Handler) method(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handler(w, r)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Success: false, Message: message})
}

package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	dompayment "github.com/oculare/shop-backend/internal/domain/payment"
)

const defaultBaseURL = "https://api.stripe.com"

// Client charges a Stripe-style payment-intents endpoint. Every call is
// attempted exactly once; the idempotency key guards against transport
// retries outside this process.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func New(baseURL, secretKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) Charge(ctx context.Context, req dompayment.ChargeRequest) (*dompayment.ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", req.Currency)
	form.Set("payment_method", req.Token)
	if req.Capture {
		form.Set("confirm", "true")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dompayment.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", dompayment.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", dompayment.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: status %d", dompayment.ErrDeclined, resp.StatusCode)
	}

	var parsed chargeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", dompayment.ErrUnavailable, err)
	}

	return &dompayment.ChargeResult{
		ID:     parsed.ID,
		Status: parsed.Status,
	}, nil
}

// internal/httpapi/clients.go
//
// Thin JSON clients for the orders and discounts services.  Both follow
// the same contract: a 2xx answer is decoded and returned, a 422 is a
// business rejection the caller passes through, and anything else —
// transport failure, 5xx, undecodable body — is a RemoteService fault.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yanizio/storefront/internal/fault"
)

const clientTimeout = 5 * time.Second

//
// Orders
//

// CheckoutItem is one cart line forwarded to the orders service.
type CheckoutItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

type checkoutUpstreamRequest struct {
	TenantID     int64          `json:"tenant_id"`
	Email        string         `json:"email"`
	Items        []CheckoutItem `json:"items"`
	DiscountCode string         `json:"discount_code,omitempty"`
}

// CheckoutResult is the orders service's answer.  Accepted false means
// the order was rejected with Reason; the service itself is healthy.
type CheckoutResult struct {
	Accepted   bool   `json:"accepted"`
	CheckoutID string `json:"checkout_id,omitempty"`
	TotalCents int64  `json:"total_cents,omitempty"`
	PaymentURL string `json:"payment_url,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// OrdersClient talks to the orders service.
type OrdersClient struct {
	baseURL string
	httpc   *http.Client
}

// NewOrdersClient builds a client for the given base URL.
func NewOrdersClient(baseURL string) *OrdersClient {
	return &OrdersClient{baseURL: baseURL, httpc: &http.Client{Timeout: clientTimeout}}
}

// CreateCheckout forwards the cart and returns the service's verdict.
func (c *OrdersClient) CreateCheckout(ctx context.Context, tenantID int64, email string, items []CheckoutItem, discountCode string) (*CheckoutResult, error) {
	var out CheckoutResult
	req := checkoutUpstreamRequest{
		TenantID: tenantID, Email: email, Items: items, DiscountCode: discountCode,
	}
	if err := postJSON(ctx, c.httpc, c.baseURL+"/checkouts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//
// Discounts
//

type discountUpstreamRequest struct {
	TenantID      int64  `json:"tenant_id"`
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

// DiscountResult is the discounts service's verdict on a code.
type DiscountResult struct {
	Valid       bool   `json:"valid"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// DiscountsClient talks to the discounts service.
type DiscountsClient struct {
	baseURL string
	httpc   *http.Client
}

// NewDiscountsClient builds a client for the given base URL.
func NewDiscountsClient(baseURL string) *DiscountsClient {
	return &DiscountsClient{baseURL: baseURL, httpc: &http.Client{Timeout: clientTimeout}}
}

// Validate asks the discounts service whether code applies.
func (c *DiscountsClient) Validate(ctx context.Context, tenantID int64, code string, subtotalCents int64) (*DiscountResult, error) {
	var out DiscountResult
	req := discountUpstreamRequest{TenantID: tenantID, Code: code, SubtotalCents: subtotalCents}
	if err := postJSON(ctx, c.httpc, c.baseURL+"/discounts/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//
// Shared transport
//

// postJSON runs one request/response cycle.  2xx and 422 bodies decode
// into out; everything else is a RemoteService fault.
func postJSON(ctx context.Context, httpc *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request for %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpc.Do(req)
	if err != nil {
		return fault.RemoteService(err, "call %s", url)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && resp.StatusCode != http.StatusUnprocessableEntity {
		return fault.RemoteService(nil, "%s answered %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fault.RemoteService(err, "decode answer from %s", url)
	}
	return nil
}

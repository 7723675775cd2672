// internal/catalog/remote.go
//
// Remote Provider: the service-oriented variant backed by the products
// microservice.
//
// Failure policy differs from the SQL provider on purpose: any transport
// or decode error degrades to an *empty result set*, logged but never
// surfaced.  A storefront with a blank product grid beats a 5xx, and the
// short cache TTL means the gap heals as soon as the service does.  (The
// empty result is cached like any other — repopulating within minutes is
// accepted.)
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const remoteTimeout = 3 * time.Second

// RemoteProvider calls the products service over HTTP.
type RemoteProvider struct {
	baseURL string
	httpc   *http.Client
}

// NewRemoteProvider points at the products service base URL.
func NewRemoteProvider(baseURL string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: remoteTimeout},
	}
}

// productKeyFamily keeps remote product listings under the key family
// the products service has always been cached with.
func (p *RemoteProvider) productKeyFamily() string {
	return legacyProductsFamily
}

func (p *RemoteProvider) ListProducts(ctx context.Context, tenantID int64, f Filter) ([]Product, error) {
	var out []Product
	p.list(ctx, "/products", tenantID, f, &out)
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (p *RemoteProvider) ListCollections(ctx context.Context, tenantID int64, f Filter) ([]Collection, error) {
	var out []Collection
	p.list(ctx, "/collections", tenantID, f, &out)
	if out == nil {
		out = []Collection{}
	}
	return out, nil
}

// list fetches one listing into dst, leaving dst untouched on any failure.
func (p *RemoteProvider) list(ctx context.Context, path string, tenantID int64, f Filter, dst any) {
	q := url.Values{}
	q.Set("tenant_id", strconv.FormatInt(tenantID, 10))
	if f.Handle != "" {
		q.Set("handle", f.Handle)
	}
	if f.CollectionID != 0 {
		q.Set("collection_id", strconv.FormatInt(f.CollectionID, 10))
	}
	if f.Featured {
		q.Set("featured", "true")
	}
	q.Set("limit", strconv.Itoa(limitOf(f)))
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	reqURL := p.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		zap.S().Warnw("products service request build failed", "url", reqURL, "err", err)
		return
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		zap.S().Warnw("products service unreachable, serving empty",
			"tenant", tenantID, "path", path, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.S().Warnw("products service error, serving empty",
			"tenant", tenantID, "path", path, "status", resp.StatusCode)
		return
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		zap.S().Warnw("products service payload unreadable, serving empty",
			"tenant", tenantID, "path", path, "err", fmt.Errorf("decode: %w", err))
	}
}

// internal/theme/cdn.go
//
// Best-effort CDN tag purge.
//
// Edge caches key rendered pages by the tag `tenant-<id>` (see the
// Cache-Tag response header).  After a theme publish the publisher calls
// PurgeCDN alongside Invalidate.  Purge failures are logged and swallowed:
// a stale edge copy expires on its own, and cache purge is not allowed to
// break page delivery.
package theme

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const purgeTimeout = 3 * time.Second

// TenantTag is the CDN cache tag scoping every page rendered for a
// tenant.  Render responses advertise it in Cache-Tag and Purge drops
// it, so the two sides must build it from this one helper.
func TenantTag(tenantID int64) string {
	return fmt.Sprintf("tenant-%d", tenantID)
}

// CDNPurger posts tag-purge requests to the edge provider.
type CDNPurger struct {
	purgeURL string
	httpc    *http.Client
}

// NewCDNPurger returns a purger for purgeURL; an empty URL disables it.
func NewCDNPurger(purgeURL string) *CDNPurger {
	return &CDNPurger{
		purgeURL: purgeURL,
		httpc:    &http.Client{Timeout: purgeTimeout},
	}
}

// Purge asks the CDN to drop every page tagged for the tenant.  Always
// returns; never escalates.
func (p *CDNPurger) Purge(ctx context.Context, tenantID int64) {
	if p.purgeURL == "" {
		return
	}

	body, _ := json.Marshal(map[string]string{
		"tag": TenantTag(tenantID),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.purgeURL, bytes.NewReader(body))
	if err != nil {
		zap.S().Warnw("cdn purge request build failed", "tenant", tenantID, "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		zap.S().Warnw("cdn purge failed", "tenant", tenantID, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		zap.S().Warnw("cdn purge rejected", "tenant", tenantID, "status", resp.StatusCode)
		return
	}
	zap.S().Debugw("cdn purge accepted", "tenant", tenantID)
}

// internal/analytics/emitter.go
//
// Fire-and-forget page-view events.
//
// Context
// -------
// After a successful render the handler hands the request off here; the
// emitter parses the user agent, optionally enriches with a GeoLite2
// country lookup, and POSTs one JSON event to the analytics service on
// its own bounded context.  Emission never blocks or fails a render —
// errors are logged and dropped, and an unset service URL disables the
// emitter entirely.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

const emitTimeout = 3 * time.Second

// Event is one page view.
type Event struct {
	TenantID  int64     `json:"tenant_id"`
	PageType  string    `json:"page_type"`
	Path      string    `json:"path"`
	UA        UA        `json:"ua"`
	Country   string    `json:"country,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// Emitter posts events to the analytics service.
type Emitter struct {
	serviceURL string
	httpc      *http.Client
	geo        *geoip2.Reader // nil when no GeoLite2 DB is configured
}

// NewEmitter builds an emitter.  serviceURL empty disables emission;
// geoDBPath empty disables country enrichment.  A missing or unreadable
// GeoLite2 file is logged and skipped, never fatal.
func NewEmitter(serviceURL, geoDBPath string) *Emitter {
	e := &Emitter{
		serviceURL: serviceURL,
		httpc:      &http.Client{Timeout: emitTimeout},
	}
	if geoDBPath != "" {
		rdr, err := geoip2.Open(geoDBPath)
		if err != nil {
			zap.S().Warnw("geoip database unavailable, events ship without country",
				"path", geoDBPath, "err", err)
		} else {
			e.geo = rdr
		}
	}
	return e
}

// PageView records one render.  Safe to call from the request goroutine;
// the POST happens on a detached goroutine with its own deadline.
func (e *Emitter) PageView(tenantID int64, pageType string, r *http.Request) {
	if e.serviceURL == "" {
		return
	}

	ev := Event{
		TenantID:  tenantID,
		PageType:  pageType,
		Path:      r.URL.Path,
		UA:        ParseUA(r.UserAgent()),
		Country:   e.country(r),
		Timestamp: time.Now().UTC(),
	}

	go e.post(ev)
}

func (e *Emitter) post(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		zap.S().Warnw("analytics event encode failed", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.serviceURL+"/events/page-view", bytes.NewReader(body))
	if err != nil {
		zap.S().Warnw("analytics request build failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		zap.S().Debugw("analytics event dropped", "err", err)
		return
	}
	resp.Body.Close()
}

// country resolves the client IP to an ISO country code, best effort.
func (e *Emitter) country(r *http.Request) string {
	if e.geo == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}
	rec, err := e.geo.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

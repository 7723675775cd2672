// internal/config/model.go
//
// Typed configuration model for the storefront.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/storefront.yaml`                       – primary static file,
//   • `STOREFRONT_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	DevMode    bool   `koanf:"dev_mode"`
}

//
// Database section
//

// Database holds the DSN for the shared MySQL instance.  Every tenant
// lives in its own schema (`tenant_<id>`) on that instance; the DSN
// selects the control-plane schema holding the tenant registry.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

//
// Redis section
//

// Redis configures the distributed cache tier.
type Redis struct {
	Addr     string `koanf:"addr" validate:"required,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

//
// Blob storage section
//

// Blob configures the S3 bucket holding compiled theme templates.
// Endpoint is optional; set it for MinIO or another S3-compatible store.
type Blob struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region" validate:"required"`
	Bucket    string `koanf:"bucket" validate:"required"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

//
// Services section
//

// Services holds base URLs for the backend microservices.  ProductsURL is
// optional: when set, catalog lookups use the remote products service
// instead of per-tenant SQL.  AnalyticsURL is optional; empty disables
// page-view events.
type Services struct {
	ProductsURL  string `koanf:"products_url" validate:"omitempty,url"`
	OrdersURL    string `koanf:"orders_url" validate:"required,url"`
	DiscountsURL string `koanf:"discounts_url" validate:"required,url"`
	AnalyticsURL string `koanf:"analytics_url" validate:"omitempty,url"`
	CDNPurgeURL  string `koanf:"cdn_purge_url" validate:"omitempty,url"`
}

//
// Cache section
//

// Cache holds the TTL for each tier.  Theme TTL applies to both the
// process tier and Redis so the tiers expire in lockstep; catalog TTL is
// deliberately shorter because listings are more volatile.
type Cache struct {
	TenantTTL  time.Duration `koanf:"tenant_ttl"`
	ThemeTTL   time.Duration `koanf:"theme_ttl"`
	CatalogTTL time.Duration `koanf:"catalog_ttl"`
	PageMaxAge time.Duration `koanf:"page_max_age"`
}

//
// Rate-limit section
//

// RateLimit bounds requests per client per fixed window.  Threshold 0
// disables the limiter.
type RateLimit struct {
	Window    time.Duration `koanf:"window"`
	Threshold int           `koanf:"threshold"`
}

//
// GeoIP section
//

// GeoIP points at an optional GeoLite2-City database used to enrich
// analytics events.  Empty path disables geo lookups.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Log section
//

// Log controls verbosity of the JSON file logger.
type Log struct {
	Level string `koanf:"level"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or STOREFRONT_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // STOREFRONT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Database  Database  `koanf:"database"`
	Redis     Redis     `koanf:"redis"`
	Blob      Blob      `koanf:"blob"`
	Services  Services  `koanf:"services"`
	Cache     Cache     `koanf:"cache"`
	RateLimit RateLimit `koanf:"ratelimit"`
	GeoIP     GeoIP     `koanf:"geoip"`
	Log       Log       `koanf:"log"`
	Paths     Paths     `koanf:"-"` // not loaded from config files
}

// applyDefaults fills TTLs that the YAML left unset.  Zero durations would
// otherwise turn every cache write into an immediate expiry.
func (c *Config) applyDefaults() {
	if c.Cache.TenantTTL == 0 {
		c.Cache.TenantTTL = time.Hour
	}
	if c.Cache.ThemeTTL == 0 {
		c.Cache.ThemeTTL = 30 * time.Minute
	}
	if c.Cache.CatalogTTL == 0 {
		c.Cache.CatalogTTL = 5 * time.Minute
	}
	if c.Cache.PageMaxAge == 0 {
		c.Cache.PageMaxAge = 5 * time.Minute
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

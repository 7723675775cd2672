// cmd/web/main.go
//
// Storefront renderer – HTTP entry point.
//
// Startup order
// -------------
//
//  1. Load configuration (.env → conf/storefront.yaml → STOREFRONT_*
//     overrides, Vault-backed secrets resolved in place).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the shared MySQL pool, the Redis cache tier, and the S3 theme
//     bucket client, and log an active-tenant count as an early sanity
//     check.
//
//  4. Build the pipeline: tenant resolver → theme loader → catalog
//     provider (SQL per-tenant schema, or the remote products service
//     when services.products_url is set) → route resolver → render
//     engine.
//
//  5. Assemble the chi router and serve with hardened timeouts until
//     SIGINT/SIGTERM, then drain gracefully.
//
// Every collaborator is built here and handed down explicitly; no
// package holds ambient state besides the logger and config pointers.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanizio/storefront/internal/analytics"
	"github.com/yanizio/storefront/internal/blob"
	"github.com/yanizio/storefront/internal/catalog"
	"github.com/yanizio/storefront/internal/config"
	"github.com/yanizio/storefront/internal/database"
	"github.com/yanizio/storefront/internal/httpapi"
	"github.com/yanizio/storefront/internal/kv"
	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/render"
	"github.com/yanizio/storefront/internal/route"
	"github.com/yanizio/storefront/internal/server"
	"github.com/yanizio/storefront/internal/tenant"
	"github.com/yanizio/storefront/internal/theme"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	//
	// ── 1.  Shared clients ──────────────────────────────────────────────
	//
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logOut.Fatalw("connect mysql", "err", err)
	}
	defer db.Close()

	var active int
	_ = db.GetContext(ctx, &active, `SELECT COUNT(*) FROM tenant WHERE status = 'active'`)
	logOut.Infow("registry online", "active_tenants", active)

	store, err := kv.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logOut.Fatalw("connect redis", "err", err)
	}

	fetcher, err := blob.NewS3(ctx, blob.Options{
		Endpoint:  cfg.Blob.Endpoint,
		Region:    cfg.Blob.Region,
		Bucket:    cfg.Blob.Bucket,
		AccessKey: cfg.Blob.AccessKey,
		SecretKey: cfg.Blob.SecretKey,
	})
	if err != nil {
		logOut.Fatalw("build s3 client", "err", err)
	}

	//
	// ── 2.  Render pipeline ─────────────────────────────────────────────
	//
	tenants := tenant.NewResolver(db, store, cfg.Cache.TenantTTL)
	themes := theme.NewLoader(db, store, fetcher, cfg.Cache.ThemeTTL)

	var source catalog.Provider = catalog.NewSQLProvider(db)
	if cfg.Services.ProductsURL != "" {
		logOut.Infow("catalog source: remote products service", "url", cfg.Services.ProductsURL)
		source = catalog.NewRemoteProvider(cfg.Services.ProductsURL)
	}
	listings := catalog.NewCached(source, store, cfg.Cache.CatalogTTL)
	pages := catalog.NewSQLPages(db)

	//
	// ── 3.  HTTP surface ────────────────────────────────────────────────
	//
	api := &httpapi.Server{
		Tenants:   tenants,
		Themes:    themes,
		Routes:    route.NewResolver(listings, pages),
		Renderer:  render.NewEngine(),
		Analytics: analytics.NewEmitter(cfg.Services.AnalyticsURL, cfg.GeoIP.DBPath),
		Orders:    httpapi.NewOrdersClient(cfg.Services.OrdersURL),
		Discounts: httpapi.NewDiscountsClient(cfg.Services.DiscountsURL),

		TenantInval:  tenants,
		ThemeInval:   themes,
		CatalogInval: listings,
		CDN:          theme.NewCDNPurger(cfg.Services.CDNPurgeURL),

		DB:    db,
		Store: store,

		Opts: httpapi.Options{
			DevMode:       cfg.HTTP.DevMode,
			ForceHTTPS:    cfg.HTTP.ForceHTTPS,
			PageMaxAge:    cfg.Cache.PageMaxAge,
			RateWindow:    cfg.RateLimit.Window,
			RateThreshold: cfg.RateLimit.Threshold,
		},
	}

	srv := server.New(cfg.HTTP.ListenAddr, api.Router())
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := server.Run(ctx, srv); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("stopped cleanly")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"fonthub/internal/auth"
	"fonthub/internal/catalog"
	"fonthub/internal/controls"
	"fonthub/internal/frontend"
	"fonthub/internal/options"
	"fonthub/internal/preview"
	"fonthub/pkg/cache"
	"fonthub/pkg/config"
	"fonthub/pkg/database"
	"fonthub/pkg/records"
)

// Nonce actions. Each mutating surface has its own action so a token for
// one cannot be replayed against another.
const (
	actionManageControls = "manage-controls"
	actionSaveSettings   = "save-settings"
	actionManageCatalog  = "manage-catalog"
	actionPreview        = "preview"
)

func main() {
	config.Init()

	db := database.MustOpen(database.Config{Path: config.DBPath()})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	store := records.NewStore(db)
	ttlCache := cache.New(db, clockwork.NewRealClock())

	provider := catalog.NewProvider(store, ttlCache, config.CatalogAPIURL(), config.CatalogCSSURL())
	controlRepo := controls.NewRepo(store)
	registry := options.NewRegistry(controlRepo)
	resolver := options.NewResolver(registry, store, ttlCache)
	controlRepo.Options = resolver
	pipeline := options.NewPipeline(registry, resolver)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := preview.NewHub()
	bridge := preview.NewBridge(hub, registry, resolver)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": config.DBPath()})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.Clients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.Clients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":         config.DBPath(),
			"ws_clients": stats.Clients,
		})
	})

	// Auth
	tokenSvc := auth.TokenService{
		Secret:   []byte(config.JWTSecret()),
		Issuer:   config.JWTIssuer(),
		Duration: config.JWTTTL(),
	}
	nonceSvc := auth.NonceService{Secret: []byte(config.NonceSecret())}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc, nonceSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	router.GET("/users/me", auth.AuthMiddleware(tokenSvc, authRepo), func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
		})
	})

	public := router.Group("/")
	authed := auth.AuthMiddleware(tokenSvc, authRepo)
	protect := func(action string) *gin.RouterGroup {
		g := router.Group("/")
		g.Use(authed, auth.RequireNonce(nonceSvc, action))
		return g
	}

	controls.NewHandler(controlRepo).RegisterRoutes(public, protect(actionManageControls))
	options.NewHandler(registry, resolver, pipeline, provider).RegisterRoutes(public, protect(actionSaveSettings))
	catalog.NewHandler(provider).RegisterRoutes(public, protect(actionManageCatalog))
	preview.NewHandler(hub, bridge).RegisterRoutes(public, protect(actionPreview))
	frontend.NewHandler(frontend.NewRenderer(registry, resolver)).RegisterRoutes(public)

	httpSrv := &http.Server{
		Addr:    config.ListenAddress(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", config.ListenAddress())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

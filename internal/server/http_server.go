package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/config"
)

// NewRouter builds the gin engine with middleware, health probes, and all
// provided service registrars.
func NewRouter(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(appCtx))
	engine.Use(cors.New(corsConfig(cfg)))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Dating App API is running", "status": "ok"})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/db-health", dbHealth(appCtx))

	for _, r := range registrars {
		r.Register(engine)
	}

	return engine
}

// StartHTTPServer serves the handler until ctx is canceled, then drains
// in-flight requests with a timeout.
func StartHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// dbHealth performs a no-op round trip against the backing store.
func dbHealth(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := appCtx.DB.WithContext(c.Request.Context()).Exec("SELECT 1").Error
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
				"message":  "Database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
			"message":  "Database connection successful",
		})
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
	}
	if len(cfg.HTTP.CORSOrigins) == 1 && cfg.HTTP.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

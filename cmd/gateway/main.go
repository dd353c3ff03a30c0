package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"peershare-backend/internal/gateway"
	"peershare-backend/internal/platform/config"
	"peershare-backend/internal/platform/logging"
	"peershare-backend/internal/platform/metrics"
	"peershare-backend/internal/platform/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, cfg.App)

	client := gateway.NewClient(cfg.Gateway.UpstreamURL, logger)
	if cfg.Redis.Enabled && cfg.Gateway.CacheTTLSeconds > 0 {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rc.Close()
		client.UseRedisCache(rc, time.Duration(cfg.Gateway.CacheTTLSeconds)*time.Second)
		logger.Info().Str("redis", cfg.Redis.Address).Msg("gateway read cache enabled")
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), web.RequestID(), web.RequestLogger(logger))
	r.Use(gateway.Identity([]byte(cfg.Gateway.JWTSecret)))
	_ = r.SetTrustedProxies(nil)

	if cfg.Gateway.Mode == "dev" && len(cfg.Gateway.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Gateway.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", web.HeaderUserID},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	gateway.RegisterRoutes(r, gateway.NewHandlers(client, logger))

	srv := &http.Server{Addr: cfg.Gateway.Addr, Handler: r}

	go func() {
		logger.Info().Str("addr", cfg.Gateway.Addr).Str("upstream", cfg.Gateway.UpstreamURL).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("gateway failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

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

	"peershare-backend/internal/bookings"
	"peershare-backend/internal/items"
	"peershare-backend/internal/platform/config"
	"peershare-backend/internal/platform/db"
	"peershare-backend/internal/platform/logging"
	"peershare-backend/internal/platform/metrics"
	"peershare-backend/internal/platform/web"
	"peershare-backend/internal/requests"
	"peershare-backend/internal/users"
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

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info().Str("db", cfg.DB.DBName).Msg("connected to database")

	if err := db.Migrate(context.Background(), conn); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), web.RequestID(), web.RequestLogger(logger))
	_ = r.SetTrustedProxies(nil)

	if cfg.Server.Mode == "dev" && len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", web.HeaderUserID},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	users.RegisterRoutes(r, users.NewService(conn))
	items.RegisterRoutes(r, items.NewService(conn))
	bookings.RegisterRoutes(r, bookings.NewService(conn))
	requests.RegisterRoutes(r, requests.NewService(conn))

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
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

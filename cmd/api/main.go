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
	"go.uber.org/zap"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/config"
	dbpkg "github.com/BruksfildServices01/cleanpro-api/internal/db"
	"github.com/BruksfildServices01/cleanpro-api/internal/logger"
	"github.com/BruksfildServices01/cleanpro-api/internal/metrics"
	"github.com/BruksfildServices01/cleanpro-api/internal/routes"
	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = l.Sync() }()
	zap.ReplaceGlobals(l)

	if cfg.JWTSecret == "changeme" && cfg.IsProduction() {
		l.Fatal("JWT_SECRET must be set in production")
	}

	db, err := dbpkg.Open(cfg)
	if err != nil {
		l.Fatal("database", zap.Error(err))
	}
	s := store.New(db, store.Options{OwnerOpenID: cfg.OwnerOpenID})

	m := metrics.New()

	sinks := []audit.Sink{audit.New(s.AuditLogs)}
	if cfg.RedisAddr != "" {
		stream, err := audit.NewStream(context.Background(), audit.StreamConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisAuditStream,
		})
		if err != nil {
			l.Warn("audit stream disabled", zap.Error(err))
		} else {
			defer func() { _ = stream.Close() }()
			sinks = append(sinks, stream)
		}
	}
	dispatcher := audit.NewDispatcher(l.Named("audit"), m.AuditDropped, sinks...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	router := routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Store:    s,
		Sessions: session.NewManager(cfg.JWTSecret, cfg.SessionTTL),
		Audit:    dispatcher,
		Metrics:  m,
		Log:      l,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.Int("procedures", len(router.Procedures())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", zap.Error(err))
		}
	}()

	waitSignal(l)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Error("server shutdown", zap.Error(err))
	}
	// drain audit before the store goes away
	if err := dispatcher.Close(ctx); err != nil {
		l.Warn("audit drain", zap.Error(err))
	}
	if err := s.Close(); err != nil {
		l.Error("store close", zap.Error(err))
	}
	l.Info("stopped")
}

func waitSignal(l *zap.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	l.Info("got OS signal", zap.String("signal", sig.String()))
}

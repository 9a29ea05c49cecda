package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/config"
	"github.com/socialnet/internal/db"
	"github.com/socialnet/internal/router"
	"github.com/socialnet/internal/service"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		Path:     cfg.DatabasePath,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[DB] close failed: %v", err)
		}
	}()

	created, err := db.EnsureSuperUser(db.DB, cfg.SuperUserEmail, cfg.SuperUserPassword)
	if err != nil {
		log.Fatalf("failed to ensure superuser: %v", err)
	}
	if created {
		log.Printf("[BOOT] created superuser %s", cfg.SuperUserEmail)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 定时发布到期的文章
	scheduler := service.NewScheduler(service.NewPublicationService(db.DB), cfg.PublishInterval)
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(ctx)
	}()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(cfg, db.DB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[BOOT] listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[BOOT] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] server shutdown: %v", err)
	}
	<-schedulerDone
	log.Println("[BOOT] server stopped")
}

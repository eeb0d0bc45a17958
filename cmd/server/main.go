package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"libraryManagement/internal/config"
	"libraryManagement/internal/db"
	grpcserver "libraryManagement/internal/grpc"
	"libraryManagement/internal/httpserver"
	"libraryManagement/internal/logging"
	"libraryManagement/models"
	"libraryManagement/repository"
)

func main() {
	// .env is optional; variables may come from the environment.
	envErr := godotenv.Load()

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.WithError(envErr).Warn("no .env file loaded")
	}
	logger.Infof("Configuration loaded: %v", cfg)
	gin.SetMode(cfg.HTTP.GinMode)

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("open db")
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.WithError(err).Error("close db")
		}
	}()

	users := repository.NewUserRepository(d)
	books := repository.NewBookRepository(d)
	borrowings := repository.NewBorrowingRepository(d)
	sessions := repository.NewSessionRepository(d)

	ctx := context.Background()
	if cfg.Admin.Password != "" {
		created, err := users.EnsureAdmin(ctx, models.NewAdmin(cfg.Admin.Username, cfg.Admin.Password))
		if err != nil {
			logger.WithError(err).Fatal("seed admin")
		}
		if created {
			logger.WithField("username", cfg.Admin.Username).Info("bootstrap admin created")
		}
	}
	if n, err := sessions.DeleteExpired(ctx); err != nil {
		logger.WithError(err).Warn("prune expired sessions")
	} else if n > 0 {
		logger.WithField("count", n).Info("pruned expired sessions")
	}

	router := httpserver.NewRouter(&httpserver.Server{
		Users:      users,
		Books:      books,
		Borrowings: borrowings,
		Sessions:   sessions,
		DB:         d,
		Auth:       cfg.Auth,
		Log:        logger,
	})
	stopHTTP, err := httpserver.Start(cfg.HTTP.Address, router, logger)
	if err != nil {
		logger.WithError(err).Fatal("start http")
	}
	logger.Infof("HTTP server listening on %s", cfg.HTTP.Address)

	stopGRPC := func(context.Context) error { return nil }
	if cfg.GRPC.Address != "" {
		stopGRPC, err = grpcserver.StartGRPC(cfg.GRPC.Address, d, logger)
		if err != nil {
			logger.WithError(err).Fatal("start grpc")
		}
		logger.Infof("gRPC health server listening on %s", cfg.GRPC.Address)
	}

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopHTTP(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown")
	}
	if err := stopGRPC(shutdownCtx); err != nil {
		logger.WithError(err).Error("grpc shutdown")
	}
	logger.Info("stopped")
}

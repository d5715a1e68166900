package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/config"
	"github.com/Skotchmaster/blog_platform/internal/events"
	"github.com/Skotchmaster/blog_platform/internal/httpserver"
	"github.com/Skotchmaster/blog_platform/internal/middleware"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/internal/search"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/pkg/db"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
	loggingmw "github.com/Skotchmaster/blog_platform/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()
	if producer == nil {
		logger.Info("kafka disabled, no brokers configured")
	}

	var searchIndex *search.Index
	if cfg.ESURL != "" {
		searchIndex, err = search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	} else {
		logger.Info("search disabled, ES_URL not configured")
	}

	rp := repo.New(gdb)
	authSvc := &service.AuthService{
		Repo:          rp,
		Events:        producer,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		PostHandler:    &httpserver.PostHTTP{Svc: &service.PostService{Repo: rp, Events: producer, Search: searchIndex}},
		CommentHandler: &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: rp, Events: producer}},
		Session:        middleware.NewSession(cfg.JWTSecret, authSvc),
		ClientURL:      cfg.ClientURL,
		StaticDir:      cfg.StaticDir,
	})

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}

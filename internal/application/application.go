package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpdesk/internal/auth"
	"github.com/psds-microservice/helpdesk/internal/config"
	"github.com/psds-microservice/helpdesk/internal/database"
	"github.com/psds-microservice/helpdesk/internal/handler"
	"github.com/psds-microservice/helpdesk/internal/kafka"
	"github.com/psds-microservice/helpdesk/internal/repository"
	"github.com/psds-microservice/helpdesk/internal/router"
	"github.com/psds-microservice/helpdesk/internal/searchindex"
	"github.com/psds-microservice/helpdesk/internal/service"
	"gorm.io/gorm"
)

const sessionMaxAge = 7 * 24 * time.Hour

// API приложение: HTTP сервер (режим api).
type API struct {
	cfg      *config.Config
	db       *gorm.DB
	tickets  *service.TicketService
	producer *kafka.Producer
	httpSrv  *http.Server
}

// NewTicketService собирает сервис тикетов с Kafka и поисковым индексом, если они настроены.
// Используется и HTTP-режимом, и командами CLI.
func NewTicketService(cfg *config.Config, db *gorm.DB) (*service.TicketService, *kafka.Producer) {
	deps := service.Deps{Tickets: repository.NewGormTicketRepository(db)}
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	if producer.Enabled() {
		deps.Producer = producer
	}
	if search := searchindex.NewClient(cfg.SearchServiceURL); search.Enabled() {
		deps.Search = search
	}
	return service.NewTicketService(deps), producer
}

// NewAPI создаёт приложение для режима api.
func NewAPI(ctx context.Context, cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(ctx, cfg); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ticketSvc, producer := NewTicketService(cfg, db)
	guard := auth.NewGuard(cfg.AdminPassword)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	h := router.New(router.Deps{
		Tickets:   handler.NewTicketHandler(ticketSvc),
		Admin:     handler.NewAdminHandler(ticketSvc, guard),
		Health:    handler.NewHealthHandler(sqlDB.PingContext),
		Guard:     guard,
		Sessions:  store,
		AccessLog: true,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		db:       db,
		tickets:  ticketSvc,
		producer: producer,
		httpSrv:  httpSrv,
	}, nil
}

// Run запускает HTTP сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Submit form:   %s/", base)
	log.Printf("  Admin console: %s/admin", base)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	if a.producer.Enabled() {
		log.Printf("  Kafka topic:   %s", a.cfg.KafkaTopicTicket)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.tickets.Wait()
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/relief-campaign/internal/config"
	"github.com/unclebandit/relief-campaign/internal/controller"
	"github.com/unclebandit/relief-campaign/internal/db"
	"github.com/unclebandit/relief-campaign/internal/handler"
	"github.com/unclebandit/relief-campaign/internal/llm"
	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/middleware"
	"github.com/unclebandit/relief-campaign/internal/queue"
	"github.com/unclebandit/relief-campaign/internal/repository"
	"github.com/unclebandit/relief-campaign/internal/router"
	"github.com/unclebandit/relief-campaign/internal/service"
	"github.com/unclebandit/relief-campaign/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("starting relief campaign server")

	database, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	if err := database.MigrateUp(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Str("driver", string(database.Dialect)).Msg("database initialized")

	ctx := context.Background()

	// generator stays unavailable without a backend; campaign triggers then get 503
	var gen *service.ContentGenerator
	if backend, err := llm.NewGeminiBackend(ctx, cfg.LLM.APIKey, cfg.LLM.Model); err != nil {
		log.Error().Err(err).Msg("could not initialize LLM backend")
		gen = service.NewContentGenerator(nil, log)
	} else {
		log.Info().Str("model", backend.Model()).Msg("LLM backend initialized")
		gen = service.NewContentGenerator(backend, log)
	}

	emailSender, emailMode := newEmailSender(ctx, cfg.Email, log)

	smsSender, closeSMS, err := newSMSSender(cfg.SMS, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sms transport")
	}
	defer closeSMS()

	contactRepo := &repository.ContactRepository{DB: database.DB}

	campaignService := &service.CampaignService{
		Generator:      gen,
		ContactRepo:    contactRepo,
		Email:          transport.NewEmailDispatcher(emailSender, log),
		SMS:            transport.NewSMSDispatcher(smsSender, log),
		DonationLink:   cfg.Campaign.DonationLink,
		DefaultSubject: cfg.Campaign.DefaultSubject,
		Log:            log.WithComponent("campaign"),
	}

	r := router.New(
		&controller.CampaignController{CampaignService: campaignService, Log: log},
		&controller.ContactController{ContactRepo: contactRepo, Log: log},
		&handler.HealthHandler{DB: database, Generator: gen, Email: emailMode, SMS: cfg.SMS.Mode, Log: log},
		middleware.New(log),
	)

	logStartupChecks(log, cfg, gen, emailMode)

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// campaign triggers respond only after every contact is processed
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newEmailSender picks the configured provider, falling back to a sender that
// always reports not configured.
func newEmailSender(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (transport.EmailSender, string) {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPConfigured() {
			return transport.NewSMTPSender(cfg.SMTP.Server, cfg.SMTP.Port, cfg.SMTP.Sender, cfg.SMTP.Password), "smtp"
		}
		log.Warn().Msg("email configuration incomplete, emails will not be sent")
	case "gmail":
		sender, err := transport.NewGmailSender(ctx, transport.GmailConfig{
			CredentialsJSON: cfg.Gmail.CredentialsJSON,
			SenderAddress:   cfg.Gmail.SenderAddress,
			SenderName:      cfg.Gmail.SenderName,
		})
		if err == nil {
			return sender, "gmail"
		}
		log.Error().Err(err).Msg("could not initialize gmail sender, emails will not be sent")
	default:
		log.Warn().Str("provider", cfg.Provider).Msg("email disabled")
	}
	return transport.DisabledSender{}, "disabled"
}

// newSMSSender returns the SMS transport and a func releasing its resources.
func newSMSSender(cfg config.SMSConfig, log *logger.Logger) (transport.SMSSender, func(), error) {
	switch cfg.Mode {
	case "amqp":
		q, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("queue", cfg.Queue).Msg("sms jobs will be published to RabbitMQ")
		return &transport.QueueSMS{Publisher: q, Topic: cfg.Queue}, func() { q.Close() }, nil
	case "simulate", "":
		q := queue.NewInMemoryQueue()
		worker := service.NewSMSWorker(&transport.SimulatedSMS{Log: log.WithComponent("sms_gateway")}, log)
		q.Subscribe(cfg.Queue, worker.Handle)
		return &transport.QueueSMS{Publisher: q, Topic: cfg.Queue}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported sms mode %q", cfg.Mode)
	}
}

func logStartupChecks(log *logger.Logger, cfg *config.Config, gen *service.ContentGenerator, emailMode string) {
	event := log.Info()
	if !gen.Available() || emailMode == "disabled" {
		event = log.Warn()
	}
	event.
		Bool("llm_available", gen.Available()).
		Str("email", emailMode).
		Str("sms", cfg.SMS.Mode).
		Str("donation_link", cfg.Campaign.DonationLink).
		Msg("startup checks")
}

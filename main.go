package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/config"
	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/events"
	"github.com/fincontrol/backend/internal/ledger"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/router"
	"github.com/fincontrol/backend/internal/session"
	"github.com/fincontrol/backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("loading .env")
	}

	cfg := config.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	url, err := url.Parse(cfg.APIURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		err = models.ConnectPostgres(cfg.DatabaseDSN)
	default:
		err = models.Connect(cfg.SQLitePath())
	}
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var generator assistant.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		generator = gemini
	} else {
		log.Warn().Msg("GEMINI_API_KEY is not set, the assistant is disabled")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqp, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		defer amqp.Close()
		publisher = amqp
	}

	co := v1.Controller{
		Gate:    session.New(models.DB, cfg.SessionTTL),
		Ledgers: ledger.NewRegistry(store.New(models.DB), publisher, assistant.New(generator)),
	}

	r, teardown, err := router.Config(url)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(co, r.Group(url.Path))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Msg(err.Error())
	}
}

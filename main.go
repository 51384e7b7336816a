package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/babyname-duel/cliparse"
	"github.com/danielhkuo/babyname-duel/db"
	"github.com/danielhkuo/babyname-duel/duel"
	"github.com/danielhkuo/babyname-duel/kv"
	"github.com/danielhkuo/babyname-duel/mailer"
	"github.com/danielhkuo/babyname-duel/middleware"
	"github.com/danielhkuo/babyname-duel/notify"
	"github.com/danielhkuo/babyname-duel/router"
	"github.com/danielhkuo/babyname-duel/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dialect, err := db.ParseDialect(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	dbConn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "dialect", dialect)

	m := newMailer(cfg)

	limiter, err := kv.NewLimiter(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer limiter.Close()

	// Events always go to the log; with Redis they are also queued for mail
	var sink notify.Sink = notify.LogSink{}
	var worker *notify.Worker
	if cfg.RedisURL != "" {
		queue, err := notify.NewQueueSink(cfg.RedisURL, cfg.QueueName)
		if err != nil {
			return err
		}
		defer queue.Close()
		sink = notify.Fanout{notify.LogSink{}, queue}

		worker, err = notify.NewWorker(cfg.RedisURL, cfg.QueueName, cfg.QueueConcurrency, m, cfg.PublicBaseURL)
		if err != nil {
			return err
		}
	}

	st := store.New(dbConn)
	svc := duel.NewService(st,
		duel.WithSink(sink),
		duel.WithMailer(m),
		duel.WithBaseURL(cfg.PublicBaseURL),
	)

	// Create server
	mux := router.NewRouter(svc, st, limiter, cfg)
	server := http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigin)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if worker != nil {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

func setupLogging(cfg cliparse.Config) {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newMailer(cfg cliparse.Config) mailer.Mailer {
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST not set, invite mails are only logged")
		return mailer.LogMailer{}
	}
	return mailer.NewSMTP(mailer.Config{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		FromName:   cfg.SMTP.FromName,
		Encryption: mailer.ParseEncryption(cfg.SMTP.Encryption),
	})
}

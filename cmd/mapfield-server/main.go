package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/internal/config"
	"github.com/goliatone/go-mapfield/internal/env"
	"github.com/goliatone/go-mapfield/internal/server"
	"github.com/goliatone/go-mapfield/pkg/record"
	"github.com/goliatone/go-mapfield/pkg/record/pgrecord"
)

func main() {
	configFile := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	if _, err := env.Load(); err != nil {
		log.Fatal().Err(err).Msg("cannot load .env")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger := newLogger(cfg.Log)
	if level, _ := cfg.Log.ZerologLevel(); level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	options := mapfield.OptionSet{}
	if cfg.Field.OptionsFile != "" {
		options, err = mapfield.LoadOptionsFile(cfg.Field.OptionsFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.Field.OptionsFile).Msg("cannot load field options")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store server.Store
	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer pool.Close()

		store = server.NewPostgresStore(pool, pgrecord.Table{
			Name:     cfg.Database.Table,
			TypeName: cfg.Field.RecordType,
			Columns:  record.LocationKinds(options),
		})
		logger.Info().Str("table", cfg.Database.Table).Msg("using postgres store")
	} else {
		memory := server.NewMemoryStore(cfg.Field.RecordType, record.LocationKinds(options))
		memory.Put("1", map[string]any{})
		store = memory
		logger.Info().Msg("using in-memory store with record 1")
	}

	srv, err := server.New(store,
		server.WithFieldOptions(options),
		server.WithTitle(cfg.Field.Title),
		server.WithAssetsPath(cfg.Server.AssetsPath),
		server.WithLookup(env.Lookup),
		server.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot build server")
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := cfg.ZerologLevel()
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Str("service", "mapfield-server").Logger()
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/peppidesu/landmower/internal/config"
	"github.com/peppidesu/landmower/internal/core"
	httpapi "github.com/peppidesu/landmower/internal/http"
	"github.com/peppidesu/landmower/internal/links"
	"github.com/peppidesu/landmower/internal/queue"
)

func main() {
	// Fast JSON logs by default; pretty if running in a TTY/dev
	if isatty() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	cfg := config.Load()

	var dataFlag string
	flag.StringVar(&dataFlag, "data", "", "link data path (overrides env LANDMOWER_LINK_DATA_PATH)")
	flag.Parse()
	if dataFlag != "" {
		cfg.LinkDataPath = dataFlag
	}

	store, err := links.Load(cfg.LinkDataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LinkDataPath).Msg("load link data")
	}
	log.Info().Int("links", store.Len()).Str("path", cfg.LinkDataPath).Msg("link data loaded")

	events := queue.New(cfg.QueueCapacity)
	svc := core.NewService(store, events, cfg.LinkDataPath, cfg.MergeInterval)

	// Start the background metadata merger
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.RunMerger(ctx)

	srv := &http.Server{
		Addr:              cfg.BindAddress,
		Handler:           httpapi.NewRouter(cfg, svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.BindAddress).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal")
	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("bye")
}

func isatty() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/lekkas/callbridge/internal/adapters/http"
	wssignal "github.com/lekkas/callbridge/internal/adapters/signal"
	"github.com/lekkas/callbridge/internal/app"
	"github.com/lekkas/callbridge/internal/config"
	"github.com/lekkas/callbridge/internal/dictionary"
	"github.com/lekkas/callbridge/internal/transcript"
	"github.com/lekkas/callbridge/internal/translate"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	registry := app.NewRegistry()
	rooms := app.NewRoomStore(cfg.RoomCapacity)
	relay := &app.Relay{Rooms: rooms, Registry: registry}
	presence := &app.Presence{Registry: registry, Rooms: rooms}
	transcripts := transcript.NewAggregator(cfg.TranscriptDir, cfg.TranscriptRetention)

	dict := dictionary.NewStore(cfg.DictionaryPath)
	if err := dict.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load dictionary")
	}

	backend := translate.NewClient(cfg.TranslatorURL)
	gate := translate.NewGate(backend, cfg.ProbeInterval)
	logs := translate.NewLogStore(cfg.TranslationLogPath)
	translator := translate.NewOrchestrator(backend, gate, logs, cfg.MaxTranslateChars, cfg.TranslateTimeout)

	orch := &app.Orchestrator{
		Registry:    registry,
		Rooms:       rooms,
		Relay:       relay,
		Presence:    presence,
		Transcripts: transcripts,
		Translator:  translator,
		Rewriter:    dict,
	}

	limiter := app.NewJoinRateLimiter(10, time.Minute)
	signalCtl := wssignal.NewController(orch, limiter, cfg.ReadLimit)

	go gate.Run(ctx)
	go transcripts.Run(ctx, cfg.SweepInterval)

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Signal:     signalCtl,
		Translator: translator,
		Gate:       gate,
		Logs:       logs,
		Dict:       dict,
		Registry:   registry,
		Rooms:      rooms,
		Presence:   presence,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("callbridge server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()

	// Flush all transcript buffers inside the grace window; the hard
	// deadline below bounds shutdown latency regardless.
	flushed := make(chan struct{})
	go func() {
		transcripts.FlushAll()
		close(flushed)
	}()
	select {
	case <-flushed:
	case <-shutdownCtx.Done():
		log.Warn().Msg("transcript flush cut short by shutdown deadline")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

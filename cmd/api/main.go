package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopvoice/backend/internal/artifact"
	"github.com/shopvoice/backend/internal/config"
	"github.com/shopvoice/backend/internal/handler"
	searchHandler "github.com/shopvoice/backend/internal/handler/search"
	"github.com/shopvoice/backend/internal/model/catalog"
	speechModel "github.com/shopvoice/backend/internal/model/speech"
	"github.com/shopvoice/backend/internal/service/ai"
	"github.com/shopvoice/backend/internal/service/query"
	"github.com/shopvoice/backend/internal/service/session"
	"github.com/shopvoice/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The catalog is the service's reason to exist; refusing to start without
	// one beats serving empty results.
	catalogStore, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("failed to load product catalog: %v", err)
	}
	log.Printf("loaded %d products from %s", len(catalogStore.List()), cfg.Catalog.Path)

	sessionService := session.NewService()

	var parser query.Parser
	if cfg.AI.Enabled() {
		parserService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize query parser: %v", err)
			log.Println("continuing without filter extraction - check the Ark environment variables")
		} else {
			parser = parserService
			log.Println("query parser initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping filter extraction")
	}

	var synth query.Synthesizer
	var audio searchHandler.AudioProvider
	if cfg.Speech.Enabled {
		speechService := speech.NewService(&speechModel.Config{
			AppID:       cfg.Speech.AppID,
			AccessToken: cfg.Speech.AccessToken,
			TTSVoice:    cfg.Speech.TTSVoice,
			TTSSpeed:    cfg.Speech.TTSSpeed,
			TTSVolume:   cfg.Speech.TTSVolume,
			TTSLanguage: cfg.Speech.TTSLanguage,
			Timeout:     cfg.Speech.Timeout,
		}, artifact.NewStore())
		synth = speechService
		audio = speechService
		log.Println("speech service initialized successfully")
	} else {
		log.Println("speech credentials not configured, responses will omit audio")
	}

	orchestrator := query.New(sessionService, catalogStore, parser, synth)
	router := handler.NewRouter(orchestrator, catalogStore, audio)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("shopvoice backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

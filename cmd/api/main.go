package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"creatorlabs.app/internal/access"
	"creatorlabs.app/internal/auth"
	"creatorlabs.app/internal/config"
	"creatorlabs.app/internal/content"
	"creatorlabs.app/internal/genai"
	"creatorlabs.app/internal/httpapi"
	"creatorlabs.app/internal/obs"
	"creatorlabs.app/internal/store/pg"
	"creatorlabs.app/internal/stream"
	"creatorlabs.app/internal/youtube"
)

var version = "0.3.1"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()

	if cfg.PGDSN == "" {
		log.Fatal("missing CREATORLABS_PG_DSN")
	}
	store, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	authSvc, err := auth.NewService(cfg.AuthSecret, store, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	manager, err := access.NewManager(store)
	if err != nil {
		log.Fatalf("access: %v", err)
	}

	var yt *youtube.Client
	if cfg.YouTubeKey != "" {
		yt = youtube.NewClient(cfg.YouTubeKey)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, httpapi.Deps{
		Auth:    authSvc,
		Access:  manager,
		Content: content.NewService(store),
		Gen:     genai.NewClient(cfg.GatewayURL, cfg.GatewayKey),
		YouTube: yt,
		Hub:     stream.NewHub(),
	})

	handler := httpapi.RequestID(
		httpapi.Logging(
			httpapi.SecurityHeaders(
				httpapi.CORS(
					httpapi.MaxBodyBytes(
						httpapi.RateLimit(api.Handler(), cfg.RateBurst, cfg.RatePerSec),
						cfg.MaxBodyBytes)))))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// No write timeout: generation and activity streams hold the
		// connection open for as long as the client listens.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("starting creatorlabs-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/api"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/auth"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/config"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/events"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/persistence/memory"
	postgresregistry "github.com/Swetivs/skills-getting-started-with-github-copilot/internal/persistence/postgres"
	httptransport "github.com/Swetivs/skills-getting-started-with-github-copilot/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var registry domain.Registry
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		registry = postgresregistry.NewRepository(pool)
		log.Printf("using postgres registry")
	} else {
		registry = memory.New()
		log.Printf("using in-memory registry with seeded activities")
	}

	opts := []domain.Option{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.RosterTopic)
		defer publisher.Close()
		opts = append(opts, domain.WithPublisher(publisher))
		log.Printf("publishing roster events to %s", cfg.RosterTopic)
	}

	service := domain.NewService(registry, opts...)

	handler := api.NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, authMiddleware.Wrap(logger(cors(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("signup-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

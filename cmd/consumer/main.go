package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/config"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/consumer"
)

func main() {
	cfg := config.Load()

	if cfg.PostgresURL == "" {
		log.Fatal("POSTGRES_URL is required: the audit consumer persists events to roster_event_log")
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	handler := consumer.NewAuditHandler(pool)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}

	go func() {
		log.Printf("consumer metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroupID,
		Topic:           cfg.RosterTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  cfg.CommitInterval,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})

	proc := consumer.NewProcessor(reader, handler)

	var wg sync.WaitGroup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer reader.Close()

		log.Printf("consumer started (topic=%s, group=%s)", cfg.RosterTopic, cfg.ConsumerGroupID)
		if err := proc.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("consumer stopped with error: %v", err)
		}
	}()

	<-stop
	log.Println("consumer shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}

	wg.Wait()
}

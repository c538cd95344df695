package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-inventory-admin.git/internal/config"
	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-admin.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-admin.git/internal/logx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/postgres"
	"github.com/ariefcatur/go-inventory-admin.git/internal/redisx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/reports"
	"github.com/ariefcatur/go-inventory-admin.git/internal/stats"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.New(cfg.ServiceName+"-stats", cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB (read-only di worker ini)
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	store := postgres.NewStore(db)
	svc := &stats.Service{
		Reports:     reports.NewService(store, rdb, log),
		Redis:       rdb,
		Log:         log,
		ServiceName: cfg.ServiceName + "-stats",
	}

	group := getenv("STATS_GROUP", "stats-svc")
	workers := mustAtoi(os.Getenv("STATS_WORKERS"), "4")

	// satu consumer per topic, handler sama
	for _, topic := range []string{inventory.TopicOrderEvents, inventory.TopicTransactionEvents} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers, log)
		go func(topic string) {
			log.WithField("topic", topic).WithField("group", group).Info("stats consumer started")
			if err := cons.Start(ctx, svc.HandleEvent); err != nil {
				log.WithError(err).WithField("topic", topic).Error("consumer exit")
				cancel()
			}
		}(topic)
	}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumers...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-inventory-admin.git/internal/config"
	"github.com/ariefcatur/go-inventory-admin.git/internal/httpx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-admin.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-admin.git/internal/logx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/postgres"
	"github.com/ariefcatur/go-inventory-admin.git/internal/redisx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/reports"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.ServiceName, cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	prodOrders := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicOrderEvents, 1024, log)
	prodOrders.Start(ctx)
	prodTxns := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicTransactionEvents, 1024, log)
	prodTxns.Start(ctx)

	// Engine + report reader + handlers
	store := postgres.NewStore(db)
	engine := inventory.NewEngine(store, log)
	rep := reports.NewService(store, rdb, log)
	validate := validator.New()

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{
		Engine: engine, Producer: prodOrders, Redis: rdb,
		Validate: validate, Service: cfg.ServiceName,
	}).Register(router)
	(&httpx.TransactionsHandler{
		Engine: engine, Producer: prodTxns,
		Validate: validate, Service: cfg.ServiceName,
	}).Register(router)
	(&httpx.ProductsHandler{Engine: engine, Validate: validate}).Register(router)
	(&httpx.ReportsHandler{Reports: rep}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodOrders.Close() // tutup inbox -> flush & close writer
	prodTxns.Close()
	cancel() // stop producer loop
	prodOrders.WaitClosed()
	prodTxns.WaitClosed()
}

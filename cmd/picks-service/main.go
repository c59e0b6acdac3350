package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	phttp "github.com/radieske/fight-picks-platform/internal/picks-service/http"
	kpub "github.com/radieske/fight-picks-platform/internal/picks-service/producer"
	"github.com/radieske/fight-picks-platform/internal/picks-service/repo"
	"github.com/radieske/fight-picks-platform/internal/picks-service/wallet"
	"github.com/radieske/fight-picks-platform/internal/shared/config"
	"github.com/radieske/fight-picks-platform/internal/shared/db"
	shkafka "github.com/radieske/fight-picks-platform/internal/shared/kafka"
	"github.com/radieske/fight-picks-platform/internal/shared/logger"
	"github.com/radieske/fight-picks-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic pick_placed)
	writer := shkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPickPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)

	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8082"
	}
	wcli := wallet.New(walletURL) // wallet-service
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicPickPlaced)

	// HTTP público
	api := phttp.NewServer(log, repository, wcli, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health", zap.String("port", cfg.MetricsPort))

	log.Info("picks-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

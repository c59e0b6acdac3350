package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	ihttp "github.com/radieske/fight-picks-platform/internal/results-ingest/http"
	"github.com/radieske/fight-picks-platform/internal/results-ingest/publisher"
	"github.com/radieske/fight-picks-platform/internal/results-ingest/repo"
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

	// Postgres (cards de eventos)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic fight_results, chave = fight_id)
	writer := shkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicFightResults)
	defer writer.Close()

	repository := repo.NewPostgres(pg)
	publ := publisher.NewKafkaPublisher(writer)

	api := ihttp.NewServer(log, repository, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health", zap.String("port", cfg.MetricsPort))

	log.Info("results-ingest listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

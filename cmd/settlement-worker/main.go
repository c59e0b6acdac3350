package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/settlement-worker/consumer"
	"github.com/radieske/fight-picks-platform/internal/settlement-worker/repo"
	"github.com/radieske/fight-picks-platform/internal/settlement-worker/wallet"
	"github.com/radieske/fight-picks-platform/internal/shared/config"
	"github.com/radieske/fight-picks-platform/internal/shared/db"
	shkafka "github.com/radieske/fight-picks-platform/internal/shared/kafka"
	"github.com/radieske/fight-picks-platform/internal/shared/logger"
	"github.com/radieske/fight-picks-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Conexão com Postgres (picks, lutas, resultados)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: resultados de luta (consumer group settlement)
	reader := shkafka.NewReader(cfg.KafkaBrokers, cfg.TopicFightResults, "settlement")
	defer reader.Close()

	// Kafka producers: pick_settled e DLQ
	settledWriter := shkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPickSettled)
	defer settledWriter.Close()

	dlqWriter := shkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicFightResultsDLQ)
	defer dlqWriter.Close()

	// Cliente da wallet para créditos/estornos idempotentes
	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8082"
	}
	wcli := wallet.New(walletURL)

	// Métricas Prometheus para monitoramento da liquidação
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_results_consumed_total", Help: "resultados consumidos"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_picks_settled_total", Help: "picks liquidados por status"}, []string{"status"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, outcomes, errorsBy)

	// Instancia o processor, conectando callbacks de métricas
	proc := &consumer.Processor{
		Log:     log,
		Reader:  reader,
		Repo:    repo.NewPostgres(pg),
		Wallet:  wcli,
		Settled: settledWriter,
		DLQ:     dlqWriter,

		OnConsumed: func() { consumed.Inc() },
		OnOutcome:  func(status string) { outcomes.WithLabelValues(status).Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicFightResults),
		zap.String("publish", cfg.TopicPickSettled),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}

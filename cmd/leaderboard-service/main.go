package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	lcache "github.com/radieske/fight-picks-platform/internal/leaderboard-service/cache"
	lhttp "github.com/radieske/fight-picks-platform/internal/leaderboard-service/http"
	"github.com/radieske/fight-picks-platform/internal/leaderboard-service/repo"
	sharedcache "github.com/radieske/fight-picks-platform/internal/shared/cache"
	"github.com/radieske/fight-picks-platform/internal/shared/config"
	"github.com/radieske/fight-picks-platform/internal/shared/db"
	"github.com/radieske/fight-picks-platform/internal/shared/logger"
	"github.com/radieske/fight-picks-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres (leitura de carteiras + picks)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (cache do ranking)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	api := &lhttp.API{
		ReadRepo: &repo.ReadRepo{DB: pg},
		Cache:    lcache.New(rdb),
		TTL:      cfg.LeaderboardTTL,
	}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health (verifica pg e redis)
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("port", cfg.MetricsPort))

	log.Info("leaderboard-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

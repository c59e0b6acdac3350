package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/shared/config"
	"github.com/radieske/fight-picks-platform/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

// routes monta o roteamento público. Cada serviço registra suas rotas com o
// próprio prefixo (/wallet, /picks, /v1/...), então o gateway só tira o /api
// do caminho antes de encaminhar.
func routes(wallet, picks, results, leaderboard http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// wallet (ex.: /api/wallet/debit -> wallet-service /wallet/debit)
	mux.Handle("/api/wallet", http.StripPrefix("/api", wallet))
	mux.Handle("/api/wallet/", http.StripPrefix("/api", wallet))

	// picks (ex.: /api/picks/{id} -> picks-service /picks/{id})
	mux.Handle("/api/picks", http.StripPrefix("/api", picks))
	mux.Handle("/api/picks/", http.StripPrefix("/api", picks))

	// ingestão de cards e resultados
	mux.Handle("/api/v1/cards", http.StripPrefix("/api", results))
	mux.Handle("/api/v1/results", http.StripPrefix("/api", results))

	// leaderboard
	mux.Handle("/api/v1/leaderboard", http.StripPrefix("/api", leaderboard))

	return mux
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8082"
	}
	picksURL := os.Getenv("PICKS_URL")
	if picksURL == "" {
		picksURL = "http://localhost:8083"
	}
	resultsURL := os.Getenv("RESULTS_URL")
	if resultsURL == "" {
		resultsURL = "http://localhost:8084"
	}
	leaderboardURL := os.Getenv("LEADERBOARD_URL")
	if leaderboardURL == "" {
		leaderboardURL = "http://localhost:8085"
	}

	mux := routes(rp(walletURL), rp(picksURL), rp(resultsURL), rp(leaderboardURL))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/fight-picks-platform/internal/leaderboard-service/cache"
	"github.com/radieske/fight-picks-platform/internal/leaderboard-service/rank"
	"github.com/radieske/fight-picks-platform/internal/leaderboard-service/repo"
)

// API expõe o endpoint REST do leaderboard
// Recomputa o ranking inteiro sob demanda e guarda o resultado no Redis
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // cache do ranking
	TTL      time.Duration
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/leaderboard", a.getLeaderboard)
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// getLeaderboard retorna o ranking corrente, preferencialmente do cache
func (a *API) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	var fromCache []rank.Entry
	if ok, _ := a.Cache.Get(r.Context(), &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	snaps, err := a.ReadRepo.Snapshots(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	entries := rank.Rank(snaps)

	_ = a.Cache.Set(r.Context(), entries, a.TTL)
	writeJSON(w, http.StatusOK, entries)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/results-ingest/dto"
	"github.com/radieske/fight-picks-platform/internal/results-ingest/repo"
	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
)

// Server é a borda HTTP do feed externo (scraper/admin): cadastra cards de
// eventos e recebe resultados de luta, que seguem pro Kafka.
type Server struct {
	log  *zap.Logger
	repo *repo.Postgres
	publ interface {
		PublishResult(context.Context, events.FightResult) error
	}
}

func NewServer(log *zap.Logger, r *repo.Postgres, p interface {
	PublishResult(context.Context, events.FightResult) error
}) *Server {
	return &Server{log: log, repo: r, publ: p}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cards", s.postCard)     // POST
	mux.HandleFunc("/v1/results", s.postResult) // POST
	return mux
}

// postCard cadastra (ou atualiza) um evento com suas lutas e lutadores
func (s *Server) postCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var card dto.CardRequest
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := card.Validate(); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	var startsAt time.Time
	if card.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, card.StartsAt)
		if err != nil {
			http.Error(w, "invalid starts_at, want RFC3339", http.StatusBadRequest)
			return
		}
		startsAt = t
	}

	if err := s.repo.UpsertCard(r.Context(), card, startsAt); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("card upserted",
		zap.String("eventId", card.EventID),
		zap.Int("fights", len(card.Fights)),
	)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}

// postResult valida o resultado e publica no Kafka; a liquidação em si é do
// settlement-worker (o feed pode reentregar, lá é idempotente)
func (s *Server) postResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	known, err := s.repo.FightExists(r.Context(), req.FightID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !known {
		http.Error(w, "unknown fight", http.StatusNotFound)
		return
	}

	ev := events.FightResult{
		FightID:         req.FightID,
		WinnerFighterID: req.WinnerFighterID,
		Method:          req.Method,
		Round:           req.Round,
		Time:            req.Time,
		NoContest:       req.NoContest,
	}
	if err := s.publ.PublishResult(r.Context(), ev); err != nil {
		s.log.Error("publish fight result", zap.String("fightId", req.FightID), zap.Error(err))
		http.Error(w, "publish failed", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"ACCEPTED"}`))
}

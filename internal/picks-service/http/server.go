package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/picks-service/dto"
	"github.com/radieske/fight-picks-platform/internal/picks-service/repo"
	"github.com/radieske/fight-picks-platform/internal/picks-service/validate"
	"github.com/radieske/fight-picks-platform/internal/picks-service/wallet"
	walletdto "github.com/radieske/fight-picks-platform/internal/picks-service/wallet/dto"
	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
	"github.com/radieske/fight-picks-platform/pkg/oddsmath"
)

// Repo é a persistência de picks e lutas usada pelo handler
type Repo interface {
	CreatePending(ctx context.Context, pk *repo.Pick) (string, error)
	DeletePending(ctx context.Context, pickID string) error
	Get(ctx context.Context, pickID string) (repo.Pick, error)
	ListByUser(ctx context.Context, userID string) ([]repo.Pick, error)
	GetFight(ctx context.Context, fightID string) (repo.Fight, error)
}

// WalletClient é o pedaço da API de wallet que a colocação usa
type WalletClient interface {
	GetWallet(ctx context.Context, userID string) (walletdto.WalletResponse, error)
	Debit(ctx context.Context, userID string, coins int64, externalRef string) (int64, error)
}

// Publisher publica o evento pick_placed
type Publisher interface {
	PublishPickPlaced(ctx context.Context, e events.PickPlaced) error
}

type Server struct {
	log  *zap.Logger
	repo Repo
	wcli WalletClient
	publ Publisher
	now  func() time.Time // relógio injetável nos testes da janela de lock
}

func NewServer(log *zap.Logger, r Repo, w WalletClient, p Publisher) *Server {
	return &Server{log: log, repo: r, wcli: w, publ: p, now: time.Now}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/picks", s.picks)    // POST coloca, GET ?userId= lista
	mux.HandleFunc("/picks/", s.getPick) // GET /picks/{id}
	return mux
}

func (s *Server) picks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placePick(w, r)
	case http.MethodGet:
		s.listPicks(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// placePick executa o fluxo de colocação:
// valida payload → carrega luta → valida regras (stake, saldo, lock, lutador)
// → calcula payout potencial → cria pick PENDING → debita stake na wallet
// → publica pick_placed. Se o débito falhar, o pick recém-criado é removido.
func (s *Server) placePick(w http.ResponseWriter, r *http.Request) {
	var req dto.PlacePickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	// 1) Luta e horário do evento
	fight, err := s.repo.GetFight(r.Context(), req.FightID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "unknown fight", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 2) Carteira (cria com grant inicial se for o primeiro pick do usuário)
	wal, err := s.wcli.GetWallet(r.Context(), req.UserID)
	if err != nil {
		http.Error(w, "wallet unavailable", http.StatusBadGateway)
		return
	}

	// 3) Regras de aceitação
	if err := validate.Check(s.now(), req.StakeCoins, wal.BalanceCoins, req.FighterID, fight); err != nil {
		writeRejection(w, err)
		return
	}

	// 4) Payout potencial (odd zero já barrada pelo Validate)
	decimal, err := oddsmath.DecimalOdds(req.OddsAmerican)
	if err != nil {
		http.Error(w, "invalid odds", http.StatusBadRequest)
		return
	}
	payout, err := oddsmath.Payout(req.StakeCoins, req.OddsAmerican)
	if err != nil {
		http.Error(w, "invalid odds", http.StatusBadRequest)
		return
	}

	// 5) Cria pick PENDING
	pickID, err := s.repo.CreatePending(r.Context(), &repo.Pick{
		UserID:          req.UserID,
		EventID:         fight.EventID,
		FightID:         req.FightID,
		FighterID:       req.FighterID,
		FighterName:     req.FighterName,
		StakeCoins:      req.StakeCoins,
		OddsAmerican:    req.OddsAmerican,
		OddsDecimal:     decimal,
		PotentialPayout: payout,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 6) Debita o stake (external_ref = pickID); a wallet faz a checagem
	// autoritativa de saldo sob lock
	newBalance, err := s.wcli.Debit(r.Context(), req.UserID, req.StakeCoins, pickID)
	if err != nil {
		if derr := s.repo.DeletePending(r.Context(), pickID); derr != nil {
			s.log.Error("rollback pick after debit failure", zap.String("pickId", pickID), zap.Error(derr))
		}
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			writeRejection(w, validate.ErrInsufficientFunds)
			return
		}
		http.Error(w, "wallet debit failed", http.StatusConflict)
		return
	}

	// 7) Publica evento pick_placed
	if err := s.publ.PublishPickPlaced(r.Context(), events.PickPlaced{
		PickID:          pickID,
		UserID:          req.UserID,
		EventID:         fight.EventID,
		FightID:         req.FightID,
		FighterID:       req.FighterID,
		StakeCoins:      req.StakeCoins,
		OddsAmerican:    req.OddsAmerican,
		PotentialPayout: payout,
	}); err != nil {
		s.log.Warn("publish pick_placed", zap.String("pickId", pickID), zap.Error(err))
	}

	writeJSON(w, dto.PlacePickResponse{
		PickID:          pickID,
		Status:          repo.StatusPending,
		PotentialPayout: payout,
		NewBalance:      newBalance,
	})
}

func (s *Server) listPicks(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	picks, err := s.repo.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.PickResponse, 0, len(picks))
	for _, pk := range picks {
		out = append(out, toPickResponse(pk))
	}
	writeJSON(w, out)
}

func (s *Server) getPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /picks/{id}
	id := r.URL.Path[len("/picks/"):]
	if id == "" {
		http.Error(w, "pickId required", http.StatusBadRequest)
		return
	}

	pk, err := s.repo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, toPickResponse(pk))
}

func toPickResponse(pk repo.Pick) dto.PickResponse {
	out := dto.PickResponse{
		PickID:          pk.ID,
		UserID:          pk.UserID,
		EventID:         pk.EventID,
		FightID:         pk.FightID,
		FighterID:       pk.FighterID,
		FighterName:     pk.FighterName,
		StakeCoins:      pk.StakeCoins,
		OddsAmerican:    pk.OddsAmerican,
		OddsDecimal:     pk.OddsDecimal,
		PotentialPayout: pk.PotentialPayout,
		Status:          pk.Status,
		CreatedAt:       pk.CreatedAt.Format(time.RFC3339),
	}
	if pk.Status != repo.StatusPending && pk.SettledAt.Unix() > 0 {
		out.SettledAt = pk.SettledAt.Format(time.RFC3339)
	}
	return out
}

// writeRejection converte motivo de rejeição em status HTTP com razão legível
func writeRejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalidStake):
		http.Error(w, "invalid stake", http.StatusBadRequest)
	case errors.Is(err, validate.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusUnprocessableEntity)
	case errors.Is(err, validate.ErrEventLocked):
		http.Error(w, "event locked for picks", http.StatusConflict)
	case errors.Is(err, validate.ErrInvalidFighter):
		http.Error(w, "unknown fighter for fight", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/wallet-service/dto"
	"github.com/radieske/fight-picks-platform/internal/wallet-service/repo"
)

// Repo define a interface de operações de carteira usadas pelo handler HTTP
type Repo interface {
	GetOrCreateWallet(ctx context.Context, userID string) (repo.Wallet, error)
	Debit(ctx context.Context, userID string, amount int64, externalRef string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, externalRef string) (int64, error)
	Refund(ctx context.Context, userID string, amount int64, externalRef string) (int64, error)
	RecordLoss(ctx context.Context, userID string, amount int64) error
	ListTransactions(ctx context.Context, userID string) ([]repo.Transaction, error)
}

// Server expõe endpoints HTTP para operações de carteira (moedas virtuais)
type Server struct {
	log  *zap.Logger
	repo Repo
}

// NewServer instancia o servidor HTTP de wallet
func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

// Router retorna o mux HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet", s.getWallet)                   // GET ?userId=...
	mux.HandleFunc("/wallet/debit", s.debit)                 // POST (stake)
	mux.HandleFunc("/wallet/credit", s.credit)               // POST (payout)
	mux.HandleFunc("/wallet/refund", s.refund)               // POST (no-contest)
	mux.HandleFunc("/wallet/loss", s.loss)                   // POST (estatística, sem mexer no saldo)
	mux.HandleFunc("/wallet/transactions", s.transactions)   // GET ?userId=...
	return mux
}

// getWallet retorna (ou cria com o grant inicial) a carteira do usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	wal, err := s.repo.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.WalletResponse{
		UserID:       userID,
		WalletID:     wal.ID,
		BalanceCoins: wal.BalanceCoins,
		TotalWagered: wal.TotalWagered,
		TotalWon:     wal.TotalWon,
		TotalLost:    wal.TotalLost,
	})
}

// debit desconta o stake de um pick do saldo do usuário
func (s *Server) debit(w http.ResponseWriter, r *http.Request) {
	var req dto.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.AmountCoins <= 0 || req.ExternalRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Debit(r.Context(), req.UserID, req.AmountCoins, req.ExternalRef)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{UserID: req.UserID, BalanceCoins: bal})
}

// credit aplica o payout de um pick vencedor
func (s *Server) credit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.AmountCoins <= 0 || req.ExternalRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Credit(r.Context(), req.UserID, req.AmountCoins, req.ExternalRef)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{UserID: req.UserID, BalanceCoins: bal})
}

// refund devolve o stake de um pick anulado
func (s *Server) refund(w http.ResponseWriter, r *http.Request) {
	var req dto.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.AmountCoins <= 0 || req.ExternalRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Refund(r.Context(), req.UserID, req.AmountCoins, req.ExternalRef)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{UserID: req.UserID, BalanceCoins: bal})
}

// loss registra a derrota nas estatísticas da carteira
func (s *Server) loss(w http.ResponseWriter, r *http.Request) {
	var req dto.LossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.AmountCoins <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.repo.RecordLoss(r.Context(), req.UserID, req.AmountCoins); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}

// transactions retorna o histórico do ledger do usuário
func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	txs, err := s.repo.ListTransactions(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.TransactionResponse{
			ID:            t.ID,
			TxType:        t.TxType,
			AmountCoins:   t.AmountCoins,
			BalanceBefore: t.BalanceBefore,
			BalanceAfter:  t.BalanceAfter,
			ExternalRef:   t.ExternalRef,
			CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, out)
}

func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusUnprocessableEntity)
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvalidAmount):
		http.Error(w, "invalid amount", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusConflict)
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/wallet-service/dto"
	whttp "github.com/radieske/fight-picks-platform/internal/wallet-service/http"
	wrepo "github.com/radieske/fight-picks-platform/internal/wallet-service/repo"
)

// memRepo reproduz em memória a disciplina do repositório Postgres:
// grant na criação, ledger append-only com balance_before/after e
// idempotência por (wallet, external_ref, tx_type).
type memRepo struct {
	grant   int64
	wallets map[string]*wrepo.Wallet
	ledgers map[string][]wrepo.Transaction
}

func newMemRepo(grant int64) *memRepo {
	return &memRepo{
		grant:   grant,
		wallets: map[string]*wrepo.Wallet{},
		ledgers: map[string][]wrepo.Transaction{},
	}
}

func (m *memRepo) GetOrCreateWallet(_ context.Context, userID string) (wrepo.Wallet, error) {
	if w, ok := m.wallets[userID]; ok {
		return *w, nil
	}
	w := &wrepo.Wallet{ID: "w-" + userID, UserID: userID, BalanceCoins: m.grant, CreatedAt: time.Now()}
	m.wallets[userID] = w
	m.append(w.ID, wrepo.TxGrant, m.grant, 0, m.grant, "initial-grant")
	return *w, nil
}

func (m *memRepo) Debit(_ context.Context, userID string, amount int64, externalRef string) (int64, error) {
	if amount <= 0 {
		return 0, wrepo.ErrInvalidAmount
	}
	w, ok := m.wallets[userID]
	if !ok {
		return 0, wrepo.ErrNotFound
	}
	if tx, done := m.find(w.ID, externalRef, wrepo.TxStake); done {
		return tx.BalanceAfter, nil
	}
	if w.BalanceCoins < amount {
		return 0, wrepo.ErrInsufficientFunds
	}
	before := w.BalanceCoins
	w.BalanceCoins -= amount
	w.TotalWagered += amount
	m.append(w.ID, wrepo.TxStake, -amount, before, w.BalanceCoins, externalRef)
	return w.BalanceCoins, nil
}

func (m *memRepo) Credit(_ context.Context, userID string, amount int64, externalRef string) (int64, error) {
	return m.credit(userID, amount, externalRef, wrepo.TxPayout)
}

func (m *memRepo) Refund(_ context.Context, userID string, amount int64, externalRef string) (int64, error) {
	return m.credit(userID, amount, externalRef, wrepo.TxRefund)
}

func (m *memRepo) credit(userID string, amount int64, externalRef, txType string) (int64, error) {
	if amount <= 0 {
		return 0, wrepo.ErrInvalidAmount
	}
	w, ok := m.wallets[userID]
	if !ok {
		return 0, wrepo.ErrNotFound
	}
	if tx, done := m.find(w.ID, externalRef, txType); done {
		return tx.BalanceAfter, nil
	}
	before := w.BalanceCoins
	w.BalanceCoins += amount
	if txType == wrepo.TxPayout {
		w.TotalWon += amount
	} else {
		w.TotalWagered -= amount
	}
	m.append(w.ID, txType, amount, before, w.BalanceCoins, externalRef)
	return w.BalanceCoins, nil
}

func (m *memRepo) RecordLoss(_ context.Context, userID string, amount int64) error {
	w, ok := m.wallets[userID]
	if !ok {
		return wrepo.ErrNotFound
	}
	w.TotalLost += amount
	return nil
}

func (m *memRepo) ListTransactions(_ context.Context, userID string) ([]wrepo.Transaction, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, nil
	}
	return m.ledgers[w.ID], nil
}

func (m *memRepo) append(walletID, txType string, amount, before, after int64, externalRef string) {
	m.ledgers[walletID] = append(m.ledgers[walletID], wrepo.Transaction{
		ID:            fmt.Sprintf("t-%d", len(m.ledgers[walletID])+1),
		WalletID:      walletID,
		TxType:        txType,
		AmountCoins:   amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		ExternalRef:   externalRef,
		CreatedAt:     time.Now(),
	})
}

func (m *memRepo) find(walletID, externalRef, txType string) (wrepo.Transaction, bool) {
	for _, tx := range m.ledgers[walletID] {
		if tx.ExternalRef == externalRef && tx.TxType == txType {
			return tx, true
		}
	}
	return wrepo.Transaction{}, false
}

func newRouter(grant int64) http.Handler {
	return whttp.NewServer(zap.NewNop(), newMemRepo(grant)).Router()
}

func doGET(t *testing.T, router http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func doPOST(t *testing.T, router http.Handler, path string, body map[string]any, out any) int {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b)))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

// Ciclo completo: grant → stake → payout → stake → estorno. Cada linha do
// ledger tem balance_after = balance_before + amount, e o replay das amounts
// a partir do zero reproduz o saldo final. Derrota não gera linha no ledger.
func TestWalletLedgerReplay(t *testing.T) {
	router := newRouter(1000)

	var wal dto.WalletResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))
	assert.Equal(t, int64(1000), wal.BalanceCoins)

	var bal dto.BalanceResponse
	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "u1", "amount_coins": 100, "external_ref": "pick-1"}, &bal))
	assert.Equal(t, int64(900), bal.BalanceCoins)

	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/credit",
		map[string]any{"userId": "u1", "amount_coins": 270, "external_ref": "payout:pick-1"}, &bal))
	assert.Equal(t, int64(1170), bal.BalanceCoins)

	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "u1", "amount_coins": 200, "external_ref": "pick-2"}, &bal))
	assert.Equal(t, int64(970), bal.BalanceCoins)

	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/refund",
		map[string]any{"userId": "u1", "amount_coins": 200, "external_ref": "refund:pick-2"}, &bal))
	assert.Equal(t, int64(1170), bal.BalanceCoins)

	// perda é só estatística, não mexe no saldo nem no ledger
	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/loss",
		map[string]any{"userId": "u1", "amount_coins": 150}, nil))

	var txs []dto.TransactionResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet/transactions?userId=u1", &txs))
	require.Len(t, txs, 5, "loss must not add a ledger row")

	var replayed int64
	for _, tx := range txs {
		assert.Equal(t, tx.BalanceBefore+tx.AmountCoins, tx.BalanceAfter,
			"tx %s (%s) breaks balance arithmetic", tx.ID, tx.TxType)
		replayed += tx.AmountCoins
	}

	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))
	assert.Equal(t, wal.BalanceCoins, replayed, "replaying the ledger from zero must reproduce the balance")
	assert.Equal(t, int64(1170), wal.BalanceCoins)
}

// Stake maior que o saldo: 422, saldo e ledger intactos.
func TestDebitInsufficientFunds(t *testing.T) {
	router := newRouter(1000)

	var wal dto.WalletResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))

	code := doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "u1", "amount_coins": 2000, "external_ref": "pick-1"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))
	assert.Equal(t, int64(1000), wal.BalanceCoins)

	var txs []dto.TransactionResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet/transactions?userId=u1", &txs))
	assert.Len(t, txs, 1) // só o grant
}

// Reenvio do mesmo external_ref: devolve o saldo da primeira aplicação,
// sem debitar de novo nem duplicar a linha do ledger.
func TestDebitDuplicateExternalRef(t *testing.T) {
	router := newRouter(1000)

	var wal dto.WalletResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))

	var first, second dto.BalanceResponse
	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "u1", "amount_coins": 100, "external_ref": "pick-1"}, &first))
	require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "u1", "amount_coins": 100, "external_ref": "pick-1"}, &second))

	assert.Equal(t, int64(900), first.BalanceCoins)
	assert.Equal(t, first.BalanceCoins, second.BalanceCoins)

	var txs []dto.TransactionResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet/transactions?userId=u1", &txs))
	assert.Len(t, txs, 2) // grant + um único stake
}

// Crédito reentregue (mesmo payout ref) paga uma vez só.
func TestCreditDuplicateExternalRef(t *testing.T) {
	router := newRouter(1000)

	var wal dto.WalletResponse
	require.Equal(t, http.StatusOK, doGET(t, router, "/wallet?userId=u1", &wal))

	var bal dto.BalanceResponse
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doPOST(t, router, "/wallet/credit",
			map[string]any{"userId": "u1", "amount_coins": 270, "external_ref": "payout:pick-1"}, &bal))
		assert.Equal(t, int64(1270), bal.BalanceCoins)
	}
}

// Operação em carteira inexistente: 404, nunca cria carteira implícita.
func TestDebitUnknownWallet(t *testing.T) {
	router := newRouter(1000)

	code := doPOST(t, router, "/wallet/debit",
		map[string]any{"userId": "ghost", "amount_coins": 100, "external_ref": "pick-1"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

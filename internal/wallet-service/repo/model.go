package repo

import "time"

// Wallet é a projeção de saldo persistida no Postgres.
// O saldo precisa ser sempre reconstituível a partir de wallet_transactions.
type Wallet struct {
	ID           string
	UserID       string
	BalanceCoins int64
	TotalWagered int64
	TotalWon     int64
	TotalLost    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transaction é uma entrada append-only do ledger.
// Invariante: BalanceAfter = BalanceBefore + AmountCoins.
type Transaction struct {
	ID            string
	WalletID      string
	TxType        string // GRANT | STAKE | PAYOUT | REFUND
	AmountCoins   int64  // assinado: STAKE negativo, demais positivos
	BalanceBefore int64
	BalanceAfter  int64
	ExternalRef   string
	CreatedAt     time.Time
}

const (
	TxGrant  = "GRANT"
	TxStake  = "STAKE"
	TxPayout = "PAYOUT"
	TxRefund = "REFUND"
)

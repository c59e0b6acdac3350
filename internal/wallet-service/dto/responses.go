package dto

type WalletResponse struct {
	UserID       string `json:"userId"`
	WalletID     string `json:"walletId"`
	BalanceCoins int64  `json:"balance_coins"`
	TotalWagered int64  `json:"total_wagered_coins"`
	TotalWon     int64  `json:"total_won_coins"`
	TotalLost    int64  `json:"total_lost_coins"`
}

type BalanceResponse struct {
	UserID       string `json:"userId"`
	BalanceCoins int64  `json:"balance_coins"`
}

type TransactionResponse struct {
	ID            string `json:"id"`
	TxType        string `json:"tx_type"` // GRANT | STAKE | PAYOUT | REFUND
	AmountCoins   int64  `json:"amount_coins"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	ExternalRef   string `json:"external_ref,omitempty"`
	CreatedAt     string `json:"created_at"`
}

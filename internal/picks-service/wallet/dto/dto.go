package dto

type WalletResponse struct {
	UserID       string `json:"userId"`
	WalletID     string `json:"walletId"`
	BalanceCoins int64  `json:"balance_coins"`
}

type DebitRequest struct {
	UserID      string `json:"userId"`
	AmountCoins int64  `json:"amount_coins"`
	ExternalRef string `json:"external_ref"` // pickId
}

type BalanceResponse struct {
	UserID       string `json:"userId"`
	BalanceCoins int64  `json:"balance_coins"`
}

package dto

type DebitRequest struct {
	UserID      string `json:"userId"`
	AmountCoins int64  `json:"amount_coins"`
	ExternalRef string `json:"external_ref"` // ex: pickId
}

type CreditRequest struct {
	UserID      string `json:"userId"`
	AmountCoins int64  `json:"amount_coins"`
	ExternalRef string `json:"external_ref"` // ex: "payout:"+pickId
}

type RefundRequest struct {
	UserID      string `json:"userId"`
	AmountCoins int64  `json:"amount_coins"`
	ExternalRef string `json:"external_ref"`
}

type LossRequest struct {
	UserID      string `json:"userId"`
	AmountCoins int64  `json:"amount_coins"`
}

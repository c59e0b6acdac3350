package events

// Evento emitido pelo settlement-worker após liquidar um pick.
type PickSettled struct {
	PickID      string `json:"pickId"`
	UserID      string `json:"userId"`
	FightID     string `json:"fightId"`
	Status      string `json:"status"` // "WON" | "LOST" | "REFUNDED"
	PayoutCoins int64  `json:"payout_coins"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}

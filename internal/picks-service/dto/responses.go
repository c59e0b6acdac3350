package dto

type PlacePickResponse struct {
	PickID          string `json:"pickId"`
	Status          string `json:"status"` // PENDING
	PotentialPayout int64  `json:"potential_payout_coins"`
	NewBalance      int64  `json:"new_balance_coins"`
}

type PickResponse struct {
	PickID          string  `json:"pickId"`
	UserID          string  `json:"userId"`
	EventID         string  `json:"eventId"`
	FightID         string  `json:"fightId"`
	FighterID       string  `json:"fighterId"`
	FighterName     string  `json:"fighterName,omitempty"`
	StakeCoins      int64   `json:"stake_coins"`
	OddsAmerican    int     `json:"odds_american"`
	OddsDecimal     float64 `json:"odds_decimal"`
	PotentialPayout int64   `json:"potential_payout_coins"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	SettledAt       string  `json:"settled_at,omitempty"`
}

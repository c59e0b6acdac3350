package events

type PickPlaced struct {
	PickID          string `json:"pick_id"`
	UserID          string `json:"user_id"`
	EventID         string `json:"event_id"`
	FightID         string `json:"fight_id"`
	FighterID       string `json:"fighter_id"`
	StakeCoins      int64  `json:"stake_coins"`
	OddsAmerican    int    `json:"odds_american"`
	PotentialPayout int64  `json:"potential_payout_coins"`
	TsUnixMs        int64  `json:"ts_unix_ms"`
}

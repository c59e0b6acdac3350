package dto

import "github.com/go-playground/validator/v10"

var v = validator.New()

// PlacePickRequest é o payload de colocação de pick.
// user_id chega resolvido externamente (bearer token tratado fora daqui).
type PlacePickRequest struct {
	UserID       string `json:"userId" validate:"required"`
	EventID      string `json:"eventId" validate:"required"`
	FightID      string `json:"fightId" validate:"required"`
	FighterID    string `json:"fighterId" validate:"required"`
	FighterName  string `json:"fighterName"`
	StakeCoins   int64  `json:"stake_coins" validate:"required,gt=0"`
	OddsAmerican int    `json:"odds_american" validate:"required"` // required já rejeita 0
}

// Validate confere a forma do payload na borda, antes de qualquer I/O
func (r *PlacePickRequest) Validate() error {
	return v.Struct(r)
}

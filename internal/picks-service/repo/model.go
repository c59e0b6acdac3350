package repo

import "time"

// Pick é o palpite persistido no Postgres.
type Pick struct {
	ID              string
	UserID          string
	EventID         string
	FightID         string
	FighterID       string
	FighterName     string
	StakeCoins      int64
	OddsAmerican    int
	OddsDecimal     float64
	PotentialPayout int64
	Status          string
	CreatedAt       time.Time
	SettledAt       time.Time
}

// Transições permitidas: PENDING → WON | LOST | REFUNDED, nunca de volta.
const (
	StatusPending  = "PENDING"
	StatusWon      = "WON"
	StatusLost     = "LOST"
	StatusRefunded = "REFUNDED"
)

// Fight é a luta como cadastrada pelo results-ingest, com o horário do evento.
// StartsAt zero significa horário desconhecido (bloqueia picks).
type Fight struct {
	ID           string
	EventID      string
	EventName    string
	FighterAID   string
	FighterAName string
	FighterBID   string
	FighterBName string
	StartsAt     time.Time
}

package dto

import "github.com/go-playground/validator/v10"

var v = validator.New()

// CardRequest é a carga de um evento com suas lutas, vinda do scraper/admin.
// Forma validada na borda; payload malformado é rejeitado antes de tocar o banco.
type CardRequest struct {
	EventID   string         `json:"event_id" validate:"required"`
	EventName string         `json:"event_name" validate:"required"`
	StartsAt  string         `json:"starts_at"` // RFC3339; vazio = horário ainda desconhecido
	Fights    []FightRequest `json:"fights" validate:"required,min=1,dive"`
}

type FightRequest struct {
	FightID      string `json:"fight_id" validate:"required"`
	FighterAID   string `json:"fighter_a_id" validate:"required"`
	FighterAName string `json:"fighter_a_name" validate:"required"`
	FighterBID   string `json:"fighter_b_id" validate:"required"`
	FighterBName string `json:"fighter_b_name" validate:"required"`
}

func (c *CardRequest) Validate() error {
	return v.Struct(c)
}

// ResultRequest é o resultado de uma luta reportado pelo feed externo
type ResultRequest struct {
	FightID         string `json:"fight_id" validate:"required"`
	WinnerFighterID string `json:"winner_fighter_id" validate:"required_without=NoContest"`
	Method          string `json:"method"`
	Round           int    `json:"round" validate:"gte=0,lte=12"`
	Time            string `json:"time"`
	NoContest       bool   `json:"no_contest"`
}

func (r *ResultRequest) Validate() error {
	if err := v.Struct(r); err != nil {
		return err
	}
	return nil
}

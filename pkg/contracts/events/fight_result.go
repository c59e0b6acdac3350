package events

// Resultado oficial de uma luta, fornecido pelo scraper/admin.
// A chave Kafka é o fight_id, garantindo ordem por luta.
type FightResult struct {
	FightID         string `json:"fight_id"`
	WinnerFighterID string `json:"winner_fighter_id,omitempty"` // vazio quando no-contest
	Method          string `json:"method,omitempty"`
	Round           int    `json:"round,omitempty"`
	Time            string `json:"time,omitempty"`
	NoContest       bool   `json:"no_contest"`
	TsUnixMs        int64  `json:"ts_unix_ms"`
}

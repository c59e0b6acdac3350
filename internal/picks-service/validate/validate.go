package validate

import (
	"errors"
	"time"

	"github.com/radieske/fight-picks-platform/internal/picks-service/repo"
	"github.com/radieske/fight-picks-platform/pkg/lockwindow"
)

// Motivos de rejeição de um pick. Todos recuperáveis pelo chamador: a API
// devolve a razão ao usuário, nada aqui é fatal para o processo.
var (
	ErrInvalidStake      = errors.New("invalid stake")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEventLocked       = errors.New("event locked")
	ErrInvalidFighter    = errors.New("unknown fighter for fight")
)

// Check valida um pedido de pick antes da aceitação. Não muta nada; o débito
// atômico fica por conta da wallet (a checagem de saldo aqui é só fail fast,
// a autoritativa acontece sob lock no débito).
func Check(now time.Time, stake, balance int64, fighterID string, fight repo.Fight) error {
	if stake <= 0 {
		return ErrInvalidStake
	}
	if stake > balance {
		return ErrInsufficientFunds
	}
	// Uma vez travado o evento, nenhuma luta dele aceita pick
	if lockwindow.IsLocked(now, fight.StartsAt) {
		return ErrEventLocked
	}
	if fighterID != fight.FighterAID && fighterID != fight.FighterBID {
		return ErrInvalidFighter
	}
	return nil
}

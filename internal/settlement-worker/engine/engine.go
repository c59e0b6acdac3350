package engine

import (
	"fmt"

	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
	"github.com/radieske/fight-picks-platform/pkg/oddsmath"
)

// Pick é a visão mínima de um palpite que a liquidação precisa.
type Pick struct {
	ID           string
	UserID       string
	FightID      string
	FighterID    string
	StakeCoins   int64
	OddsAmerican int
	Status       string
}

// Fight identifica o par de lutadores cadastrado para a luta.
type Fight struct {
	ID         string
	FighterAID string
	FighterBID string
}

// Outcome é a decisão da liquidação para um pick.
// PayoutCoins: WON = stake + lucro, REFUNDED = stake, LOST = 0.
type Outcome struct {
	PickID      string
	UserID      string
	FightID     string
	StakeCoins  int64
	Status      string // WON | LOST | REFUNDED
	PayoutCoins int64
}

const (
	StatusPending  = "PENDING"
	StatusWon      = "WON"
	StatusLost     = "LOST"
	StatusRefunded = "REFUNDED"
)

// SettlementError invalida a liquidação de UMA luta; lutas irmãs do mesmo
// lote seguem normalmente.
type SettlementError struct {
	FightID string
	Reason  string
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed for fight %s: %s", e.FightID, e.Reason)
}

// Settle decide o desfecho de cada pick pendente de uma luta.
// Função pura: não toca banco nem carteira, só calcula os outcomes.
//
// Regras:
//   - no-contest anula tudo: todo pick pendente vira REFUNDED com o stake de volta
//   - vencedor precisa ser um dos dois lutadores cadastrados, senão SettlementError
//   - pick no vencedor → WON com payout de oddsmath; no perdedor → LOST, payout 0
//     (o stake já saiu do saldo na colocação, derrota não gera lançamento novo)
//   - pick que não está PENDING é pulado: reentrega do mesmo resultado vira no-op
func Settle(fight Fight, result events.FightResult, picks []Pick) ([]Outcome, error) {
	if !result.NoContest &&
		result.WinnerFighterID != fight.FighterAID &&
		result.WinnerFighterID != fight.FighterBID {
		return nil, &SettlementError{
			FightID: fight.ID,
			Reason:  fmt.Sprintf("winner %q is not part of the fight", result.WinnerFighterID),
		}
	}

	var out []Outcome
	for _, pk := range picks {
		if pk.Status != StatusPending {
			continue
		}

		switch {
		case result.NoContest:
			out = append(out, Outcome{
				PickID:      pk.ID,
				UserID:      pk.UserID,
				FightID:     pk.FightID,
				StakeCoins:  pk.StakeCoins,
				Status:      StatusRefunded,
				PayoutCoins: pk.StakeCoins,
			})
		case pk.FighterID == result.WinnerFighterID:
			payout, err := oddsmath.Payout(pk.StakeCoins, pk.OddsAmerican)
			if err != nil {
				// odd inválida persistida não deveria existir; invalida a luta inteira
				return nil, &SettlementError{FightID: fight.ID, Reason: "stored pick has invalid odds: " + err.Error()}
			}
			out = append(out, Outcome{
				PickID:      pk.ID,
				UserID:      pk.UserID,
				FightID:     pk.FightID,
				StakeCoins:  pk.StakeCoins,
				Status:      StatusWon,
				PayoutCoins: payout,
			})
		default:
			out = append(out, Outcome{
				PickID:     pk.ID,
				UserID:     pk.UserID,
				FightID:    pk.FightID,
				StakeCoins: pk.StakeCoins,
				Status:     StatusLost,
			})
		}
	}

	return out, nil
}

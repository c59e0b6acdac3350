package oddsmath

import (
	"errors"
	"fmt"
)

// ErrInvalidOdds indica odd americana igual a zero (não existe nessa notação).
var ErrInvalidOdds = errors.New("invalid american odds: cannot be 0")

// DecimalOdds converte odds americanas para decimais.
// +150 → 2.50; -200 → 1.50
func DecimalOdds(american int) (float64, error) {
	if american == 0 {
		return 0, ErrInvalidOdds
	}

	if american > 0 {
		return 1.0 + float64(american)/100.0, nil
	}
	return 1.0 + 100.0/float64(-american), nil
}

// Payout calcula o retorno total (stake + lucro) de um pick vencedor, em moedas inteiras.
// Lucro arredondado half-up para a moeda inteira mais próxima; nunca existe fração de moeda.
// +170 com stake 100 → 270; -200 com stake 100 → 150
func Payout(stake int64, american int) (int64, error) {
	if american == 0 {
		return 0, ErrInvalidOdds
	}
	if stake <= 0 {
		return 0, fmt.Errorf("invalid stake: %d", stake)
	}

	var profit int64
	if american > 0 {
		profit = roundHalfUp(stake*int64(american), 100)
	} else {
		profit = roundHalfUp(stake*100, int64(-american))
	}
	return stake + profit, nil
}

// PotentialProfit retorna apenas o lucro de um pick vencedor.
func PotentialProfit(stake int64, american int) (int64, error) {
	p, err := Payout(stake, american)
	if err != nil {
		return 0, err
	}
	return p - stake, nil
}

// roundHalfUp divide num/den arredondando .5 para cima, em aritmética inteira.
func roundHalfUp(num, den int64) int64 {
	return (2*num + den) / (2 * den)
}

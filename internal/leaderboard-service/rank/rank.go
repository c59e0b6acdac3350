package rank

import (
	"sort"
	"time"
)

// Snapshot é a foto de um usuário no instante do ranking:
// saldo atual + payout potencial dos picks ainda pendentes.
type Snapshot struct {
	UserID        string
	BalanceCoins  int64
	PendingPayout int64
	CreatedAt     time.Time
}

// Entry é uma linha do leaderboard.
type Entry struct {
	UserID         string `json:"userId"`
	Rank           int    `json:"rank"`
	PortfolioValue int64  `json:"portfolio_value_coins"`
}

// Rank ordena por portfolio (saldo + payouts potenciais) decrescente.
// Empate decide pela conta mais antiga, e por último pelo userId, pra que
// recomputar sobre o mesmo snapshot dê sempre a mesma ordem.
// Recomputação completa a cada chamada, sem estado incremental.
func Rank(snaps []Snapshot) []Entry {
	sorted := make([]Snapshot, len(snaps))
	copy(sorted, snaps)

	sort.Slice(sorted, func(i, j int) bool {
		pi, pj := portfolio(sorted[i]), portfolio(sorted[j])
		if pi != pj {
			return pi > pj
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	out := make([]Entry, len(sorted))
	for i, s := range sorted {
		out[i] = Entry{
			UserID:         s.UserID,
			Rank:           i + 1,
			PortfolioValue: portfolio(s),
		}
	}
	return out
}

func portfolio(s Snapshot) int64 {
	return s.BalanceCoins + s.PendingPayout
}

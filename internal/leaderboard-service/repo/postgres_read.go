package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/fight-picks-platform/internal/leaderboard-service/rank"
)

// ReadRepo lê a foto de carteiras + picks pendentes para o ranking
type ReadRepo struct {
	DB *sql.DB
}

// Snapshots retorna um snapshot por usuário com carteira:
// saldo atual e soma dos payouts potenciais dos picks PENDING.
func (r *ReadRepo) Snapshots(ctx context.Context) ([]rank.Snapshot, error) {
	const q = `
		SELECT w.user_id, w.balance_coins,
		       COALESCE(SUM(p.potential_payout_coins), 0) AS pending_payout,
		       w.created_at
		FROM wallets w
		LEFT JOIN picks p ON p.user_id = w.user_id AND p.status = 'PENDING'
		GROUP BY w.user_id, w.balance_coins, w.created_at
		ORDER BY w.user_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []rank.Snapshot
	for rows.Next() {
		var s rank.Snapshot
		if err := rows.Scan(&s.UserID, &s.BalanceCoins, &s.PendingPayout, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

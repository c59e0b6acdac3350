package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/fight-picks-platform/internal/settlement-worker/engine"
	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
)

// Postgres dá ao worker acesso a picks, lutas e resultados gravados
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// FightPair carrega o par de lutadores cadastrado para a luta
func (p *Postgres) FightPair(ctx context.Context, fightID string) (engine.Fight, error) {
	var f engine.Fight
	err := p.db.QueryRowContext(ctx,
		`SELECT id, fighter_a_id, fighter_b_id FROM fights WHERE id=$1`,
		fightID).Scan(&f.ID, &f.FighterAID, &f.FighterBID)
	return f, err
}

// PendingPicksForFight retorna os picks ainda PENDING de uma luta
func (p *Postgres) PendingPicksForFight(ctx context.Context, fightID string) ([]engine.Pick, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, fight_id, fighter_id, stake_coins, odds_american, status
		FROM picks
		WHERE fight_id=$1 AND status='PENDING'`, fightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Pick
	for rows.Next() {
		var pk engine.Pick
		if err := rows.Scan(&pk.ID, &pk.UserID, &pk.FightID, &pk.FighterID,
			&pk.StakeCoins, &pk.OddsAmerican, &pk.Status); err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, rows.Err()
}

// MarkSettled aplica a transição PENDING → status final.
// O WHERE status='PENDING' é o guarda de idempotência: reentrega do mesmo
// resultado não encontra linha para mudar e devolve false.
func (p *Postgres) MarkSettled(ctx context.Context, pickID, status string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE picks SET status=$1, settled_at=NOW()
		WHERE id=$2 AND status='PENDING'`, status, pickID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordResult grava (ou regrava, em reentrega) o resultado oficial da luta
func (p *Postgres) RecordResult(ctx context.Context, r events.FightResult) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO fight_results (fight_id, winner_fighter_id, method, round, fight_time, no_contest, settled)
		VALUES ($1, NULLIF($2,''), $3, $4, $5, $6, TRUE)
		ON CONFLICT (fight_id) DO UPDATE SET
		  winner_fighter_id = EXCLUDED.winner_fighter_id,
		  method     = EXCLUDED.method,
		  round      = EXCLUDED.round,
		  fight_time = EXCLUDED.fight_time,
		  no_contest = EXCLUDED.no_contest,
		  settled    = TRUE`,
		r.FightID, r.WinnerFighterID, r.Method, r.Round, r.Time, r.NoContest)
	return err
}

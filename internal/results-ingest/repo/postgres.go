package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/radieske/fight-picks-platform/internal/results-ingest/dto"
)

// Postgres grava cards de eventos (eventos, lutas, lutadores) vindos do feed
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// UpsertCard grava o evento e suas lutas numa transação única.
// Reenvio do mesmo card atualiza nomes e horário sem duplicar nada.
func (p *Postgres) UpsertCard(ctx context.Context, card dto.CardRequest, startsAt time.Time) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var starts any
	if !startsAt.IsZero() {
		starts = startsAt
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, name, starts_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, starts_at=EXCLUDED.starts_at`,
		card.EventID, card.EventName, starts); err != nil {
		return err
	}

	for _, f := range card.Fights {
		for _, fighter := range []struct{ id, name string }{
			{f.FighterAID, f.FighterAName},
			{f.FighterBID, f.FighterBName},
		} {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO fighters (id, name) VALUES ($1,$2)
				ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`,
				fighter.id, fighter.name); err != nil {
				return err
			}
		}

		if _, err = tx.ExecContext(ctx, `
			INSERT INTO fights (id, event_id, fighter_a_id, fighter_b_id)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE SET
			  event_id=EXCLUDED.event_id,
			  fighter_a_id=EXCLUDED.fighter_a_id,
			  fighter_b_id=EXCLUDED.fighter_b_id`,
			f.FightID, card.EventID, f.FighterAID, f.FighterBID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FightExists confere se a luta do resultado está cadastrada
func (p *Postgres) FightExists(ctx context.Context, fightID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `SELECT 1 FROM fights WHERE id=$1`, fightID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

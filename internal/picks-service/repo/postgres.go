package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Postgres implementa operações de persistência de picks em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de picks
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CreatePending insere um novo pick com status PENDING
func (p *Postgres) CreatePending(ctx context.Context, pk *Pick) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO picks (id,user_id,event_id,fight_id,fighter_id,fighter_name,
		                   stake_coins,odds_american,odds_decimal,potential_payout_coins,status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,'PENDING')`,
		id, pk.UserID, pk.EventID, pk.FightID, pk.FighterID, pk.FighterName,
		pk.StakeCoins, pk.OddsAmerican, pk.OddsDecimal, pk.PotentialPayout,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeletePending remove um pick que não chegou a ter o stake debitado.
// Só apaga se ainda estiver PENDING; pick liquidado é imutável.
func (p *Postgres) DeletePending(ctx context.Context, pickID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM picks WHERE id=$1 AND status='PENDING'`, pickID)
	return err
}

// Get retorna um pick pelo id
func (p *Postgres) Get(ctx context.Context, pickID string) (Pick, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id,user_id,event_id,fight_id,fighter_id,fighter_name,
		       stake_coins,odds_american,odds_decimal,potential_payout_coins,status,
		       created_at, COALESCE(settled_at, 'epoch'::timestamptz)
		FROM picks WHERE id=$1`, pickID)
	return scanPick(row)
}

// ListByUser retorna os picks de um usuário, mais recente primeiro
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]Pick, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,user_id,event_id,fight_id,fighter_id,fighter_name,
		       stake_coins,odds_american,odds_decimal,potential_payout_coins,status,
		       created_at, COALESCE(settled_at, 'epoch'::timestamptz)
		FROM picks WHERE user_id=$1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pick
	for rows.Next() {
		pk, err := scanPickRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, rows.Err()
}

// GetFight carrega a luta com os dois lutadores e o horário do evento.
// starts_at nulo volta como time zero (horário desconhecido).
func (p *Postgres) GetFight(ctx context.Context, fightID string) (Fight, error) {
	var f Fight
	var startsAt sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT f.id, f.event_id, e.name,
		       f.fighter_a_id, fa.name, f.fighter_b_id, fb.name,
		       e.starts_at
		FROM fights f
		JOIN events e ON e.id = f.event_id
		JOIN fighters fa ON fa.id = f.fighter_a_id
		JOIN fighters fb ON fb.id = f.fighter_b_id
		WHERE f.id=$1`, fightID).Scan(
		&f.ID, &f.EventID, &f.EventName,
		&f.FighterAID, &f.FighterAName, &f.FighterBID, &f.FighterBName,
		&startsAt)
	if err != nil {
		return Fight{}, err
	}
	if startsAt.Valid {
		f.StartsAt = startsAt.Time
	}
	return f, nil
}

func scanPick(row *sql.Row) (Pick, error) {
	var pk Pick
	err := row.Scan(&pk.ID, &pk.UserID, &pk.EventID, &pk.FightID, &pk.FighterID, &pk.FighterName,
		&pk.StakeCoins, &pk.OddsAmerican, &pk.OddsDecimal, &pk.PotentialPayout, &pk.Status,
		&pk.CreatedAt, &pk.SettledAt)
	return pk, err
}

func scanPickRows(rows *sql.Rows) (Pick, error) {
	var pk Pick
	err := rows.Scan(&pk.ID, &pk.UserID, &pk.EventID, &pk.FightID, &pk.FighterID, &pk.FighterName,
		&pk.StakeCoins, &pk.OddsAmerican, &pk.OddsDecimal, &pk.PotentialPayout, &pk.Status,
		&pk.CreatedAt, &pk.SettledAt)
	return pk, err
}

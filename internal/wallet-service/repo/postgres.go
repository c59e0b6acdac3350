package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa operações de carteira em banco
type Postgres struct {
	db           *sql.DB
	initialGrant int64
}

func NewPostgres(db *sql.DB, initialGrant int64) *Postgres {
	return &Postgres{db: db, initialGrant: initialGrant}
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// GetOrCreateWallet retorna a carteira de um usuário, criando-a com o grant
// inicial se não existir. O grant entra no ledger como transação GRANT.
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string) (Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Wallet{}, err
	}
	defer tx.Rollback()

	w, err := scanWallet(tx.QueryRowContext(ctx, `
		SELECT id, user_id, balance_coins, total_wagered_coins, total_won_coins, total_lost_coins, created_at, updated_at
		FROM wallets WHERE user_id=$1`, userID))
	if err == sql.ErrNoRows {
		w = Wallet{ID: uuid.NewString(), UserID: userID, BalanceCoins: p.initialGrant}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO wallets(id, user_id, balance_coins, total_wagered_coins, total_won_coins, total_lost_coins, version)
			VALUES($1,$2,$3,0,0,0,1)`,
			w.ID, userID, p.initialGrant); err != nil {
			return Wallet{}, err
		}
		if err = insertTx(ctx, tx, w.ID, TxGrant, p.initialGrant, 0, p.initialGrant, "initial-grant"); err != nil {
			return Wallet{}, err
		}
	} else if err != nil {
		return Wallet{}, err
	}

	if err = tx.Commit(); err != nil {
		return Wallet{}, err
	}

	return w, nil
}

// Debit desconta o stake de um pick do saldo, registrando transação STAKE.
// Lock pessimista na linha da carteira serializa mutações por usuário; duas
// colocações concorrentes não passam na checagem de saldo com valor velho.
// Idempotente por (wallet_id, external_ref, tx_type); saldo nunca fica negativo.
func (p *Postgres) Debit(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var walletID string
	var balance int64
	if err = tx.QueryRowContext(ctx,
		`SELECT id, balance_coins FROM wallets WHERE user_id=$1 FOR UPDATE`,
		userID).Scan(&walletID, &balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}

	// Idempotência: débito já aplicado para este external_ref
	if done, bal, derr := txExists(ctx, tx, walletID, externalRef, TxStake); derr != nil {
		return 0, derr
	} else if done {
		return bal, tx.Commit()
	}

	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	newBalance = balance - amount
	if _, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance_coins=$1, total_wagered_coins = total_wagered_coins + $2,
		       version = version + 1, updated_at = NOW()
		WHERE id=$3`, newBalance, amount, walletID); err != nil {
		return 0, err
	}

	if err = insertTx(ctx, tx, walletID, TxStake, -amount, balance, newBalance, externalRef); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Credit credita o payout de um pick vencedor (transação PAYOUT).
// Idempotente por external_ref: reentrega do mesmo resultado é no-op.
func (p *Postgres) Credit(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	return p.credit(ctx, userID, amount, externalRef, TxPayout)
}

// Refund devolve o stake de um pick anulado (no-contest), transação REFUND.
func (p *Postgres) Refund(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	return p.credit(ctx, userID, amount, externalRef, TxRefund)
}

func (p *Postgres) credit(ctx context.Context, userID string, amount int64, externalRef, txType string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var walletID string
	var balance int64
	if err = tx.QueryRowContext(ctx,
		`SELECT id, balance_coins FROM wallets WHERE user_id=$1 FOR UPDATE`,
		userID).Scan(&walletID, &balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if done, bal, derr := txExists(ctx, tx, walletID, externalRef, txType); derr != nil {
		return 0, derr
	} else if done {
		return bal, tx.Commit()
	}

	newBalance = balance + amount
	if txType == TxPayout {
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET balance_coins=$1, total_won_coins = total_won_coins + $2,
			       version = version + 1, updated_at = NOW()
			WHERE id=$3`, newBalance, amount, walletID)
	} else {
		// REFUND devolve o stake e desfaz o total apostado
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET balance_coins=$1, total_wagered_coins = total_wagered_coins - $2,
			       version = version + 1, updated_at = NOW()
			WHERE id=$3`, newBalance, amount, walletID)
	}
	if err != nil {
		return 0, err
	}

	if err = insertTx(ctx, tx, walletID, txType, amount, balance, newBalance, externalRef); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// RecordLoss atualiza o contador de perdas; não mexe no saldo (o stake já foi
// debitado na colocação) e por isso não gera entrada no ledger. A idempotência
// vem do CAS de status no settlement-worker, que só chama aqui uma vez por pick.
func (p *Postgres) RecordLoss(ctx context.Context, userID string, amount int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE wallets SET total_lost_coins = total_lost_coins + $1, updated_at = NOW()
		WHERE user_id=$2`, amount, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactions retorna o histórico do ledger do usuário, mais recente primeiro.
func (p *Postgres) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.wallet_id, t.tx_type, t.amount_coins, t.balance_before, t.balance_after,
		       COALESCE(t.external_ref,''), t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id=$1
		ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.TxType, &t.AmountCoins, &t.BalanceBefore,
			&t.BalanceAfter, &t.ExternalRef, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func insertTx(ctx context.Context, tx *sql.Tx, walletID, txType string, amount, before, after int64, externalRef string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions(id, wallet_id, tx_type, amount_coins, balance_before, balance_after, external_ref)
		VALUES($1,$2,$3,$4,$5,$6,$7)`,
		uuid.NewString(), walletID, txType, amount, before, after, externalRef)
	return err
}

// txExists checa se a operação já foi aplicada; devolve o saldo resultante dela
func txExists(ctx context.Context, tx *sql.Tx, walletID, externalRef, txType string) (bool, int64, error) {
	var after int64
	err := tx.QueryRowContext(ctx, `
		SELECT balance_after FROM wallet_transactions
		WHERE wallet_id=$1 AND external_ref=$2 AND tx_type=$3`,
		walletID, externalRef, txType).Scan(&after)
	if err == sql.ErrNoRows {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, after, nil
}

func scanWallet(row *sql.Row) (Wallet, error) {
	var w Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.BalanceCoins, &w.TotalWagered, &w.TotalWon, &w.TotalLost, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

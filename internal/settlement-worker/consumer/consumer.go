package consumer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/settlement-worker/engine"
	shkafka "github.com/radieske/fight-picks-platform/internal/shared/kafka"
	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
)

// Repo é o acesso a picks, lutas e resultados que a liquidação precisa.
type Repo interface {
	FightPair(ctx context.Context, fightID string) (engine.Fight, error)
	PendingPicksForFight(ctx context.Context, fightID string) ([]engine.Pick, error)
	MarkSettled(ctx context.Context, pickID, status string) (bool, error)
	RecordResult(ctx context.Context, r events.FightResult) error
}

// Wallet aplica os efeitos financeiros dos outcomes na carteira do usuário.
type Wallet interface {
	Credit(ctx context.Context, userID string, coins int64, externalRef string) error
	Refund(ctx context.Context, userID string, coins int64, externalRef string) error
	RecordLoss(ctx context.Context, userID string, coins int64) error
}

// Processor consome resultados de luta do Kafka e liquida os picks pendentes.
// O feed é at-least-once: a idempotência vem do CAS de status no banco e do
// external_ref na wallet. Falha numa luta não afeta as demais do lote.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log     *zap.Logger
	Reader  shkafka.MessageReader
	Repo    Repo
	Wallet  Wallet
	Settled shkafka.MessageWriter // tópico pick_settled
	DLQ     shkafka.MessageWriter // opcional

	OnConsumed func()       // métricas (counter++)
	OnOutcome  func(string) // métricas por status (WON/LOST/REFUNDED)
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e liquidação
func (p *Processor) Run(ctx context.Context) error {
	for {
		key, value, err := shkafka.ReadNext(ctx, p.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var res events.FightResult
		if err := json.Unmarshal(value, &res); err != nil {
			if p.OnError != nil {
				p.OnError("decode")
			}
			// payload indecifrável nunca vai liquidar; preserva na DLQ
			p.rawToDLQ(ctx, string(key), value, "undecodable payload: "+err.Error())
			continue
		}

		if err := p.settleFight(ctx, res); err != nil {
			p.Log.Error("settle fight", zap.String("fightId", res.FightID), zap.Error(err))
			// Backoff simples para evitar flood em caso de erro transitório
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// settleFight processa o resultado de UMA luta:
// 1. Carrega o par de lutadores e os picks pendentes
// 2. Roda o engine puro para decidir os outcomes
// 3. Aplica cada outcome: wallet primeiro (idempotente), depois o CAS de status
// 4. Grava o resultado e publica pick_settled
// Resultado inconsistente (vencedor desconhecido, luta não cadastrada) vai
// pra DLQ e não é reprocessado; erro transitório retorna para retry.
func (p *Processor) settleFight(ctx context.Context, res events.FightResult) error {
	fight, err := p.Repo.FightPair(ctx, res.FightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			p.toDLQ(ctx, res, "unknown fight")
			return nil
		}
		if p.OnError != nil {
			p.OnError("load_fight")
		}
		return err
	}

	picks, err := p.Repo.PendingPicksForFight(ctx, res.FightID)
	if err != nil {
		if p.OnError != nil {
			p.OnError("load_picks")
		}
		return err
	}

	outcomes, err := engine.Settle(fight, res, picks)
	if err != nil {
		var serr *engine.SettlementError
		if errors.As(err, &serr) {
			// erro de dados, isolado nesta luta; não adianta reprocessar
			if p.OnError != nil {
				p.OnError("engine")
			}
			p.toDLQ(ctx, res, serr.Reason)
			return nil
		}
		return err
	}

	for _, o := range outcomes {
		if err := p.applyOutcome(ctx, o); err != nil {
			if p.OnError != nil {
				p.OnError("apply")
			}
			return err
		}
	}

	if err := p.Repo.RecordResult(ctx, res); err != nil {
		if p.OnError != nil {
			p.OnError("record_result")
		}
		return err
	}

	p.Log.Info("fight settled",
		zap.String("fightId", res.FightID),
		zap.Int("picks", len(outcomes)),
		zap.Bool("noContest", res.NoContest),
	)
	return nil
}

// applyOutcome efetiva um outcome.
// Crédito/estorno acontecem ANTES do CAS de status: se o worker cair no meio,
// o retry re-credita (no-op pela wallet) e termina o CAS. A derrota só mexe em
// estatística, então vem depois do CAS, que garante uma única contagem.
func (p *Processor) applyOutcome(ctx context.Context, o engine.Outcome) error {
	switch o.Status {
	case engine.StatusWon:
		if err := p.Wallet.Credit(ctx, o.UserID, o.PayoutCoins, "payout:"+o.PickID); err != nil {
			return err
		}
	case engine.StatusRefunded:
		if err := p.Wallet.Refund(ctx, o.UserID, o.PayoutCoins, "refund:"+o.PickID); err != nil {
			return err
		}
	}

	applied, err := p.Repo.MarkSettled(ctx, o.PickID, o.Status)
	if err != nil {
		return err
	}
	if !applied {
		// já liquidado por uma entrega anterior; absorve em silêncio
		return nil
	}

	if o.Status == engine.StatusLost {
		if err := p.Wallet.RecordLoss(ctx, o.UserID, o.StakeCoins); err != nil {
			p.Log.Warn("record loss", zap.String("pickId", o.PickID), zap.Error(err))
		}
	}

	if p.OnOutcome != nil {
		p.OnOutcome(o.Status)
	}

	evs := events.PickSettled{
		PickID:      o.PickID,
		UserID:      o.UserID,
		FightID:     o.FightID,
		Status:      o.Status,
		PayoutCoins: o.PayoutCoins,
		TsUnixMs:    time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(evs)
	if err := shkafka.WriteJSON(ctx, p.Settled, o.PickID, b); err != nil {
		p.Log.Warn("publish pick_settled", zap.String("pickId", o.PickID), zap.Error(err))
	}
	return nil
}

func (p *Processor) toDLQ(ctx context.Context, res events.FightResult, reason string) {
	b, _ := json.Marshal(res)
	p.rawToDLQ(ctx, res.FightID, b, reason)
}

// rawToDLQ preserva a mensagem original na fila morta, com a chave recebida
func (p *Processor) rawToDLQ(ctx context.Context, key string, payload []byte, reason string) {
	p.Log.Error("fight result to DLQ",
		zap.String("key", key),
		zap.String("reason", reason),
	)
	if p.DLQ == nil {
		return
	}
	if err := shkafka.WriteJSON(ctx, p.DLQ, key, payload); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
	}
}

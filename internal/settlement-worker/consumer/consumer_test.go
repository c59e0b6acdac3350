package consumer_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/fight-picks-platform/internal/settlement-worker/consumer"
	"github.com/radieske/fight-picks-platform/internal/settlement-worker/engine"
	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
)

// scriptReader entrega as mensagens do roteiro e cancela o contexto no fim,
// encerrando o Run como um shutdown normal.
type scriptReader struct {
	msgs   []kafka.Message
	cancel context.CancelFunc
}

func (r *scriptReader) ReadMessage(context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

type captureWriter struct{ msgs []kafka.Message }

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type fakeRepo struct {
	fight    engine.Fight
	fightErr error
	picks    []engine.Pick
	settled  map[string]string
	results  []events.FightResult
	ops      *[]string
}

func (f *fakeRepo) FightPair(context.Context, string) (engine.Fight, error) {
	if f.fightErr != nil {
		return engine.Fight{}, f.fightErr
	}
	return f.fight, nil
}

func (f *fakeRepo) PendingPicksForFight(context.Context, string) ([]engine.Pick, error) {
	return f.picks, nil
}

func (f *fakeRepo) MarkSettled(_ context.Context, pickID, status string) (bool, error) {
	*f.ops = append(*f.ops, "settle:"+pickID)
	if _, done := f.settled[pickID]; done {
		return false, nil
	}
	f.settled[pickID] = status
	return true, nil
}

func (f *fakeRepo) RecordResult(_ context.Context, r events.FightResult) error {
	f.results = append(f.results, r)
	return nil
}

type fakeWallet struct{ ops *[]string }

func (f *fakeWallet) Credit(_ context.Context, userID string, coins int64, ref string) error {
	*f.ops = append(*f.ops, fmt.Sprintf("credit:%s:%d:%s", userID, coins, ref))
	return nil
}

func (f *fakeWallet) Refund(_ context.Context, userID string, coins int64, ref string) error {
	*f.ops = append(*f.ops, fmt.Sprintf("refund:%s:%d:%s", userID, coins, ref))
	return nil
}

func (f *fakeWallet) RecordLoss(_ context.Context, userID string, coins int64) error {
	*f.ops = append(*f.ops, fmt.Sprintf("loss:%s:%d", userID, coins))
	return nil
}

var testFight = engine.Fight{ID: "f1", FighterAID: "fighter-a", FighterBID: "fighter-b"}

func pendingPick(id, userID, fighterID string, stake int64, odds int) engine.Pick {
	return engine.Pick{
		ID:           id,
		UserID:       userID,
		FightID:      testFight.ID,
		FighterID:    fighterID,
		StakeCoins:   stake,
		OddsAmerican: odds,
		Status:       engine.StatusPending,
	}
}

func resultMsg(t *testing.T, res events.FightResult) kafka.Message {
	t.Helper()
	b, err := json.Marshal(res)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(res.FightID), Value: b}
}

func run(t *testing.T, repo *fakeRepo, wallet *fakeWallet, msgs ...kafka.Message) (settled, dlq *captureWriter) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settled, dlq = &captureWriter{}, &captureWriter{}
	p := &consumer.Processor{
		Log:     zap.NewNop(),
		Reader:  &scriptReader{msgs: msgs, cancel: cancel},
		Repo:    repo,
		Wallet:  wallet,
		Settled: settled,
		DLQ:     dlq,
	}
	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	return settled, dlq
}

// Vitória: crédito idempotente na wallet ANTES do CAS de status, evento
// pick_settled publicado com o payout e timestamp em unix millis.
func TestRunSettlesWinningPick(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{
		fight:   testFight,
		picks:   []engine.Pick{pendingPick("p1", "u1", "fighter-a", 100, 170)},
		settled: map[string]string{},
		ops:     &ops,
	}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: testFight.ID, WinnerFighterID: "fighter-a"}

	settled, dlq := run(t, repo, wallet, resultMsg(t, result))

	require.Equal(t, []string{"credit:u1:270:payout:p1", "settle:p1"}, ops,
		"credit must land before the status transition")
	require.Len(t, repo.results, 1)
	assert.Empty(t, dlq.msgs)

	require.Len(t, settled.msgs, 1)
	assert.Equal(t, "p1", string(settled.msgs[0].Key))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(settled.msgs[0].Value, &payload))
	assert.Equal(t, engine.StatusWon, payload["status"])
	assert.Equal(t, float64(270), payload["payout_coins"])
	assert.Contains(t, payload, "ts_unix_ms")
}

// Derrota: nada de crédito; a estatística de perda só depois do CAS.
func TestRunSettlesLosingPick(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{
		fight:   testFight,
		picks:   []engine.Pick{pendingPick("p1", "u1", "fighter-a", 100, 170)},
		settled: map[string]string{},
		ops:     &ops,
	}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: testFight.ID, WinnerFighterID: "fighter-b"}

	settled, _ := run(t, repo, wallet, resultMsg(t, result))

	require.Equal(t, []string{"settle:p1", "loss:u1:100"}, ops)
	require.Len(t, settled.msgs, 1)
}

// No-contest: estorno do stake antes do CAS, mesmo padrão do crédito.
func TestRunNoContestRefunds(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{
		fight:   testFight,
		picks:   []engine.Pick{pendingPick("p1", "u1", "fighter-a", 250, -200)},
		settled: map[string]string{},
		ops:     &ops,
	}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: testFight.ID, NoContest: true}

	run(t, repo, wallet, resultMsg(t, result))

	require.Equal(t, []string{"refund:u1:250:refund:p1", "settle:p1"}, ops)
}

// Reentrega do mesmo resultado: o crédito repete (no-op pela wallet), o CAS
// falha e o evento pick_settled não é publicado de novo.
func TestRunRedeliveryAbsorbed(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{
		fight:   testFight,
		picks:   []engine.Pick{pendingPick("p1", "u1", "fighter-a", 100, 170)},
		settled: map[string]string{"p1": engine.StatusWon},
		ops:     &ops,
	}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: testFight.ID, WinnerFighterID: "fighter-a"}

	settled, dlq := run(t, repo, wallet, resultMsg(t, result))

	require.Equal(t, []string{"credit:u1:270:payout:p1", "settle:p1"}, ops)
	assert.Empty(t, settled.msgs, "re-delivery must not publish a second event")
	assert.Empty(t, dlq.msgs)
}

// Mensagem indecifrável não é descartada em silêncio: vai crua pra DLQ,
// com a chave original, sem tocar banco nem wallet.
func TestRunUndecodableMessageToDLQ(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{fight: testFight, settled: map[string]string{}, ops: &ops}
	wallet := &fakeWallet{ops: &ops}
	raw := kafka.Message{Key: []byte("f1"), Value: []byte(`{"fight_id":`)}

	settled, dlq := run(t, repo, wallet, raw)

	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "f1", string(dlq.msgs[0].Key))
	assert.Equal(t, raw.Value, dlq.msgs[0].Value)
	assert.Empty(t, ops)
	assert.Empty(t, settled.msgs)
	assert.Empty(t, repo.results)
}

// Vencedor que não é nenhum dos lutadores cadastrados: DLQ, sem tocar picks.
func TestRunUnknownWinnerToDLQ(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{
		fight:   testFight,
		picks:   []engine.Pick{pendingPick("p1", "u1", "fighter-a", 100, 170)},
		settled: map[string]string{},
		ops:     &ops,
	}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: testFight.ID, WinnerFighterID: "fighter-z"}

	_, dlq := run(t, repo, wallet, resultMsg(t, result))

	require.Len(t, dlq.msgs, 1)
	assert.Empty(t, ops)
	assert.Empty(t, repo.results)
}

// Luta não cadastrada: resultado vai pra DLQ e o loop segue.
func TestRunUnknownFightToDLQ(t *testing.T) {
	ops := []string{}
	repo := &fakeRepo{fightErr: sql.ErrNoRows, settled: map[string]string{}, ops: &ops}
	wallet := &fakeWallet{ops: &ops}
	result := events.FightResult{FightID: "ghost", WinnerFighterID: "fighter-a"}

	_, dlq := run(t, repo, wallet, resultMsg(t, result))

	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "ghost", string(dlq.msgs[0].Key))
	assert.Empty(t, ops)
}

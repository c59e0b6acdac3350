package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/fight-picks-platform/pkg/contracts/events"
)

// KafkaPublisher publica resultados de luta no tópico fight_results.
// Chave = fight_id: reentregas e a liquidação ficam serializadas por luta.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) PublishResult(ctx context.Context, e events.FightResult) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.FightID),
		Value: b,
		Time:  time.Now(),
	})
}

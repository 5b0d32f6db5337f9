// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends committed referral settlements to a Kafka topic, keyed by referrer.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	logging.Info("Kafka publisher initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Publisher{writer: writer, topic: topic}
}

func (p *Publisher) PublishSettlement(ctx context.Context, ev exchange.SettlementEvent) error {
	msg, err := settlementMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish settlement of %s to %s: %w", ev.ExchangeID, p.topic, err)
	}
	logging.Debug("Settlement published", zap.String("exchange_id", ev.ExchangeID))
	return nil
}

func settlementMessage(ev exchange.SettlementEvent) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal settlement: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ReferrerID, 10)),
		Value: value,
		Time:  ev.SettledAt,
	}, nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	logging.Info("Closing Kafka publisher")
	return p.writer.Close()
}

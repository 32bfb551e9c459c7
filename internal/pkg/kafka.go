package pkg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// MembershipEvent 成员变更事件消息体，key 用 board_id 保证同一看板有序
type MembershipEvent struct {
	EventType string `json:"event_type"`
	BoardID   uint64 `json:"board_id"`
	UserID    uint64 `json:"user_id"`
	ActorID   uint64 `json:"actor_id"`
	Role      string `json:"role,omitempty"`
}

func (e MembershipEvent) Key() string {
	return fmt.Sprintf("%d", e.BoardID)
}

func (e MembershipEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

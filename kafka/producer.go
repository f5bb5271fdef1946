package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/Juli03-22/lookaly-fullstack/models"
)

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{writer: writer, topic: topic}
}

// SendOrderPlaced publishes the event keyed by user id so one user's
// orders stay ordered within a partition.
func (p *Producer) SendOrderPlaced(event models.OrderPlacedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}
	return p.writer.WriteMessages(context.Background(), msg)
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}

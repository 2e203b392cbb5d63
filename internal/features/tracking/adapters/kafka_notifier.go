package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the notifier needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes status changes keyed by tracking number, so the
// changes of one shipment stay ordered within a partition.
type KafkaNotifier struct {
	writer Writer
}

// NewKafkaNotifier creates a KafkaNotifier writing to topic on a comma separated broker list.
func NewKafkaNotifier(brokers, topic string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(splitBrokers(brokers)...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

// NewKafkaNotifierWithWriter allows injecting a test writer.
func NewKafkaNotifierWithWriter(w Writer) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

// Notify implements ports.Notifier.
func (n *KafkaNotifier) Notify(ctx context.Context, change domain.StatusChange) ports.NotifyResult {
	value, err := json.Marshal(NewStatusPayload(change))
	if err != nil {
		return ports.NotifyResult{Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	msg := kafka.Message{
		Key:   []byte(change.TrackingNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "status", Value: []byte(change.Status)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return ports.NotifyResult{Err: fmt.Errorf("kafka write failed: %w", err)}
	}
	return ports.NotifyResult{Success: true}
}

// Close closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

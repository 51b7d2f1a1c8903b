package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/eventbus"
)

// KafkaBus is a Kafka-backed event bus. All events flow through a single
// topic keyed by event type, so per-creator ordering is preserved by the
// hash balancer and a single consumer group fans out to the registered
// handlers.
type KafkaBus struct {
	brokers []string
	topic   string
	groupID string
	writer  *kafka.Writer
	reader  *kafka.Reader

	handlers    map[string][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex

	logger *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	startMu sync.Mutex
}

// NewWithKafka creates a Kafka-backed event bus.
// brokers is a comma-separated list, e.g. "localhost:9092,localhost:9093".
func NewWithKafka(brokers, topic, groupID string, logger *slog.Logger) (*KafkaBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, errors.New("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(topic) == "" {
		topic = "natepay.events"
	}
	if strings.TrimSpace(groupID) == "" {
		groupID = "natepay"
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &KafkaBus{
		brokers:  parsed,
		topic:    topic,
		groupID:  groupID,
		writer:   writer,
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "kafka"),
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := bus.ping(ctx); err != nil {
		cancel()
		_ = writer.Close()
		return nil, err
	}

	return bus, nil
}

// Register registers a handler for a specific event type and starts the
// consumer loop on first use.
func (b *KafkaBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.startConsumer()
}

// Emit publishes an event to the bus topic.
func (b *KafkaBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := buildEnvelope(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Type()),
		Value: envBytes,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Close stops the consumer loop and closes network resources.
func (b *KafkaBus) Close() error {
	b.cancel()
	if b.reader != nil {
		_ = b.reader.Close()
	}
	b.wg.Wait()
	return b.writer.Close()
}

func (b *KafkaBus) ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	return conn.Close()
}

func (b *KafkaBus) startConsumer() {
	b.startMu.Lock()
	defer b.startMu.Unlock()
	if b.started {
		return
	}
	b.started = true

	b.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       b.topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
	})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(b.ctx)
	}()
}

func (b *KafkaBus) consumeLoop(ctx context.Context) {
	for {
		msg, err := b.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		b.dispatch(ctx, msg)

		if err := b.reader.CommitMessages(ctx, msg); err != nil {
			b.logger.Error("kafka commit error",
				"error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

func (b *KafkaBus) dispatch(ctx context.Context, msg kafka.Message) {
	var env envelope
	if err := decodeEnvelope(msg.Value, &env); err != nil {
		b.logger.Error("failed to decode envelope",
			"error", err, "offset", msg.Offset)
		return
	}

	evt, err := decodeEvent(env.Type, env.Payload)
	if err != nil {
		b.logger.Error("failed to decode event",
			"error", err, "event_type", env.Type, "offset", msg.Offset)
		return
	}

	b.handlersMtx.RLock()
	handlers := make([]eventbus.HandlerFunc, len(b.handlers[env.Type]))
	copy(handlers, b.handlers[env.Type])
	b.handlersMtx.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			b.logger.Error("event handler failed",
				"event_type", env.Type, "error", err, "offset", msg.Offset)
		}
	}
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaBus)(nil)

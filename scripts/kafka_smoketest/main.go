// Command kafka_smoketest verifies a local Kafka cluster can carry the
// event topic: it creates the topic, produces an enveloped message, and
// consumes it back.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

func runSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("GROUP_ID"))
	if groupID == "" {
		groupID = "natepay"
	}
	topic := strings.TrimSpace(os.Getenv("TOPIC"))
	if topic == "" {
		topic = "natepay.events"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create the topic if it doesn't exist
	{
		dialer := &kafka.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", strings.Split(brokers, ",")[0])
		if err != nil {
			logger.Error("dial failed", "error", err)
			return err
		}
		defer func() { _ = conn.Close() }()
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			logger.Error("create topic failed", "topic", topic, "error", err)
			return err
		}
		logger.Info("topic ready", "topic", topic)
	}

	// Produce an enveloped message like the event bus would
	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	defer func() { _ = w.Close() }()

	value := `{"type":"smoke.test","payload":{"at":"` +
		time.Now().Format(time.RFC3339Nano) + `"}}`
	if err := w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte("smoke"),
		Value: []byte(value),
		Time:  time.Now(),
	}); err != nil {
		logger.Error("write failed", "topic", topic, "error", err)
		return err
	}
	logger.Info("produced", "topic", topic)

	// Consume it back
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     strings.Split(brokers, ","),
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = r.Close() }()

	readCtx, cancelRead := context.WithTimeout(ctx, 10*time.Second)
	defer cancelRead()

	msg, err := r.FetchMessage(readCtx)
	if err != nil {
		logger.Error("fetch failed", "topic", topic, "error", err)
		return err
	}
	logger.Info("consumed", "topic", topic, "value", string(msg.Value))
	_ = r.CommitMessages(ctx, msg)

	logger.Info("kafka smoke test passed")
	return nil
}

func main() {
	if err := runSmokeTest(); err != nil {
		os.Exit(1)
	}
}

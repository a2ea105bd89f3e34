// Package kafka publishes viewer commands to a Kafka topic so that a
// browser-side viewer bridge can replay them.
package kafka

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/interactome/internal/config"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.CodeServiceUnavailable, "producer closed")

// DefaultMaxMessageBytes bounds a single message value.
const DefaultMaxMessageBytes = 1 << 20

// Message is one record to publish.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
	Time    time.Time
}

// BatchResult reports a PublishBatch outcome.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    map[int]error
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.WriterStats
}

// Producer writes messages through a kafka.Writer.
type Producer struct {
	writer   WriterInterface
	logger   logging.Logger
	maxBytes int
	closed   atomic.Bool
	sent     atomic.Int64
	failed   atomic.Int64
}

// NewProducer builds a hash-balanced writer from cfg.  Async mode makes
// WriteMessages return before delivery.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	acks := kafka.RequireOne
	switch cfg.RequiredAcks {
	case 0:
		acks = kafka.RequireNone
	case -1:
		acks = kafka.RequireAll
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: acks,
		Async:        cfg.Async,
		Transport:    &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	if cfg.Async {
		w.Completion = func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Warn("async kafka write failed", logging.Int("messages", len(msgs)), logging.Err(err))
			}
		}
	}
	return NewProducerWithWriter(w, logger), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{writer: w, logger: logger.Named("kafka"), maxBytes: DefaultMaxMessageBytes}
}

// Publish writes one message.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "message value required")
	}
	if len(msg.Value) > p.maxBytes {
		return errors.Newf(errors.ErrCodeValidation, "message of %d bytes exceeds %d", len(msg.Value), p.maxBytes)
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafka(msg)); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "kafka publish failed")
	}
	p.sent.Add(1)
	p.logger.Debug("message published",
		logging.String("topic", msg.Topic),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// PublishBatch writes msgs in one call and reports per-message failures.
func (p *Producer) PublishBatch(ctx context.Context, msgs []Message) (BatchResult, error) {
	if p.closed.Load() {
		return BatchResult{}, ErrProducerClosed
	}
	if len(msgs) == 0 {
		return BatchResult{}, nil
	}
	km := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		km[i] = toKafka(m)
	}

	res := BatchResult{}
	err := p.writer.WriteMessages(ctx, km...)
	var writeErrs kafka.WriteErrors
	switch {
	case err == nil:
		res.Succeeded = len(msgs)
	case stderrors.As(err, &writeErrs):
		res.Errors = make(map[int]error)
		for i, we := range writeErrs {
			if we != nil {
				res.Failed++
				res.Errors[i] = we
			} else {
				res.Succeeded++
			}
		}
	default:
		p.failed.Add(int64(len(msgs)))
		return BatchResult{Failed: len(msgs)}, errors.Wrap(err, errors.ErrCodeExternalService, "kafka batch publish failed")
	}
	p.sent.Add(int64(res.Succeeded))
	p.failed.Add(int64(res.Failed))
	return res, nil
}

// Counts returns the messages sent and failed so far.
func (p *Producer) Counts() (sent, failed int64) {
	return p.sent.Load(), p.failed.Load()
}

// Close is idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}

func toKafka(msg Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{Topic: msg.Topic, Key: msg.Key, Value: msg.Value, Headers: headers, Time: ts}
}

//Personal.AI order the ending

package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/circuit"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// ResultsPublisher streams completed calculation and stress results to
// Kafka as JSON, keyed by portfolio ID. A nil publisher is a no-op, so
// callers never branch on whether Kafka is configured. A circuit
// breaker keeps a dead broker from stalling every calculation request.
type ResultsPublisher struct {
	capitalWriter *kafkago.Writer
	stressWriter  *kafkago.Writer
	breaker       *circuit.Breaker
	log           *logger.Logger
}

// NewResultsPublisher creates a publisher from the Kafka section of
// the app config. Returns nil when Kafka is disabled.
func NewResultsPublisher(cfg config.KafkaConfig) *ResultsPublisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return nil
	}

	newWriter := func(topic string) *kafkago.Writer {
		return &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: requiredAcks(cfg.Producer.Acks),
			BatchSize:    cfg.Producer.BatchSize,
			BatchTimeout: cfg.Producer.BatchTimeout,
			MaxAttempts:  cfg.Producer.MaxRetries,
			WriteTimeout: 10 * time.Second,
		}
	}

	return &ResultsPublisher{
		capitalWriter: newWriter(cfg.Topics.CapitalResults),
		stressWriter:  newWriter(cfg.Topics.StressResults),
		breaker:       circuit.New("kafka", circuit.DefaultConfig()),
		log:           logger.GetLogger("kafka.publisher"),
	}
}

func requiredAcks(acks string) kafkago.RequiredAcks {
	switch acks {
	case "none", "0":
		return kafkago.RequireNone
	case "one", "1":
		return kafkago.RequireOne
	default:
		return kafkago.RequireAll
	}
}

// PublishCapital publishes one calculation result.
func (p *ResultsPublisher) PublishCapital(ctx context.Context, results *models.CapitalResults) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.capitalWriter, results.PortfolioID, results)
}

// PublishStress publishes one stress run.
func (p *ResultsPublisher) PublishStress(ctx context.Context, results *models.StressResults) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.stressWriter, results.PortfolioID, results)
}

func (p *ResultsPublisher) publish(ctx context.Context, writer *kafkago.Writer, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal results for %s", key)
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	err = p.breaker.Do(func() error {
		return writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		p.log.Errorf("failed to publish results for %s to %s: %v", key, writer.Topic, err)
		return errors.Wrapf(err, "failed to publish results for %s", key)
	}

	p.log.Debugf("published results for %s to %s", key, writer.Topic)
	return nil
}

// Close flushes and closes the underlying writers.
func (p *ResultsPublisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.capitalWriter.Close(); err != nil {
		return err
	}
	return p.stressWriter.Close()
}

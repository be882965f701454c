package workers

import (
	"context"
	"os"

	"rento/config"
	"rento/infras/kafka"
	"rento/internal/domains/notification/alert"

	"github.com/rs/zerolog/log"
)

// AlertConsumer feeds alerts published on the alert topic to the websocket clients of this instance.
type AlertConsumer struct {
	cfg        *config.Config
	kafka      kafka.Client
	dispatcher alert.Dispatcher
	group      string
}

func NewAlertConsumer(cfg *config.Config, kafkaClient kafka.Client, dispatcher alert.Dispatcher) *AlertConsumer {
	return &AlertConsumer{
		cfg:        cfg,
		kafka:      kafkaClient,
		dispatcher: dispatcher,
		group:      instanceGroup(cfg.Kafka.ConsumerGroup),
	}
}

// instanceGroup gives every instance its own consumer group. A user may be connected to any instance,
// so each one has to see every alert.
func instanceGroup(base string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return base
	}

	if base == "" {
		return host
	}

	return base + "-" + host
}

// Run blocks until ctx is done. Without Kafka alerts are delivered in process and there is nothing to read.
func (w *AlertConsumer) Run(ctx context.Context) error {
	if !w.cfg.Kafka.Enable {
		log.Info().Msg("kafka disabled, alert consumer not started")

		return nil
	}

	log.Info().Str("group", w.group).Str("topic", w.cfg.Kafka.Topics.Alert).Msg("alert consumer started")

	return w.kafka.Consume(ctx, w.group, w.cfg.Kafka.Topics.Alert, alert.Consume(w.dispatcher)) //nolint:wrapcheck
}

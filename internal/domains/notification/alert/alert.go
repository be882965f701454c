package alert

//go:generate go run go.uber.org/mock/mockgen -source=./alert.go -destination=./mocks/alert_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"rento/config"
	"rento/infras/kafka"
	"rento/infras/otel"
	"rento/infras/realtime"
	"rento/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Alert is the ephemeral local/push notice that accompanies a persisted notification.
type Alert struct {
	ID     string         `json:"id"`
	UserID string         `json:"user_id"`
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data"`
}

type Dispatcher interface {
	// Schedule hands the alert to the delivery channel. It does not wait for the recipient.
	Schedule(ctx context.Context, notice Alert) error
	// Deliver writes the alert to the recipient's realtime connections on this instance.
	Deliver(ctx context.Context, notice Alert) error
}

type dispatcherImpl struct {
	cfg   *config.Config
	kafka kafka.Client
	hub   realtime.Hub
	otel  otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, hub realtime.Hub, otel otel.Otel) Dispatcher {
	return &dispatcherImpl{
		cfg:   cfg,
		kafka: kafkaClient,
		hub:   hub,
		otel:  otel,
	}
}

func (d *dispatcherImpl) Schedule(ctx context.Context, alert Alert) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".alert.Schedule")
	defer scope.Finish(&err)

	scope.SetAttribute("alert.type", alert.Type)

	if !d.cfg.Kafka.Enable {
		return d.Deliver(ctx, alert)
	}

	if err = d.kafka.SendMessages(ctx, d.cfg.Kafka.Topics.Alert, kafka.Message{Key: alert.UserID, Value: alert}); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	return nil
}

func (d *dispatcherImpl) Deliver(ctx context.Context, alert Alert) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".alert.Deliver")
	defer scope.Finish(&err)

	raw, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	if err = d.hub.Send(ctx, alert.UserID, raw); err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}

	log.Debug().Str("user_id", alert.UserID).Str("type", alert.Type).Int("connections", d.hub.Connected(alert.UserID)).
		Msg("alert delivered")

	return nil
}

// Consume returns the handler the alert consumer runs for every message on the alert topic.
func Consume(dispatcher Dispatcher) kafka.Handler {
	return func(ctx context.Context, message kafkaGo.Message) error {
		alert, err := kafka.Decode[Alert](message)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return dispatcher.Deliver(ctx, alert)
	}
}

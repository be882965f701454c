package workers_test

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rento/config"
	infraKafka "rento/infras/kafka"
	kafkaMocks "rento/infras/kafka/mocks"
	"rento/internal/domains/notification/alert"
	alertMocks "rento/internal/domains/notification/alert/mocks"
	"rento/internal/workers"
)

func alertConfig(enabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Enable = enabled
	cfg.Kafka.ConsumerGroup = "rento-api"
	cfg.Kafka.Topics.Alert = "rento.alerts"

	return cfg
}

func TestAlertConsumer_DeliversConsumedAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	dispatcher := alertMocks.NewMockDispatcher(ctrl)

	client.EXPECT().Consume(gomock.Any(), gomock.Any(), "rento.alerts", gomock.Any()).
		DoAndReturn(func(ctx context.Context, group, _ string, handler infraKafka.Handler) error {
			assert.Contains(t, group, "rento-api")

			msg := kafka.Message{Key: []byte("renter-1"), Value: []byte(`{"id":"n-1","user_id":"renter-1","type":"booking_approved","title":"Booking approved"}`)}
			require.NoError(t, handler(ctx, msg))

			assert.Error(t, handler(ctx, kafka.Message{Value: []byte("not json")}))

			return nil
		})

	dispatcher.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, notice alert.Alert) error {
		assert.Equal(t, "renter-1", notice.UserID)
		assert.Equal(t, "Booking approved", notice.Title)

		return nil
	})

	require.NoError(t, workers.NewAlertConsumer(alertConfig(true), client, dispatcher).Run(context.Background()))
}

func TestAlertConsumer_DisabledKafka(t *testing.T) {
	ctrl := gomock.NewController(t)

	consumer := workers.NewAlertConsumer(alertConfig(false), kafkaMocks.NewMockClient(ctrl), alertMocks.NewMockDispatcher(ctrl))

	require.NoError(t, consumer.Run(context.Background()))
}

package messaging

import (
	"context"
	"time"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type BreakerSettings struct {
	MaxFailures int
	Timeout     time.Duration
}

type analysisPublisher struct {
	Channel publishChannel
	Queue   string
	Log     *zap.Logger
	breaker *gobreaker.CircuitBreaker
}

// NewAnalysisPublisher opens a channel on conn and declares the durable queue
// that analysis.completed events are published to.
func NewAnalysisPublisher(conn *amqp091.Connection, queue string, log *zap.Logger, settings BreakerSettings) (contracts.EventPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return newAnalysisPublisher(channel, queue, log, settings), nil
}

func newAnalysisPublisher(channel publishChannel, queue string, log *zap.Logger, settings BreakerSettings) *analysisPublisher {
	maxFailures := uint32(settings.MaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := settings.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    queue,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String(constvars.LoggingBreakerKey, name),
				zap.String("from_state", from.String()),
				zap.String("to_state", to.String()),
			)
		},
	})

	return &analysisPublisher{
		Channel: channel,
		Queue:   queue,
		Log:     log,
		breaker: breaker,
	}
}

func (p *analysisPublisher) PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.CreatedAt,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
		},
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	})
	if err != nil {
		return exceptions.ErrRabbitMQPublish(err, p.Queue)
	}

	p.Log.Debug("analysisPublisher.PublishAnalysisCompleted succeeded",
		zap.String(constvars.LoggingQueueKey, p.Queue),
		zap.String(constvars.LoggingAnalysisIDKey, event.AnalysisID),
	)
	return nil
}

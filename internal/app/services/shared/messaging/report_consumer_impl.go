package messaging

import (
	"context"
	"errors"
	"fmt"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// errDropMessage marks a delivery that can never succeed and must not be
// requeued.
var errDropMessage = errors.New("drop message")

type deliveryChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
}

// ReportConsumer pre-renders the PDF report of every completed analysis so
// the first download is served from storage.
type ReportConsumer struct {
	Channel            deliveryChannel
	Queue              string
	AnalysisRepository contracts.AnalysisRepository
	ReportService      contracts.ReportService
	Log                *zap.Logger
}

func NewReportConsumer(conn *amqp091.Connection, queue string, analysisRepository contracts.AnalysisRepository, reportService contracts.ReportService, log *zap.Logger) (*ReportConsumer, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &ReportConsumer{
		Channel:            channel,
		Queue:              queue,
		AnalysisRepository: analysisRepository,
		ReportService:      reportService,
		Log:                log,
	}, nil
}

// Run consumes until ctx is done or the channel closes.
func (c *ReportConsumer) Run(ctx context.Context) error {
	if err := c.Channel.Qos(1, 0, false); err != nil {
		return err
	}
	deliveries, err := c.Channel.Consume(c.Queue, "zemedic-report-worker", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.Log.Info("ReportConsumer started", zap.String(constvars.LoggingQueueKey, c.Queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.settle(delivery, c.Handle(ctx, delivery.Body))
		}
	}
}

func (c *ReportConsumer) settle(delivery amqp091.Delivery, err error) {
	switch {
	case err == nil:
		delivery.Ack(false)
	case errors.Is(err, errDropMessage):
		delivery.Nack(false, false)
	default:
		delivery.Nack(false, !delivery.Redelivered)
	}
}

// Handle renders the report for one analysis.completed message. Malformed
// messages are dropped. Analyses deleted since the event are skipped.
func (c *ReportConsumer) Handle(ctx context.Context, body []byte) error {
	var event models.AnalysisCompletedEvent
	if err := json.Unmarshal(body, &event); err != nil || event.AnalysisID == "" {
		c.Log.Warn("ReportConsumer.Handle malformed message", zap.Error(err))
		return fmt.Errorf("%w: malformed event", errDropMessage)
	}

	return utils.LogOperation(c.Log, "ReportConsumer.Handle", event.AnalysisID, func() error {
		analysis, err := c.AnalysisRepository.FindByID(ctx, event.AnalysisID)
		if err != nil {
			return err
		}
		if analysis == nil {
			c.Log.Info("ReportConsumer.Handle analysis no longer exists",
				zap.String(constvars.LoggingAnalysisIDKey, event.AnalysisID),
			)
			return nil
		}
		_, err = c.ReportService.GetReport(ctx, analysis)
		return err
	})
}

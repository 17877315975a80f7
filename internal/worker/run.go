package worker

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/translation"
)

// Run drains the delivery stream, dispatching each message to the processor.
// Acknowledgment policy:
//   - success: ack, removing the message permanently
//   - record not found or undecodable payload: ack, dropping the message
//     (redelivery can never succeed)
//   - any other failure: nack with requeue, so the broker redelivers
//
// Returns when ctx is cancelled or the stream closes.
func Run(ctx context.Context, deliveries <-chan amqp.Delivery, processor *Processor, logger zerolog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopping, draining deliveries")
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				logger.Info().Msg("delivery stream closed")
				return nil
			}
			handleDelivery(ctx, delivery, processor, logger)
		}
	}
}

func handleDelivery(ctx context.Context, delivery amqp.Delivery, processor *Processor, logger zerolog.Logger) {
	var item translation.WorkItem
	if err := json.Unmarshal(delivery.Body, &item); err != nil {
		logger.Error().
			Err(err).
			Msg("dropping undecodable work item")
		if ackErr := delivery.Ack(false); ackErr != nil {
			logger.Error().Err(ackErr).Msg("ack failed for dropped message")
		}
		return
	}

	err := processor.Process(ctx, item)
	switch {
	case err == nil:
		if ackErr := delivery.Ack(false); ackErr != nil {
			logger.Error().
				Err(ackErr).
				Str("record_id", item.RecordID).
				Msg("ack failed for processed message")
		}
	case errors.Is(err, translation.ErrRecordNotFound):
		logger.Warn().
			Str("record_id", item.RecordID).
			Msg("dropping work item for unknown record")
		if ackErr := delivery.Ack(false); ackErr != nil {
			logger.Error().Err(ackErr).Msg("ack failed for dropped message")
		}
	default:
		logger.Warn().
			Err(err).
			Str("record_id", item.RecordID).
			Msg("requeueing failed work item")
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			logger.Error().Err(nackErr).Msg("nack failed for requeued message")
		}
	}
}

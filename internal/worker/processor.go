package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/translation"
)

// Processor executes one work item end-to-end: claim the record, invoke the
// provider, persist the outcome. Errors returned from Process mean the
// attempt failed and the delivery should be requeued; ErrRecordNotFound
// means the delivery can never succeed and should be dropped.
type Processor struct {
	store    translation.Store
	registry *translation.Registry
	logger   zerolog.Logger
}

func NewProcessor(store translation.Store, registry *translation.Registry, logger zerolog.Logger) *Processor {
	return &Processor{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

func (p *Processor) Process(ctx context.Context, item translation.WorkItem) error {
	record, err := p.store.GetRecord(ctx, item.RecordID)
	if err != nil {
		if errors.Is(err, translation.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("load record %s: %w", item.RecordID, err)
	}

	if err := record.MarkProcessing(); err != nil {
		// A terminal record here means the broker redelivered a message
		// whose earlier attempt already finished. Reset and run it again;
		// a deterministic provider reproduces the same outcome.
		p.logger.Warn().
			Str("record_id", record.ID).
			Str("status", string(record.Status)).
			Msg("redelivery for terminal record, reprocessing")
		record.Reprocess()
	}
	if err := p.store.UpdateRecord(ctx, record); err != nil {
		return fmt.Errorf("persist processing state for record %s: %w", record.ID, err)
	}

	provider, err := p.registry.Provider("")
	if err != nil {
		return p.failAttempt(ctx, record, fmt.Errorf("%w: %v", translation.ErrProvider, err))
	}

	resp, err := provider.Translate(ctx, translation.TranslateRequest{
		Text:       item.OriginalText,
		SourceLang: item.SourceLanguage,
		TargetLang: item.TargetLanguage,
	})
	if err != nil {
		return p.failAttempt(ctx, record, fmt.Errorf("%w: %v", translation.ErrProvider, err))
	}

	if err := record.Complete(resp.Text); err != nil {
		return p.failAttempt(ctx, record, err)
	}
	if err := p.store.UpdateRecord(ctx, record); err != nil {
		return fmt.Errorf("persist completed record %s: %w", record.ID, err)
	}

	p.logger.Info().
		Str("record_id", record.ID).
		Str("provider", resp.ProviderName).
		Int64("latency_ms", resp.LatencyMs).
		Msg("translation completed")
	return nil
}

// failAttempt marks the record failed, persists it best-effort, and returns
// the cause so the delivery is requeued for another attempt.
func (p *Processor) failAttempt(ctx context.Context, record *translation.Record, cause error) error {
	if err := record.Fail(cause.Error()); err != nil {
		p.logger.Error().
			Err(err).
			Str("record_id", record.ID).
			Msg("could not mark record failed")
		return cause
	}
	if err := p.store.UpdateRecord(ctx, record); err != nil {
		p.logger.Error().
			Err(err).
			Str("record_id", record.ID).
			Msg("could not persist failed record")
	}

	p.logger.Warn().
		Err(cause).
		Str("record_id", record.ID).
		Msg("translation attempt failed, delivery will be requeued")
	return cause
}

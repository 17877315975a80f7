package translation

import (
	"context"
	"fmt"
	"strings"

	"horse.fit/polyglot/internal/langdetect"
	"horse.fit/polyglot/internal/language"
)

// Store persists translation records.
type Store interface {
	CreateRecord(ctx context.Context, record *Record) error
	GetRecord(ctx context.Context, id string) (*Record, error)
	UpdateRecord(ctx context.Context, record *Record) error
}

// Publisher enqueues accepted work for asynchronous processing.
type Publisher interface {
	PublishWorkItem(ctx context.Context, item WorkItem) error
}

// WorkItem is the queue message for one accepted translation request. It
// carries a denormalized copy of the request so a consumer can start work
// without a synchronous record lookup.
type WorkItem struct {
	RecordID       string `json:"recordId"`
	OriginalText   string `json:"originalText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

// SubmitRequest is one intake submission.
type SubmitRequest struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
}

// ServiceOptions tune intake behavior.
type ServiceOptions struct {
	// DefaultSourceLanguage is used when a submission omits the source
	// language and detection is off or inconclusive.
	DefaultSourceLanguage string
	// DetectSourceLanguage enables language detection for submissions that
	// omit the source language.
	DetectSourceLanguage bool
}

// Service implements intake and status reads over a record store, a queue
// publisher, and a provider registry.
type Service struct {
	store     Store
	publisher Publisher
	registry  *Registry
	opts      ServiceOptions
}

func NewService(store Store, publisher Publisher, registry *Registry, opts ServiceOptions) *Service {
	if strings.TrimSpace(opts.DefaultSourceLanguage) == "" {
		opts.DefaultSourceLanguage = "en"
	}
	return &Service{
		store:     store,
		publisher: publisher,
		registry:  registry,
		opts:      opts,
	}
}

// Submit validates a submission, persists a queued record, and publishes a
// work item for it. The record is returned in queued state; callers poll
// Status for the outcome.
//
// A publish failure after the record was persisted leaves the record queued
// with no corresponding message. The error is surfaced so the caller can
// resubmit.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Record, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}

	targetLang := language.NormalizeCode(req.TargetLanguage)
	if !language.IsISO6391(targetLang) {
		return nil, fmt.Errorf("%w: target language must be a two-letter code", ErrInvalidRequest)
	}

	sourceLang := language.NormalizeCode(req.SourceLanguage)
	if sourceLang == "" {
		sourceLang = s.resolveSourceLanguage(text)
	}
	if !language.IsISO6391(sourceLang) {
		return nil, fmt.Errorf("%w: source language must be a two-letter code", ErrInvalidRequest)
	}

	record := NewRecord(text, sourceLang, targetLang)
	if err := s.store.CreateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	item := WorkItem{
		RecordID:       record.ID,
		OriginalText:   record.OriginalText,
		SourceLanguage: record.SourceLanguage,
		TargetLanguage: record.TargetLanguage,
	}
	if err := s.publisher.PublishWorkItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueuePublish, err)
	}

	return record, nil
}

// Status reads the current record state. No caching, so in-flight
// processing states are visible.
func (s *Service) Status(ctx context.Context, id string) (*Record, error) {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Languages lists the default provider's language capabilities.
func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	provider, err := s.registry.Provider("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	languages, err := provider.Languages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return languages, nil
}

func (s *Service) resolveSourceLanguage(text string) string {
	if s.opts.DetectSourceLanguage {
		if detected := langdetect.DetectISO6391(text); detected != "" {
			return detected
		}
	}
	return s.opts.DefaultSourceLanguage
}

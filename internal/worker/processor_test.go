package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/translation"
)

type memStore struct {
	records   map[string]*translation.Record
	updateErr error
	updates   int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*translation.Record)}
}

func (s *memStore) put(record *translation.Record) {
	copied := *record
	s.records[record.ID] = &copied
}

func (s *memStore) CreateRecord(ctx context.Context, record *translation.Record) error {
	_ = ctx
	s.put(record)
	return nil
}

func (s *memStore) GetRecord(ctx context.Context, id string) (*translation.Record, error) {
	_ = ctx
	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", translation.ErrRecordNotFound, id)
	}
	copied := *record
	return &copied, nil
}

func (s *memStore) UpdateRecord(ctx context.Context, record *translation.Record) error {
	_ = ctx
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.put(record)
	return nil
}

type fixedProvider struct {
	text  string
	err   error
	calls int
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Translate(ctx context.Context, req translation.TranslateRequest) (*translation.TranslateResponse, error) {
	_ = ctx
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &translation.TranslateResponse{
		Text:         p.text,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
	}, nil
}

func (p *fixedProvider) Languages(ctx context.Context) ([]translation.Language, error) {
	_ = ctx
	return nil, nil
}

func newTestProcessor(store *memStore, provider translation.Provider) *Processor {
	registry := translation.NewRegistry("fixed")
	_ = registry.Register(provider)
	return NewProcessor(store, registry, zerolog.Nop())
}

func queuedRecord(store *memStore, id, text, source, target string) translation.WorkItem {
	record := translation.NewRecord(text, source, target)
	record.ID = id
	store.put(record)
	return translation.WorkItem{
		RecordID:       id,
		OriginalText:   text,
		SourceLanguage: source,
		TargetLanguage: target,
	}
}

func TestProcessCompletesQueuedRecord(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fixedProvider{text: "Hola Mundo"}
	processor := newTestProcessor(store, provider)
	item := queuedRecord(store, "rec-1", "Hello World", "en", "es")

	if err := processor.Process(context.Background(), item); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	record, err := store.GetRecord(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record.Status != translation.StatusCompleted {
		t.Fatalf("status = %s, want %s", record.Status, translation.StatusCompleted)
	}
	if record.TranslatedText == nil || *record.TranslatedText != "Hola Mundo" {
		t.Fatalf("translated text = %v, want Hola Mundo", record.TranslatedText)
	}
	if record.Error != nil {
		t.Fatalf("completed record should carry no error, got %q", *record.Error)
	}
}

func TestProcessMarksRecordFailedOnProviderError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fixedProvider{err: fmt.Errorf("upstream timeout")}
	processor := newTestProcessor(store, provider)
	item := queuedRecord(store, "rec-2", "Hello World", "en", "es")

	err := processor.Process(context.Background(), item)
	if !errors.Is(err, translation.ErrProvider) {
		t.Fatalf("got %v, want ErrProvider", err)
	}

	record, getErr := store.GetRecord(context.Background(), "rec-2")
	if getErr != nil {
		t.Fatalf("GetRecord failed: %v", getErr)
	}
	if record.Status != translation.StatusFailed {
		t.Fatalf("status = %s, want %s", record.Status, translation.StatusFailed)
	}
	if record.Error == nil || *record.Error == "" {
		t.Fatal("failed record must carry a non-empty error detail")
	}
	if record.TranslatedText != nil {
		t.Fatal("failed record should not carry translated text")
	}
}

func TestProcessReturnsNotFoundForUnknownRecord(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	processor := newTestProcessor(store, &fixedProvider{text: "Hola Mundo"})

	err := processor.Process(context.Background(), translation.WorkItem{
		RecordID:       "rec-missing",
		OriginalText:   "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if !errors.Is(err, translation.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

func TestProcessRedeliveryOfCompletedRecordIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fixedProvider{text: "Hola Mundo"}
	processor := newTestProcessor(store, provider)
	item := queuedRecord(store, "rec-3", "Hello World", "en", "es")

	if err := processor.Process(context.Background(), item); err != nil {
		t.Fatalf("first attempt failed: %v", err)
	}
	if err := processor.Process(context.Background(), item); err != nil {
		t.Fatalf("redelivered attempt failed: %v", err)
	}

	record, err := store.GetRecord(context.Background(), "rec-3")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record.Status != translation.StatusCompleted {
		t.Fatalf("status = %s, want %s", record.Status, translation.StatusCompleted)
	}
	if record.TranslatedText == nil || *record.TranslatedText != "Hola Mundo" {
		t.Fatalf("translated text = %v, want Hola Mundo", record.TranslatedText)
	}
	if provider.calls != 2 {
		t.Fatalf("provider called %d times, want 2", provider.calls)
	}
}

func TestProcessRedeliveryRetriesFailedRecord(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fixedProvider{err: fmt.Errorf("upstream timeout")}
	processor := newTestProcessor(store, provider)
	item := queuedRecord(store, "rec-4", "Hello World", "en", "es")

	if err := processor.Process(context.Background(), item); err == nil {
		t.Fatal("first attempt should fail")
	}

	// Provider recovers before the broker redelivers.
	provider.err = nil
	provider.text = "Hola Mundo"
	if err := processor.Process(context.Background(), item); err != nil {
		t.Fatalf("redelivered attempt failed: %v", err)
	}

	record, err := store.GetRecord(context.Background(), "rec-4")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record.Status != translation.StatusCompleted {
		t.Fatalf("status = %s, want %s", record.Status, translation.StatusCompleted)
	}
	if record.Error != nil {
		t.Fatalf("recovered record should have its error cleared, got %q", *record.Error)
	}
}

func TestProcessSurfacesPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	processor := newTestProcessor(store, &fixedProvider{text: "Hola Mundo"})
	item := queuedRecord(store, "rec-5", "Hello World", "en", "es")
	store.updateErr = fmt.Errorf("connection reset")

	err := processor.Process(context.Background(), item)
	if err == nil {
		t.Fatal("expected an error when persistence fails")
	}
	if errors.Is(err, translation.ErrRecordNotFound) {
		t.Fatal("persistence failure must not be reported as not-found")
	}
}

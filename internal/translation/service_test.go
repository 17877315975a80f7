package translation

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type stubStore struct {
	created  []*Record
	records  map[string]*Record
	createFn func(record *Record) error
	nextID   int
}

func newStubStore() *stubStore {
	return &stubStore{records: make(map[string]*Record)}
}

func (s *stubStore) CreateRecord(ctx context.Context, record *Record) error {
	_ = ctx
	if s.createFn != nil {
		if err := s.createFn(record); err != nil {
			return err
		}
	}
	s.nextID++
	record.ID = fmt.Sprintf("record-%d", s.nextID)
	copied := *record
	s.created = append(s.created, record)
	s.records[record.ID] = &copied
	return nil
}

func (s *stubStore) GetRecord(ctx context.Context, id string) (*Record, error) {
	_ = ctx
	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrRecordNotFound, id)
	}
	copied := *record
	return &copied, nil
}

func (s *stubStore) UpdateRecord(ctx context.Context, record *Record) error {
	_ = ctx
	if _, ok := s.records[record.ID]; !ok {
		return fmt.Errorf("%w: id=%s", ErrRecordNotFound, record.ID)
	}
	copied := *record
	s.records[record.ID] = &copied
	return nil
}

type stubPublisher struct {
	published []WorkItem
	err       error
}

func (p *stubPublisher) PublishWorkItem(ctx context.Context, item WorkItem) error {
	_ = ctx
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, item)
	return nil
}

type stubProvider struct {
	name      string
	translate func(req TranslateRequest) (*TranslateResponse, error)
	languages []Language
	langErr   error
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	_ = ctx
	if p.translate != nil {
		return p.translate(req)
	}
	return &TranslateResponse{
		Text:         "Hola Mundo",
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
	}, nil
}

func (p *stubProvider) Languages(ctx context.Context) ([]Language, error) {
	_ = ctx
	if p.langErr != nil {
		return nil, p.langErr
	}
	return p.languages, nil
}

func newTestService(store *stubStore, publisher *stubPublisher, provider Provider) *Service {
	registry := NewRegistry("stub")
	if provider != nil {
		_ = registry.Register(provider)
	}
	return NewService(store, publisher, registry, ServiceOptions{DefaultSourceLanguage: "en"})
}

func TestSubmitCreatesQueuedRecordAndPublishes(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	record, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if record.Status != StatusQueued {
		t.Fatalf("status = %s, want %s", record.Status, StatusQueued)
	}
	if record.ID == "" {
		t.Fatal("submitted record must have an id")
	}
	if record.TranslatedText != nil {
		t.Fatal("queued record should not carry translated text")
	}
	if record.Error != nil {
		t.Fatal("queued record should not carry an error")
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published %d work items, want 1", len(publisher.published))
	}
	item := publisher.published[0]
	if item.RecordID != record.ID {
		t.Fatalf("work item record id = %s, want %s", item.RecordID, record.ID)
	}
	if item.OriginalText != "Hello World" || item.SourceLanguage != "en" || item.TargetLanguage != "es" {
		t.Fatalf("work item carries wrong copy of the request: %+v", item)
	}
}

func TestSubmitRejectsEmptyTextWithoutSideEffects(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	_, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "   ",
		TargetLanguage: "es",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
	if len(store.created) != 0 {
		t.Fatal("no record must be created for an invalid submission")
	}
	if len(publisher.published) != 0 {
		t.Fatal("nothing must be published for an invalid submission")
	}
}

func TestSubmitRejectsBadTargetLanguage(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	for _, target := range []string{"", "spanish", "e", "123"} {
		_, err := service.Submit(context.Background(), SubmitRequest{
			Text:           "Hello World",
			TargetLanguage: target,
		})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("target %q: got %v, want ErrInvalidRequest", target, err)
		}
	}
	if len(store.created) != 0 || len(publisher.published) != 0 {
		t.Fatal("invalid submissions must not touch store or queue")
	}
}

func TestSubmitDefaultsSourceLanguage(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	record, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		TargetLanguage: "es",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if record.SourceLanguage != "en" {
		t.Fatalf("source language = %s, want en", record.SourceLanguage)
	}
}

func TestSubmitSurfacesStorageFailure(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.createFn = func(*Record) error { return fmt.Errorf("connection refused") }
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	_, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
	if len(publisher.published) != 0 {
		t.Fatal("nothing must be published when persistence fails")
	}
}

func TestSubmitSurfacesPublishFailure(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{err: fmt.Errorf("broker unavailable")}
	service := newTestService(store, publisher, &stubProvider{})

	_, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if !errors.Is(err, ErrQueuePublish) {
		t.Fatalf("got %v, want ErrQueuePublish", err)
	}

	// The record was already persisted and stays queued.
	if len(store.created) != 1 {
		t.Fatalf("created %d records, want 1", len(store.created))
	}
	persisted, getErr := store.GetRecord(context.Background(), store.created[0].ID)
	if getErr != nil {
		t.Fatalf("GetRecord failed: %v", getErr)
	}
	if persisted.Status != StatusQueued {
		t.Fatalf("orphaned record status = %s, want %s", persisted.Status, StatusQueued)
	}
}

func TestConcurrentSubmissionsStayIndependent(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	first, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	second, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Good morning",
		SourceLanguage: "en",
		TargetLanguage: "fr",
	})
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("both records share id %s", first.ID)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("published %d work items, want 2", len(publisher.published))
	}
	if publisher.published[0].RecordID == publisher.published[1].RecordID {
		t.Fatal("work items must reference distinct records")
	}
}

func TestStatusReturnsNotFoundForUnknownID(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	service := newTestService(store, &stubPublisher{}, &stubProvider{})

	_, err := service.Status(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	publisher := &stubPublisher{}
	service := newTestService(store, publisher, &stubProvider{})

	submitted, err := service.Submit(context.Background(), SubmitRequest{
		Text:           "Hello World",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	fetched, err := service.Status(context.Background(), submitted.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if fetched.ID != submitted.ID ||
		fetched.OriginalText != submitted.OriginalText ||
		fetched.SourceLanguage != submitted.SourceLanguage ||
		fetched.TargetLanguage != submitted.TargetLanguage ||
		fetched.Status != submitted.Status {
		t.Fatalf("round-trip mismatch: submitted %+v, fetched %+v", submitted, fetched)
	}
}

func TestLanguagesPassThrough(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		languages: []Language{
			{Code: "en", DisplayName: "English", SupportsSource: true, SupportsTarget: true},
			{Code: "es", DisplayName: "Spanish", SupportsSource: true, SupportsTarget: true},
		},
	}
	service := newTestService(newStubStore(), &stubPublisher{}, provider)

	languages, err := service.Languages(context.Background())
	if err != nil {
		t.Fatalf("Languages failed: %v", err)
	}
	if len(languages) != 2 {
		t.Fatalf("got %d languages, want 2", len(languages))
	}
	if languages[0].Code != "en" || languages[1].Code != "es" {
		t.Fatalf("unexpected language listing: %+v", languages)
	}
}

func TestLanguagesSurfacesProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{langErr: fmt.Errorf("upstream unavailable")}
	service := newTestService(newStubStore(), &stubPublisher{}, provider)

	_, err := service.Languages(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("got %v, want ErrProvider", err)
	}
}

package translation

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a translation record.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Record is one translation request tracked from intake to completion.
type Record struct {
	ID             string
	OriginalText   string
	TranslatedText *string
	SourceLanguage string
	TargetLanguage string
	Status         Status
	Error          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRecord builds a queued record for the given request. The store assigns
// the id and timestamps on insert.
func NewRecord(text, sourceLang, targetLang string) *Record {
	return &Record{
		OriginalText:   text,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Status:         StatusQueued,
	}
}

// MarkProcessing moves a queued record into processing. A record already in
// processing is left unchanged, which keeps redeliveries of in-flight work
// harmless.
func (r *Record) MarkProcessing() error {
	switch r.Status {
	case StatusQueued:
		r.Status = StatusProcessing
		return nil
	case StatusProcessing:
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusProcessing)
	}
}

// Reprocess resets a record to processing regardless of its current state,
// clearing any previous outcome. Used when the queue redelivers work for a
// record that already reached a terminal state.
func (r *Record) Reprocess() {
	r.Status = StatusProcessing
	r.TranslatedText = nil
	r.Error = nil
}

// Complete stores the translated text and moves the record to completed.
func (r *Record) Complete(translatedText string) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusCompleted)
	}
	r.Status = StatusCompleted
	r.TranslatedText = &translatedText
	r.Error = nil
	return nil
}

// Fail records the failure detail and moves the record to failed.
func (r *Record) Fail(detail string) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusFailed)
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = "translation failed"
	}
	r.Status = StatusFailed
	r.Error = &detail
	r.TranslatedText = nil
	return nil
}

// Terminal reports whether the record reached a final state.
func (r *Record) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

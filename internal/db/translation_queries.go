package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"horse.fit/polyglot/internal/translation"
)

// TranslationStore implements the record store over a Pool.
type TranslationStore struct {
	pool *Pool
}

func NewTranslationStore(pool *Pool) *TranslationStore {
	return &TranslationStore{pool: pool}
}

func (s *TranslationStore) CreateRecord(ctx context.Context, record *translation.Record) error {
	const q = `
INSERT INTO translations (
	original_text,
	source_language,
	target_language,
	status
)
VALUES ($1, $2, $3, $4)
RETURNING translation_id::text, created_at, updated_at
`

	err := s.pool.QueryRow(
		ctx,
		q,
		record.OriginalText,
		record.SourceLanguage,
		record.TargetLanguage,
		string(record.Status),
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert translation record: %w", err)
	}
	return nil
}

func (s *TranslationStore) GetRecord(ctx context.Context, id string) (*translation.Record, error) {
	trimmedID := strings.TrimSpace(id)
	if _, err := uuid.Parse(trimmedID); err != nil {
		return nil, fmt.Errorf("%w: id=%s", translation.ErrRecordNotFound, trimmedID)
	}

	const q = `
SELECT
	translation_id::text,
	original_text,
	translated_text,
	source_language,
	target_language,
	status,
	error_detail,
	created_at,
	updated_at
FROM translations
WHERE translation_id = $1::uuid
LIMIT 1
`

	var (
		record translation.Record
		status string
	)
	err := s.pool.QueryRow(ctx, q, trimmedID).Scan(
		&record.ID,
		&record.OriginalText,
		&record.TranslatedText,
		&record.SourceLanguage,
		&record.TargetLanguage,
		&status,
		&record.Error,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("%w: id=%s", translation.ErrRecordNotFound, trimmedID)
		}
		return nil, fmt.Errorf("query translation record: %w", err)
	}

	record.Status = translation.Status(status)
	if !translation.ValidStatus(record.Status) {
		return nil, fmt.Errorf("translation record %s carries unknown status %q", record.ID, status)
	}
	return &record, nil
}

func (s *TranslationStore) UpdateRecord(ctx context.Context, record *translation.Record) error {
	const q = `
UPDATE translations
SET
	status = $2,
	translated_text = $3,
	error_detail = $4,
	updated_at = now()
WHERE translation_id = $1::uuid
RETURNING updated_at
`

	err := s.pool.QueryRow(
		ctx,
		q,
		record.ID,
		string(record.Status),
		record.TranslatedText,
		record.Error,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return fmt.Errorf("%w: id=%s", translation.ErrRecordNotFound, record.ID)
		}
		return fmt.Errorf("update translation record: %w", err)
	}
	return nil
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	requestschema "horse.fit/polyglot/internal/schema"
	"horse.fit/polyglot/internal/translation"
)

// maxRequestBodyBytes bounds submission payloads before decoding.
const maxRequestBodyBytes = 1 << 20

type translationView struct {
	RequestID      string    `json:"requestId"`
	OriginalText   string    `json:"originalText"`
	TranslatedText *string   `json:"translatedText"`
	SourceLanguage string    `json:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage"`
	Status         string    `json:"status"`
	Error          *string   `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func viewFromRecord(record *translation.Record) translationView {
	return translationView{
		RequestID:      record.ID,
		OriginalText:   record.OriginalText,
		TranslatedText: record.TranslatedText,
		SourceLanguage: record.SourceLanguage,
		TargetLanguage: record.TargetLanguage,
		Status:         string(record.Status),
		Error:          record.Error,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func (s *Server) handleSubmit(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBodyBytes))
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not read request body"})
	}

	request, err := requestschema.ValidateTranslationRequest(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	submit := translation.SubmitRequest{
		Text:           request.Text,
		TargetLanguage: request.TargetLanguage,
	}
	if request.SourceLanguage != nil {
		submit.SourceLanguage = *request.SourceLanguage
	}

	record, err := s.service.Submit(c.Request().Context(), submit)
	if err != nil {
		if errors.Is(err, translation.ErrInvalidRequest) {
			return failValidation(c, map[string]string{"body": err.Error()})
		}
		s.logger.Error().Err(err).Msg("submit translation failed")
		return internalError(c, "Failed to accept translation request")
	}

	return successWithStatus(c, http.StatusAccepted, map[string]any{
		"requestId": record.ID,
		"status":    string(record.Status),
		"message":   "Translation request accepted for processing",
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	requestID := strings.TrimSpace(c.Param("request_id"))
	if requestID == "" {
		return failValidation(c, map[string]string{"request_id": "is required"})
	}

	record, err := s.service.Status(c.Request().Context(), requestID)
	if err != nil {
		if errors.Is(err, translation.ErrRecordNotFound) {
			return failNotFound(c, "Translation request not found")
		}
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("query translation status failed")
		return internalError(c, "Failed to load translation status")
	}

	return success(c, viewFromRecord(record))
}

func (s *Server) handleLanguages(c echo.Context) error {
	languages, err := s.service.Languages(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("query supported languages failed")
		return internalError(c, "Failed to load supported languages")
	}

	return success(c, map[string]any{
		"items": languages,
	})
}

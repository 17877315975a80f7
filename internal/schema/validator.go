package requestschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/polyglot/internal/language"
)

//go:embed translation_request.schema.json
var translationRequestSchemaJSON string

type TranslationRequest struct {
	Text           string  `json:"text"`
	SourceLanguage *string `json:"sourceLanguage,omitempty"`
	TargetLanguage string  `json:"targetLanguage"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

func ValidateTranslationRequest(payload json.RawMessage) (*TranslationRequest, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var request TranslationRequest
	if err := json.Unmarshal(normalized, &request); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&request); err != nil {
		return nil, err
	}

	return &request, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("translation_request.schema.json", strings.NewReader(translationRequestSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("translation_request.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(request *TranslationRequest) error {
	if request == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(request.Text) == "" {
		return fmt.Errorf("text must not be empty")
	}

	target := language.NormalizeCode(request.TargetLanguage)
	if !language.IsISO6391(target) {
		return fmt.Errorf("targetLanguage must be a two-letter ISO 639-1 code")
	}

	if request.SourceLanguage != nil {
		source := language.NormalizeCode(*request.SourceLanguage)
		if !language.IsISO6391(source) {
			return fmt.Errorf("sourceLanguage must be a two-letter ISO 639-1 code")
		}
	}

	return nil
}

package requestschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateTranslationRequestAcceptsMinimalPayload(t *testing.T) {
	t.Parallel()

	request, err := ValidateTranslationRequest(json.RawMessage(`{"text":"Hello World","targetLanguage":"es"}`))
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if request.Text != "Hello World" {
		t.Fatalf("text = %q, want Hello World", request.Text)
	}
	if request.TargetLanguage != "es" {
		t.Fatalf("targetLanguage = %q, want es", request.TargetLanguage)
	}
	if request.SourceLanguage != nil {
		t.Fatalf("sourceLanguage = %v, want nil", request.SourceLanguage)
	}
}

func TestValidateTranslationRequestAcceptsExplicitSource(t *testing.T) {
	t.Parallel()

	request, err := ValidateTranslationRequest(json.RawMessage(`{"text":"Bonjour","sourceLanguage":"fr","targetLanguage":"en"}`))
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if request.SourceLanguage == nil || *request.SourceLanguage != "fr" {
		t.Fatalf("sourceLanguage = %v, want fr", request.SourceLanguage)
	}
}

func TestValidateTranslationRequestRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{
			name:    "empty payload",
			payload: ``,
			wantMsg: "payload is empty",
		},
		{
			name:    "not json",
			payload: `{"text":`,
			wantMsg: "decode payload JSON",
		},
		{
			name:    "trailing content",
			payload: `{"text":"hi","targetLanguage":"es"}{}`,
			wantMsg: "trailing content",
		},
		{
			name:    "missing text",
			payload: `{"targetLanguage":"es"}`,
			wantMsg: "schema validation failed",
		},
		{
			name:    "empty text",
			payload: `{"text":"","targetLanguage":"es"}`,
			wantMsg: "schema validation failed",
		},
		{
			name:    "whitespace text",
			payload: `{"text":"   ","targetLanguage":"es"}`,
			wantMsg: "text must not be empty",
		},
		{
			name:    "missing target language",
			payload: `{"text":"hi"}`,
			wantMsg: "schema validation failed",
		},
		{
			name:    "three-letter target",
			payload: `{"text":"hi","targetLanguage":"spa"}`,
			wantMsg: "schema validation failed",
		},
		{
			name:    "numeric target",
			payload: `{"text":"hi","targetLanguage":"12"}`,
			wantMsg: "targetLanguage must be a two-letter ISO 639-1 code",
		},
		{
			name:    "bad source language",
			payload: `{"text":"hi","sourceLanguage":"english","targetLanguage":"es"}`,
			wantMsg: "schema validation failed",
		},
		{
			name:    "unknown field",
			payload: `{"text":"hi","targetLanguage":"es","provider":"google"}`,
			wantMsg: "schema validation failed",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateTranslationRequest(json.RawMessage(tc.payload))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

package translation

import "context"

// Provider translates free-form text between languages.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
	Languages(ctx context.Context) ([]Language, error)
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string // ISO 639-1 (for example: "zh", "en")
	TargetLang string
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text         string
	SourceLang   string
	TargetLang   string
	ProviderName string
	LatencyMs    int64
}

// Language describes one language a provider can translate from or to.
type Language struct {
	Code           string `json:"code"`
	DisplayName    string `json:"displayName"`
	SupportsSource bool   `json:"supportsAsSource"`
	SupportsTarget bool   `json:"supportsAsTarget"`
}

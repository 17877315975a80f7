package translation

import (
	"sort"
	"strings"

	"horse.fit/polyglot/internal/language"
)

var languageDisplayNames = map[string]string{
	"ar": "Arabic",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// DisplayName maps an ISO 639-1 code to an English display name, falling back
// to the uppercased code for languages outside the label table.
func DisplayName(code string) string {
	normalized := language.NormalizeCode(code)
	if name, ok := languageDisplayNames[normalized]; ok {
		return name
	}
	return strings.ToUpper(normalized)
}

// StaticLanguages lists the label table as symmetric source/target languages.
// Providers without a capability listing of their own serve this.
func StaticLanguages() []Language {
	codes := make([]string, 0, len(languageDisplayNames))
	for code := range languageDisplayNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	languages := make([]Language, 0, len(codes))
	for _, code := range codes {
		languages = append(languages, Language{
			Code:           code,
			DisplayName:    languageDisplayNames[code],
			SupportsSource: true,
			SupportsTarget: true,
		})
	}
	return languages
}

package app

import (
	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/translation"
)

// buildRegistry wires every known provider and selects the configured
// default, falling back to whatever is registered if the configured name is
// unknown.
func buildRegistry(cfg *config.Config) *translation.Registry {
	registry := translation.NewRegistry(cfg.TranslationProvider)
	_ = registry.Register(translation.NewGoogleProviderFromEnv())
	_ = registry.Register(translation.NewLocalProviderFromEnv())

	if _, err := registry.Provider(""); err != nil {
		registry = translation.NewRegistry(translation.DefaultProviderName)
		_ = registry.Register(translation.NewGoogleProviderFromEnv())
		_ = registry.Register(translation.NewLocalProviderFromEnv())
	}
	return registry
}

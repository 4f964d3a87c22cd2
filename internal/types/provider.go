// README: Provider identifiers shared across modules.
package types

// ProviderID names one upstream LLM integration.
type ProviderID string

const (
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderPerplexity ProviderID = "perplexity"
	ProviderGemini     ProviderID = "gemini"

	// ProviderAll is the fan-out selector; it is not a provider itself.
	ProviderAll ProviderID = "all"
)

// Providers returns the closed provider set in declaration order.
func Providers() []ProviderID {
	return []ProviderID{ProviderAnthropic, ProviderPerplexity, ProviderGemini}
}

// Known reports whether p is one of the concrete providers.
func (p ProviderID) Known() bool {
	switch p {
	case ProviderAnthropic, ProviderPerplexity, ProviderGemini:
		return true
	}
	return false
}

// Selectable reports whether p may be requested by a caller, including ProviderAll.
func (p ProviderID) Selectable() bool {
	return p == ProviderAll || p.Known()
}

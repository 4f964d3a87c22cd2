package ai

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationMissing = errors.New("provider configuration missing")
	ErrEmptyResponse        = errors.New("empty response from provider")
	ErrUnparsableResponse   = errors.New("unable to parse recommendations from provider response")
	ErrUpstream             = errors.New("upstream provider error")
	ErrUnknownProvider      = errors.New("unknown provider")
	ErrNoProviders          = errors.New("no providers available")
)

// UpstreamError is a non-success answer from a provider API.
type UpstreamError struct {
	Provider string // display label, e.g. "Perplexity"
	Status   int    // HTTP status, 0 when unknown
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func missingKey(envVar string) error {
	return fmt.Errorf("%w: %s environment variable is not set", ErrConfigurationMissing, envVar)
}

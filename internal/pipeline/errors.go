// Package pipeline defines the error taxonomy shared by every analysis
// stage. Stages fail with a typed kind; the transport layer owns the mapping
// from kind to HTTP status, so no stage ever reasons about status codes.
package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// KindConfiguration marks a missing credential or endpoint; raised
	// before any network call is attempted.
	KindConfiguration Kind = "configuration"
	// KindProvider marks an upstream call that failed outright.
	KindProvider Kind = "provider"
	// KindMalformedResponse marks provider output that could not be decoded.
	KindMalformedResponse Kind = "malformed_response"
	// KindIncompleteAnalysis marks a decoded payload missing a field the
	// composite calculation depends on.
	KindIncompleteAnalysis Kind = "incomplete_analysis"
	// KindValidation marks a bad inbound request.
	KindValidation Kind = "validation"
)

// Error is the typed failure flowing from pipeline stages to the gateway.
// Raw holds the offending provider payload for malformed responses; it is
// for logs only and never appears in Error() or any response body.
type Error struct {
	Kind     Kind
	Provider string
	Analysis string
	Message  string
	Raw      string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConfigurationError reports a provider that cannot be used because its
// configuration is absent.
func NewConfigurationError(provider, message string) *Error {
	return &Error{Kind: KindConfiguration, Provider: provider, Message: message}
}

// NewProviderError reports a failed upstream call.
func NewProviderError(provider, message string, cause error) *Error {
	return &Error{Kind: KindProvider, Provider: provider, Message: message, Cause: cause}
}

// NewMalformedResponseError reports provider output that could not be
// decoded, keeping the raw payload for the logs.
func NewMalformedResponseError(provider, raw string, cause error) *Error {
	return &Error{
		Kind:     KindMalformedResponse,
		Provider: provider,
		Message:  "undecodable response",
		Raw:      raw,
		Cause:    cause,
	}
}

// NewIncompleteAnalysisError reports a decoded payload missing a field the
// score calculation needs; the message names the field.
func NewIncompleteAnalysisError(field string) *Error {
	return &Error{
		Kind:    KindIncompleteAnalysis,
		Message: fmt.Sprintf("analysis incomplete: missing %s", field),
	}
}

// NewValidationError reports a bad inbound request.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// WithAnalysis tags err with the analysis kind being performed. The error's
// own Kind is preserved; errors from outside the taxonomy are adopted as
// provider failures.
func WithAnalysis(err error, analysis string) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Analysis == "" {
			pe.Analysis = analysis
		}
		return err
	}
	return &Error{Kind: KindProvider, Analysis: analysis, Message: err.Error(), Cause: err}
}

// KindOf extracts the failure kind; anything outside the taxonomy counts as
// a provider failure.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindProvider
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode maps a failure to its HTTP status. Only caller mistakes are
// client errors; every pipeline-side failure is a 500.
func StatusCode(err error) int {
	if IsKind(err, KindValidation) {
		return 400
	}
	return 500
}

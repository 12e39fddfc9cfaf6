package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"configuration", NewConfigurationError("gemini", "key missing"), KindConfiguration},
		{"provider", NewProviderError("clip", "refused", nil), KindProvider},
		{"malformed", NewMalformedResponseError("gemini", "{broken", nil), KindMalformedResponse},
		{"incomplete", NewIncompleteAnalysisError("acne.severity"), KindIncompleteAnalysis},
		{"validation", NewValidationError("no image"), KindValidation},
		{"wrapped", fmt.Errorf("outer: %w", NewConfigurationError("clip", "no url")), KindConfiguration},
		{"foreign error defaults to provider", errors.New("plain"), KindProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.True(t, IsKind(tt.err, tt.want))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewValidationError("no image")))

	for _, err := range []error{
		NewConfigurationError("gemini", "key missing"),
		NewProviderError("clip", "refused", nil),
		NewMalformedResponseError("gemini", "prose", nil),
		NewIncompleteAnalysisError("probability"),
		errors.New("plain"),
	} {
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	}
}

func TestErrorMessageNeverContainsRawPayload(t *testing.T) {
	err := NewMalformedResponseError("gemini", "SECRET raw model text", errors.New("invalid character"))
	assert.NotContains(t, err.Error(), "SECRET")
	assert.Equal(t, "SECRET raw model text", err.Raw)
}

func TestIncompleteAnalysisNamesField(t *testing.T) {
	err := NewIncompleteAnalysisError("hyperandrogenismIndicator.probability")
	assert.Contains(t, err.Error(), "hyperandrogenismIndicator.probability")
}

func TestWithAnalysisPreservesKind(t *testing.T) {
	err := WithAnalysis(NewMalformedResponseError("gemini", "{", nil), "facial")
	assert.Equal(t, KindMalformedResponse, KindOf(err))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "facial", pe.Analysis)

	// An existing tag is not overwritten.
	again := WithAnalysis(err, "food")
	require.True(t, errors.As(again, &pe))
	assert.Equal(t, "facial", pe.Analysis)
}

func TestWithAnalysisAdoptsForeignErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := WithAnalysis(cause, "food")

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindProvider, pe.Kind)
	assert.Equal(t, "food", pe.Analysis)
	assert.ErrorIs(t, err, cause)
}

func TestWithAnalysisNil(t *testing.T) {
	assert.NoError(t, WithAnalysis(nil, "chat"))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := NewProviderError("deepgram", "request failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deepgram")
	assert.Contains(t, err.Error(), "timeout")
}

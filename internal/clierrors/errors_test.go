package clierrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonymousuni/cats/internal/estimation"
	"github.com/anonymousuni/cats/internal/pipeline"
)

func TestFormat_NilError(t *testing.T) {
	f := NewErrorFormatter(false)
	assert.Equal(t, "", f.Format(nil))
}

func TestFormat_KnownSentinels(t *testing.T) {
	f := NewErrorFormatter(false)

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"cycle", pipeline.ErrCycle, "cycle"},
		{"incompatible connection", pipeline.ErrIncompatibleConnection, "connection"},
		{"no samples", estimation.ErrNoSamples, "dry-run samples"},
		{"no bandwidth", estimation.ErrNoBandwidth, "network path"},
		{"empty result", ErrEmptyResult, "no timelines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := f.Format(tt.err)
			assert.Contains(t, msg, "Hint:")
			assert.Contains(t, msg, tt.contains)
		})
	}
}

func TestFormat_WrappedSentinelStillMatches(t *testing.T) {
	f := NewErrorFormatter(false)
	wrapped := WrapWithSuggestion(pipeline.ErrCycle, "remove the offending dependency")
	assert.Contains(t, f.Format(wrapped), "cycle")
	assert.True(t, errors.Is(wrapped, pipeline.ErrCycle))
}

func TestFormat_UnknownErrorFallsBackToMessage(t *testing.T) {
	f := NewErrorFormatter(false)
	err := errors.New("candidate: no feasible placement for [A B]")
	assert.Contains(t, f.Format(err), "no feasible placement")
}

func TestFormat_VerboseModePrefixesError(t *testing.T) {
	f := NewErrorFormatter(true)
	err := errors.New("boom")
	assert.Equal(t, "Error: boom", f.Format(err))
}

package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier records calls and returns a fixed answer.
type stubClassifier struct {
	label Label
	err   error
	panic bool
	calls []string
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) Classify(_ context.Context, text string) (Label, error) {
	s.calls = append(s.calls, text)
	if s.panic {
		panic("boom")
	}
	return s.label, s.err
}

func TestRunBlankInputIsNeutral(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		text    string
		present bool
	}{
		{"", false},
		{"anything", false},
		{"", true},
		{"   ", true},
		{"\t\n", true},
	} {
		stub := &stubClassifier{label: Positive}
		res := Run(ctx, stub, tc.text, tc.present)
		assert.Equal(t, Result{Label: Neutral}, res, "text %q present %v", tc.text, tc.present)
		assert.Empty(t, stub.calls, "classifier must not be invoked for %q", tc.text)
	}
}

func TestRunTrimsInput(t *testing.T) {
	stub := &stubClassifier{label: Negative}
	res := Run(context.Background(), stub, "  burnt  ", true)
	assert.Equal(t, Negative, res.Label)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{"burnt"}, stub.calls)
}

func TestRunFailuresDefaultToNeutral(t *testing.T) {
	errModel := errors.New("model unavailable")

	res := Run(context.Background(), &stubClassifier{label: Positive, err: errModel}, "text", true)
	assert.Equal(t, Neutral, res.Label)
	assert.ErrorIs(t, res.Err, errModel)

	res = Run(context.Background(), &stubClassifier{panic: true}, "text", true)
	assert.Equal(t, Neutral, res.Label)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panic")

	res = Run(context.Background(), &stubClassifier{label: "Mixed"}, "text", true)
	assert.Equal(t, Neutral, res.Label)
	assert.Error(t, res.Err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "héé", Truncate("héééé", 3))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

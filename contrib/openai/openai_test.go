package openai

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Streamize-llc/axonize/ddtrace/tracer"
)

type fakeUsage struct {
	PromptTokens     int
	CompletionTokens int
}

type fakeResponse struct {
	Usage fakeUsage
}

type fakeDelta struct{ Content string }
type fakeChoice struct{ Delta fakeDelta }
type fakeChunk struct{ Choices []fakeChoice }

// fakeStream intentionally does NOT implement any declared Go interface;
// WrapStream must discover Recv/Close purely via reflection.
type fakeStream struct {
	chunks []fakeChunk
	idx    int
	closed bool
	failAt int // -1 disables
	failErr error
}

func newFakeStream(contents ...string) *fakeStream {
	chunks := make([]fakeChunk, len(contents))
	for i, c := range contents {
		chunks[i] = fakeChunk{Choices: []fakeChoice{{Delta: fakeDelta{Content: c}}}}
	}
	return &fakeStream{chunks: chunks, failAt: -1}
}

func (s *fakeStream) Recv() (fakeChunk, error) {
	if s.failAt >= 0 && s.idx == s.failAt {
		return fakeChunk{}, s.failErr
	}
	if s.idx >= len(s.chunks) {
		return fakeChunk{}, io.EOF
	}
	c := s.chunks[s.idx]
	s.idx++
	return c, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func TestWrapCompletionExtractsUsage(t *testing.T) {
	tracer.Init(tracer.WithSamplingRate(1.0), tracer.WithBufferSize(16))
	defer tracer.Shutdown()

	resp, err := WrapCompletion(nil, "gpt-4", func() (any, error) {
		return fakeResponse{Usage: fakeUsage{PromptTokens: 12, CompletionTokens: 34}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.(fakeResponse).Usage.PromptTokens)

	promptTokens, completionTokens, ok := extractUsage(resp)
	require.True(t, ok)
	assert.EqualValues(t, 12, promptTokens)
	assert.EqualValues(t, 34, completionTokens)
}

func TestWrapCompletionPropagatesError(t *testing.T) {
	tracer.Init(tracer.WithSamplingRate(1.0), tracer.WithBufferSize(16))
	defer tracer.Shutdown()

	want := errors.New("rate limited")
	_, err := WrapCompletion(nil, "gpt-4", func() (any, error) {
		return nil, want
	})
	assert.Equal(t, want, err)
}

func TestWrapStreamClosesOnEOF(t *testing.T) {
	tracer.Init(tracer.WithSamplingRate(1.0), tracer.WithBufferSize(16))
	defer tracer.Shutdown()

	stream := newFakeStream("hello", "", " world")
	err := WrapStream(nil, "gpt-4", stream)
	require.NoError(t, err)
	assert.True(t, stream.closed)
}

func TestWrapStreamPropagatesNonEOFError(t *testing.T) {
	tracer.Init(tracer.WithSamplingRate(1.0), tracer.WithBufferSize(16))
	defer tracer.Shutdown()

	stream := newFakeStream("hello")
	stream.failAt = 1
	stream.failErr = errors.New("connection reset")

	err := WrapStream(nil, "gpt-4", stream)
	assert.Error(t, err)
	assert.True(t, stream.closed)
}

func TestWrapStreamRejectsValueWithoutRecv(t *testing.T) {
	tracer.Init(tracer.WithSamplingRate(1.0), tracer.WithBufferSize(16))
	defer tracer.Shutdown()

	err := WrapStream(nil, "gpt-4", struct{}{})
	assert.Error(t, err)
}

package analysis

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	text  string
	err   error
	delay time.Duration
	got   []Request
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req Request) (string, error) {
	f.got = append(f.got, req)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return log.New(buf, "", 0), buf
}

func TestServiceReturnsText(t *testing.T) {
	t.Parallel()

	fa := &fakeAnalyzer{text: "  - tight stop\n"}
	s := NewService(fa)

	got := s.Analyze(context.Background(), "data:image/png;base64,AAAA", sampleContext())
	assert.Equal(t, "- tight stop", got)
	require.Len(t, fa.got, 1)
	require.NotNil(t, fa.got[0].Image)
	assert.Equal(t, "image/png", fa.got[0].Image.MIMEType)
}

func TestServiceFallbackOnError(t *testing.T) {
	t.Parallel()

	logger, buf := quietLogger()
	fa := &fakeAnalyzer{err: errors.New("quota exceeded")}
	s := NewService(fa, WithLogger(logger))

	assert.Equal(t, FallbackText, s.Analyze(context.Background(), "", sampleContext()))
	assert.Len(t, fa.got, 1, "no retries")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestServiceEmptyResponse(t *testing.T) {
	t.Parallel()

	s := NewService(&fakeAnalyzer{text: "   "})
	assert.Equal(t, NoAnalysisText, s.Analyze(context.Background(), "", sampleContext()))
}

func TestServiceDisabled(t *testing.T) {
	t.Parallel()

	logger, _ := quietLogger()

	var nilService *Service
	assert.False(t, nilService.Enabled())
	assert.Equal(t, FallbackText, nilService.Analyze(context.Background(), "", sampleContext()))

	s := NewService(nil, WithLogger(logger))
	assert.False(t, s.Enabled())
	assert.Equal(t, FallbackText, s.Analyze(context.Background(), "", sampleContext()))

	s = NewService(NewGeminiClient(""), WithLogger(logger))
	assert.False(t, s.Enabled())
	assert.Equal(t, FallbackText, s.Analyze(context.Background(), "", sampleContext()))
}

func TestServiceTimeout(t *testing.T) {
	t.Parallel()

	logger, buf := quietLogger()
	fa := &fakeAnalyzer{text: "late", delay: time.Second}
	s := NewService(fa, WithTimeout(20*time.Millisecond), WithLogger(logger))

	start := time.Now()
	assert.Equal(t, FallbackText, s.Analyze(context.Background(), "", sampleContext()))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Contains(t, buf.String(), context.DeadlineExceeded.Error())
}

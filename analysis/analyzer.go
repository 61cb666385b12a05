package analysis

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/metrics"
)

const (
	// FallbackText replaces the critique whenever the analyzer fails.
	FallbackText = "Unable to complete AI analysis at this time. Please check your API key or internet connection."
	// NoAnalysisText is used when the analyzer answers with nothing.
	NoAnalysisText = "No analysis generated."
)

// ErrDisabled is returned by analyzers that have no credentials.
var ErrDisabled = errors.New("analysis disabled")

// Analyzer produces a written critique for a trade.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// Service turns analyzer failures into the fallback text so a submission
// never fails because of the reviewer. It makes one attempt per call.
type Service struct {
	analyzer Analyzer
	timeout  time.Duration
	logger   *log.Logger
}

type ServiceOption func(*Service)

// WithTimeout bounds each call. Zero leaves the caller's context alone.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func NewService(a Analyzer, opts ...ServiceOption) *Service {
	s := &Service{analyzer: a, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether calls can reach a real analyzer.
func (s *Service) Enabled() bool {
	if s == nil || s.analyzer == nil {
		return false
	}
	if e, ok := s.analyzer.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

// Analyze returns the critique for the trade, or FallbackText on any
// failure.
func (s *Service) Analyze(ctx context.Context, screenshot string, c TradeContext) string {
	if !s.Enabled() {
		metrics.AnalysisErrorsTotal.WithLabelValues("disabled").Inc()
		if s != nil {
			s.logger.Printf("analysis: %v", ErrDisabled)
		}
		return FallbackText
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	metrics.AnalysisRequestsTotal.Inc()
	start := time.Now()
	text, err := s.analyzer.Analyze(ctx, NewRequest(screenshot, c))
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Printf("analysis: %v", err)
		return FallbackText
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return NoAnalysisText
	}
	return text
}

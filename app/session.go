// Package app holds the state of one journal session: the record store,
// its persistence, the active date filter and the analysis guard.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rustyeddy/tradejournal/analysis"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

var (
	// ErrAnalysisInFlight is returned when an analysis is already pending.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrNothingToAnalyze is returned when the trade has neither a
	// screenshot nor notes.
	ErrNothingToAnalyze = errors.New("nothing to analyze: attach a screenshot or notes")
	ErrNotFound         = errors.New("trade not found")
)

// Session is the single-writer application state. Every mutation of the
// store is followed by a full snapshot save.
type Session struct {
	store     *journal.Store
	persister journal.SnapshotStore
	analyzer  *analysis.Service

	rng      journal.DateRange
	inFlight atomic.Bool

	now    func() time.Time
	loc    *time.Location
	logger *log.Logger
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// SubmitResult reports a submission. The record is in the store even when
// SaveErr is set.
type SubmitResult struct {
	Record  journal.Record
	SaveErr error
}

func (r SubmitResult) Persisted() bool {
	return r.SaveErr == nil
}

// Open starts a session from whatever the persister holds. A missing,
// unreadable or corrupt snapshot starts an empty journal and is only
// logged.
func Open(persister journal.SnapshotStore, analyzer *analysis.Service, opts ...Option) *Session {
	s := &Session{
		store:     journal.NewStore(),
		persister: persister,
		analyzer:  analyzer,
		now:       time.Now,
		loc:       time.Local,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Session) load() {
	if s.persister == nil {
		return
	}
	blob, err := s.persister.Load()
	if err != nil {
		metrics.SnapshotLoadErrorsTotal.Inc()
		s.logger.Printf("session: load snapshot: %v (starting empty)", err)
		return
	}
	records, err := journal.DecodeSnapshot(blob)
	if err != nil {
		metrics.SnapshotLoadErrorsTotal.Inc()
		s.logger.Printf("session: %v (starting empty)", err)
		return
	}
	s.store.LoadSnapshot(records)
}

func (s *Session) persist() error {
	if s.persister == nil {
		return nil
	}
	blob, err := journal.EncodeSnapshot(s.store.All())
	if err == nil {
		err = s.persister.Save(blob)
	}
	if err != nil {
		metrics.SnapshotSaveErrorsTotal.Inc()
		s.logger.Printf("session: save snapshot failed, journal kept in memory: %v", err)
		return err
	}
	return nil
}

// Submit builds a record from the form, appends it and saves the journal.
func (s *Session) Submit(f journal.FormData) SubmitResult {
	rec := journal.NewRecordAt(f, s.now(), s.loc)
	s.store.Append(rec)
	metrics.TradesRecordedTotal.Inc()
	return SubmitResult{Record: rec, SaveErr: s.persist()}
}

// Analyze asks the reviewer about the draft trade. Only one call may be
// pending at a time, and the trade needs a screenshot or notes. Collaborator
// failures come back as the fallback text.
func (s *Session) Analyze(ctx context.Context, f journal.FormData) (string, error) {
	if len(f.Screenshot) == 0 && strings.TrimSpace(f.Notes) == "" {
		return "", ErrNothingToAnalyze
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrAnalysisInFlight
	}
	defer s.inFlight.Store(false)

	shot := ""
	if len(f.Screenshot) > 0 {
		shot = journal.EncodeScreenshot(f.Screenshot)
	}
	return s.analyzer.Analyze(ctx, shot, analysis.ContextFromForm(f)), nil
}

// Analyzing reports whether an analysis call is pending.
func (s *Session) Analyzing() bool {
	return s.inFlight.Load()
}

// SubmitWithAnalysis waits for the reviewer, attaches its text and submits.
func (s *Session) SubmitWithAnalysis(ctx context.Context, f journal.FormData) (SubmitResult, error) {
	text, err := s.Analyze(ctx, f)
	if err != nil {
		return SubmitResult{}, err
	}
	f.AIAnalysis = text
	return s.Submit(f), nil
}

// Import replaces the journal with records and saves it.
func (s *Session) Import(records []journal.Record) error {
	s.store.LoadSnapshot(records)
	return s.persist()
}

func (s *Session) Records() []journal.Record {
	return s.store.All()
}

func (s *Session) Len() int {
	return s.store.Len()
}

func (s *Session) Find(id string) (journal.Record, error) {
	r, ok := s.store.Find(id)
	if !ok {
		return journal.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// Snapshot returns the encoded journal, as it would be saved.
func (s *Session) Snapshot() ([]byte, error) {
	return journal.EncodeSnapshot(s.store.All())
}

func (s *Session) Location() *time.Location {
	return s.loc
}

// Filter selection

func (s *Session) SetRange(r journal.DateRange) {
	s.rng = r
}

func (s *Session) Range() journal.DateRange {
	return s.rng
}

func (s *Session) ThisMonth() {
	s.rng = journal.ThisMonth(s.now().In(s.loc))
}

func (s *Session) LastMonth() {
	s.rng = journal.LastMonth(s.now().In(s.loc))
}

func (s *Session) ClearFilter() {
	s.rng = journal.DateRange{}
}

// Views

// Filtered returns the records inside the active range in submission order.
func (s *Session) Filtered() []journal.Record {
	return journal.Filter(s.store.All(), s.rng)
}

// History returns the filtered records, most recent first.
func (s *Session) History() []journal.Record {
	return journal.SortNewestFirst(s.Filtered())
}

// Dashboard aggregates the filtered records.
func (s *Session) Dashboard() journal.Dashboard {
	return journal.BuildDashboard(s.Filtered())
}

func (s *Session) Close() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Close()
}

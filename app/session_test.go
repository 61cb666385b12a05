package app

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/analysis"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// memStore is an in-memory SnapshotStore that can be told to fail.
type memStore struct {
	mu      sync.Mutex
	blob    []byte
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func (m *memStore) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.blob, nil
}

func (m *memStore) Save(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.blob = append([]byte(nil), b...)
	return nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

type fakeAnalyzer struct {
	text    string
	err     error
	release chan struct{}
	got     analysis.Request
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req analysis.Request) (string, error) {
	f.got = req
	if f.release != nil {
		<-f.release
	}
	return f.text, f.err
}

var quiet = log.New(io.Discard, "", 0)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newSession(t *testing.T, st *memStore, a analysis.Analyzer) *Session {
	t.Helper()
	svc := analysis.NewService(a, analysis.WithLogger(quiet))
	return Open(st, svc,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithLogger(quiet),
	)
}

func form(date string, status journal.Status, rr string) journal.FormData {
	return journal.FormData{
		Date:        date,
		PriceSource: "5m",
		Timeframe:   "1h",
		Model:       "fvg",
		Direction:   journal.Long,
		EntryPrice:  "1.1000",
		ExitPrice:   "1.1100",
		RR:          rr,
		Status:      status,
	}
}

func withNotes(f journal.FormData) journal.FormData {
	f.Notes = "entered on the retest"
	return f
}

func TestOpenEmpty(t *testing.T) {
	t.Parallel()

	s := newSession(t, &memStore{}, nil)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.History())
	assert.Equal(t, journal.Stats{}, s.Dashboard().Stats)
}

func TestOpenRestoresSnapshot(t *testing.T) {
	t.Parallel()

	first := newSession(t, &memStore{}, nil)
	first.Submit(form("2024-03-01", journal.Win, "2"))
	first.Submit(form("2024-03-02", journal.Loss, "3"))
	blob, err := first.Snapshot()
	require.NoError(t, err)

	s := newSession(t, &memStore{blob: blob}, nil)
	assert.Equal(t, first.Records(), s.Records())
}

func TestOpenCorruptSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()

	for name, st := range map[string]*memStore{
		"garbage":   {blob: []byte("{not json")},
		"not array": {blob: []byte(`{"id":"x"}`)},
		"bad row":   {blob: []byte(`[{"id":"a","status":"MAYBE","direction":"Long"}]`)},
		"load err":  {loadErr: errors.New("disk gone")},
		"dup ids": {blob: []byte(`[{"id":"a","status":"WIN","direction":"Long"},` +
			`{"id":"a","status":"LOSS","direction":"Long"}]`)},
	} {
		t.Run(name, func(t *testing.T) {
			s := newSession(t, st, nil)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestSubmitPersistsWholeJournal(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	s := newSession(t, st, nil)

	res := s.Submit(form("2024-03-01", journal.Win, "2"))
	require.True(t, res.Persisted())
	res = s.Submit(form("2024-03-02", journal.BreakEven, "0"))
	require.True(t, res.Persisted())

	assert.Equal(t, 2, st.saves)
	saved, err := journal.DecodeSnapshot(st.blob)
	require.NoError(t, err)
	assert.Equal(t, s.Records(), saved)
	assert.Equal(t, res.Record, saved[1])
}

func TestSubmitSaveFailureKeepsRecord(t *testing.T) {
	t.Parallel()

	st := &memStore{saveErr: errors.New("quota exceeded")}
	s := newSession(t, st, nil)

	res := s.Submit(form("2024-03-01", journal.Win, "2"))
	assert.False(t, res.Persisted())
	assert.EqualError(t, res.SaveErr, "quota exceeded")
	assert.Equal(t, 1, s.Len())

	got, err := s.Find(res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Record, got)
}

func TestSubmitMetrics(t *testing.T) {
	// Not parallel: reads process-wide counters.
	recorded := testutil.ToFloat64(metrics.TradesRecordedTotal)
	saveErrs := testutil.ToFloat64(metrics.SnapshotSaveErrorsTotal)

	s := newSession(t, &memStore{saveErr: errors.New("full")}, nil)
	s.Submit(form("2024-03-01", journal.Win, "2"))

	assert.Equal(t, recorded+1, testutil.ToFloat64(metrics.TradesRecordedTotal))
	assert.Equal(t, saveErrs+1, testutil.ToFloat64(metrics.SnapshotSaveErrorsTotal))
}

func TestSubmitDefaultsDateToClock(t *testing.T) {
	t.Parallel()

	s := newSession(t, &memStore{}, nil)
	res := s.Submit(form("", journal.Win, "1"))
	assert.Equal(t, fixedNow.UnixMilli(), res.Record.Timestamp)
}

func TestFindMissing(t *testing.T) {
	t.Parallel()

	s := newSession(t, &memStore{}, nil)
	_, err := s.Find("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilterViews(t *testing.T) {
	t.Parallel()

	s := newSession(t, &memStore{}, nil)
	s.Submit(form("2024-02-10", journal.Loss, "2"))
	s.Submit(form("2024-03-05", journal.Win, "3"))
	s.Submit(form("2024-03-18", journal.Win, "1"))

	assert.Len(t, s.History(), 3)

	s.ThisMonth()
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.Range().Start)
	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, "2024-03-18", h[0].Time().UTC().Format("2006-01-02"))
	assert.Equal(t, "2024-03-05", h[1].Time().UTC().Format("2006-01-02"))

	d := s.Dashboard()
	assert.Equal(t, 2, d.Stats.TotalTrades)
	assert.InDelta(t, 4.0, d.Stats.NetRR, 1e-9)
	assert.InDelta(t, 100.0, d.Stats.WinRate, 1e-9)

	s.LastMonth()
	d = s.Dashboard()
	assert.Equal(t, 1, d.Stats.TotalTrades)
	assert.InDelta(t, -1.0, d.Stats.NetRR, 1e-9)

	s.SetRange(journal.DateRange{End: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)})
	assert.Len(t, s.Filtered(), 2)

	s.ClearFilter()
	assert.True(t, s.Range().IsOpen())
	assert.Len(t, s.Filtered(), 3)

	// views never change the stored order
	assert.Equal(t, "2024-02-10", s.Records()[0].Time().UTC().Format("2006-01-02"))
}

func TestAnalyzeReturnsCritique(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{text: "  tight stop, good entry \n"}
	s := newSession(t, &memStore{}, a)

	f := form("2024-03-01", journal.Win, "2")
	f.Notes = "waited for the retest"
	f.Screenshot = []byte("\x89PNG\r\n\x1a\n0000")

	text, err := s.Analyze(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "tight stop, good entry", text)
	require.NotNil(t, a.got.Image)
	assert.Equal(t, "image/png", a.got.Image.MIMEType)
	assert.Contains(t, a.got.Prompt, "waited for the retest")
	assert.False(t, s.Analyzing())
}

func TestAnalyzeFailureGivesFallback(t *testing.T) {
	t.Parallel()

	s := newSession(t, &memStore{}, &fakeAnalyzer{err: errors.New("401")})
	text, err := s.Analyze(context.Background(), withNotes(form("", journal.Loss, "1")))
	require.NoError(t, err)
	assert.Equal(t, analysis.FallbackText, text)
}

func TestAnalyzeDisabled(t *testing.T) {
	t.Parallel()

	s := Open(&memStore{}, nil, WithLogger(quiet))
	text, err := s.Analyze(context.Background(), withNotes(form("", journal.Loss, "1")))
	require.NoError(t, err)
	assert.Equal(t, analysis.FallbackText, text)
}

func TestAnalyzeSingleFlight(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{text: "ok", release: make(chan struct{})}
	s := newSession(t, &memStore{}, a)

	done := make(chan string)
	go func() {
		text, _ := s.Analyze(context.Background(), withNotes(form("", journal.Win, "1")))
		done <- text
	}()

	require.Eventually(t, s.Analyzing, time.Second, time.Millisecond)
	_, err := s.Analyze(context.Background(), withNotes(form("", journal.Win, "1")))
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	close(a.release)
	assert.Equal(t, "ok", <-done)
	assert.False(t, s.Analyzing())
}

func TestSubmitWithAnalysis(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	s := newSession(t, st, &fakeAnalyzer{text: "solid"})

	res, err := s.SubmitWithAnalysis(context.Background(), withNotes(form("2024-03-01", journal.Win, "2")))
	require.NoError(t, err)
	assert.Equal(t, "solid", res.Record.AIAnalysis)

	saved, err := journal.DecodeSnapshot(st.blob)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "solid", saved[0].AIAnalysis)
}

func TestImportReplacesJournal(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	s := newSession(t, st, nil)
	s.Submit(form("2024-03-01", journal.Win, "2"))

	other := newSession(t, &memStore{}, nil)
	other.Submit(form("2024-01-01", journal.Loss, "1"))
	other.Submit(form("2024-01-02", journal.Loss, "1"))

	require.NoError(t, s.Import(other.Records()))
	assert.Equal(t, other.Records(), s.Records())

	saved, err := journal.DecodeSnapshot(st.blob)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestClose(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	s := newSession(t, st, nil)
	require.NoError(t, s.Close())
	assert.True(t, st.closed)

	assert.NoError(t, Open(nil, nil, WithLogger(quiet)).Close())
}

func TestAnalyzeNeedsScreenshotOrNotes(t *testing.T) {
	t.Parallel()

	a := &fakeAnalyzer{text: "ok"}
	st := &memStore{}
	s := newSession(t, st, a)

	f := form("2024-03-01", journal.Win, "2")
	f.Notes = "  \n"
	_, err := s.Analyze(context.Background(), f)
	assert.ErrorIs(t, err, ErrNothingToAnalyze)
	assert.Empty(t, a.got.Prompt)
	assert.False(t, s.Analyzing())

	_, err = s.SubmitWithAnalysis(context.Background(), f)
	assert.ErrorIs(t, err, ErrNothingToAnalyze)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, st.saves)

	f.Screenshot = []byte("\xff\xd8\xff\xe0")
	text, err := s.Analyze(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

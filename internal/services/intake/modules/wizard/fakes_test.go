package wizard

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	"github.com/millfloor/chipline/internal/services/intake/platform/modulehandler"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
)

// fakeGateway implements Gateway for tests with configurable receipts, error
// injection, and call recording. A non-nil block channel holds Save open
// until the channel closes, so tests can observe the in-flight phase; a
// non-nil started channel closes once the first call enters Save.
type fakeGateway struct {
	mu          sync.Mutex
	receipt     Receipt
	saveErr     error
	saveCalls   int
	lastOrigin  requestmeta.Origin
	lastPayload Payload
	block       chan struct{}
	started     chan struct{}
	startedOnce sync.Once
}

var _ Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) Save(ctx context.Context, origin requestmeta.Origin, payload Payload) (Receipt, error) {
	f.mu.Lock()
	f.saveCalls++
	f.lastOrigin = origin
	f.lastPayload = payload
	block := f.block
	started := f.started
	f.mu.Unlock()

	if started != nil {
		f.startedOnce.Do(func() { close(started) })
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return Receipt{}, f.saveErr
	}
	if f.receipt == (Receipt{}) {
		return Receipt{Row: 12}, nil
	}
	return f.receipt, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

// memDrafts is an in-memory draft store for handler and service tests.
type memDrafts struct {
	mu       sync.Mutex
	records  map[string]domain.Record
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func newMemDrafts() *memDrafts {
	return &memDrafts{records: make(map[string]domain.Record)}
}

func (m *memDrafts) Load(_ context.Context, sessionID string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.Record{}, m.loadErr
	}
	return m.records[strings.TrimSpace(sessionID)], nil
}

func (m *memDrafts) Save(_ context.Context, sessionID string, record domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records[strings.TrimSpace(sessionID)] = record
	return nil
}

func (m *memDrafts) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	delete(m.records, strings.TrimSpace(sessionID))
	return nil
}

func (m *memDrafts) get(sessionID string) (domain.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[sessionID]
	return record, ok
}

func (m *memDrafts) put(sessionID string, record domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = record
}

// timerRecorder captures clear timers instead of scheduling them so tests
// fire the pending action synchronously.
type timerRecorder struct {
	mu   sync.Mutex
	fns  []func()
	durs []time.Duration
}

func (t *timerRecorder) after(d time.Duration, fn func()) *time.Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.durs = append(t.durs, d)
	t.fns = append(t.fns, fn)
	return time.NewTimer(time.Hour)
}

func (t *timerRecorder) armed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.fns)
}

func (t *timerRecorder) fireLast() {
	t.mu.Lock()
	var fn func()
	if len(t.fns) > 0 {
		fn = t.fns[len(t.fns)-1]
	}
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

const testSessionID = "station-1"

func wizardTestBase() modulehandler.Base {
	return modulehandler.NewBase(func(*http.Request) string { return testSessionID }, nil)
}

func testCatalog() domain.Options {
	return domain.Options{
		Products:     []string{"PET Clear", "HDPE Natural"},
		Destinations: []string{"Extruder 1", "Warehouse"},
		Purchased:    []string{"Regrind A", "Virgin PP"},
	}
}

// validDraft returns a record that passes every wizard rule against
// testCatalog.
func validDraft() domain.Record {
	return domain.Record{
		ChipType:     domain.ChipTypeBox,
		BoxNumber:    "B12",
		Product:      "PET Clear",
		NetWeight:    "120.5",
		OperatorName: "Ada Moreira",
		Destination:  "Extruder 1",
	}
}

package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	apperrors "github.com/millfloor/chipline/internal/services/intake/platform/errors"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/storage"
)

// defaultClearDelay is how long a saved confirmation stays on screen before
// the wizard resets for the next record.
const defaultClearDelay = 3 * time.Second

// submitPhase tracks where a session's submission stands.
type submitPhase int

const (
	phaseIdle submitPhase = iota
	phaseInFlight
	phaseSaved
)

// submitStatus reports how a submit attempt resolved.
type submitStatus int

const (
	submitSaved submitStatus = iota
	submitInFlight
	submitAlreadySaved
	submitBlocked
)

// submitResult carries the outcome the handler turns into a redirect. guard
// is set when status is submitBlocked.
type submitResult struct {
	status  submitStatus
	guard   domain.GuardResult
	receipt Receipt
}

// identityInput carries the step-one form fields as posted.
type identityInput struct {
	ChipType     string
	BoxNumber    string
	BulkSilo     string
	Purchased    string
	Product      string
	NetWeight    string
	OperatorName string
}

// sessionState holds the per-session submit lifecycle. A session has at most
// one in-flight submission and at most one pending clear timer.
type sessionState struct {
	phase      submitPhase
	receipt    Receipt
	clearTimer *time.Timer
}

type service struct {
	gateway    Gateway
	drafts     storage.DraftStore
	options    domain.Options
	clearDelay time.Duration
	after      func(time.Duration, func()) *time.Timer
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func newService(gateway Gateway, drafts storage.DraftStore, options domain.Options, clearDelay time.Duration) *service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if drafts == nil {
		drafts = unavailableDrafts{}
	}
	if clearDelay <= 0 {
		clearDelay = defaultClearDelay
	}
	return &service{
		gateway:    gateway,
		drafts:     drafts,
		options:    options,
		clearDelay: clearDelay,
		after:      time.AfterFunc,
		now:        time.Now,
		sessions:   make(map[string]*sessionState),
	}
}

// requireSessionID validates and returns a trimmed session ID, or returns an
// invalid-input error if it is blank.
func requireSessionID(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", apperrors.EK(apperrors.KindInvalidInput, "core.error_session_required", "station session is required")
	}
	return sessionID, nil
}

func (s *service) catalogOptions() domain.Options { return s.options }

func (s *service) clearAfter() time.Duration { return s.clearDelay }

func (s *service) loadDraft(ctx context.Context, sessionID string) (domain.Record, error) {
	resolvedID, err := requireSessionID(sessionID)
	if err != nil {
		return domain.Record{}, err
	}
	return s.drafts.Load(ctx, resolvedID)
}

// beginNextRecord prepares the identity step. Entering it while the previous
// record sits in the saved window starts the next record immediately: the
// pending clear is cancelled and the draft is cleared now instead of when the
// timer fires.
func (s *service) beginNextRecord(ctx context.Context, sessionID string) (domain.Record, error) {
	resolvedID, err := requireSessionID(sessionID)
	if err != nil {
		return domain.Record{}, err
	}

	s.mu.Lock()
	st, ok := s.sessions[resolvedID]
	saved := ok && st.phase == phaseSaved
	if saved {
		if st.clearTimer != nil {
			st.clearTimer.Stop()
		}
		delete(s.sessions, resolvedID)
	}
	s.mu.Unlock()

	if saved {
		if err := s.drafts.Clear(ctx, resolvedID); err != nil {
			return domain.Record{}, err
		}
		return domain.Record{}, nil
	}
	return s.drafts.Load(ctx, resolvedID)
}

// applyIdentity merges the posted step-one fields into the session draft and
// persists them when they validate. The returned record always reflects the
// merged input so a failed validation can re-render the form as posted.
func (s *service) applyIdentity(ctx context.Context, sessionID string, input identityInput) (domain.Record, error) {
	resolvedID, err := requireSessionID(sessionID)
	if err != nil {
		return domain.Record{}, err
	}
	record, err := s.drafts.Load(ctx, resolvedID)
	if err != nil {
		return domain.Record{}, err
	}

	chipType, _ := domain.ParseChipType(input.ChipType)
	record = record.WithChipType(chipType)
	switch chipType {
	case domain.ChipTypeBox:
		record.BoxNumber = strings.TrimSpace(input.BoxNumber)
	case domain.ChipTypeBulk:
		record.BulkSilo = strings.TrimSpace(input.BulkSilo)
	case domain.ChipTypePurchased:
		record.Purchased = strings.TrimSpace(input.Purchased)
	}
	record.Product = strings.TrimSpace(input.Product)
	record.NetWeight = strings.TrimSpace(input.NetWeight)
	record.OperatorName = strings.TrimSpace(input.OperatorName)
	// An edited draft is no longer the record that was saved.
	record.SavedAt = time.Time{}

	if err := domain.ValidateIdentity(record, s.options); err != nil {
		return record, err
	}
	if err := s.drafts.Save(ctx, resolvedID, record); err != nil {
		return record, err
	}
	return record, nil
}

// applyDestination stores the posted destination when it validates.
func (s *service) applyDestination(ctx context.Context, sessionID string, destination string) (domain.Record, error) {
	resolvedID, err := requireSessionID(sessionID)
	if err != nil {
		return domain.Record{}, err
	}
	record, err := s.drafts.Load(ctx, resolvedID)
	if err != nil {
		return domain.Record{}, err
	}

	record.Destination = strings.TrimSpace(destination)
	record.SavedAt = time.Time{}

	if err := domain.ValidateDestination(record, s.options); err != nil {
		return record, err
	}
	if err := s.drafts.Save(ctx, resolvedID, record); err != nil {
		return record, err
	}
	return record, nil
}

// submit drives the session's submit lifecycle: idle moves to in flight for
// the duration of the ledger call, then to saved on success with a clear
// timer armed, or back to idle on any failure. Re-entrant submits while the
// phase is not idle are no-ops.
func (s *service) submit(ctx context.Context, sessionID string, origin requestmeta.Origin) (submitResult, error) {
	resolvedID, err := requireSessionID(sessionID)
	if err != nil {
		return submitResult{}, err
	}

	s.mu.Lock()
	st := s.sessionLocked(resolvedID)
	switch st.phase {
	case phaseInFlight:
		s.mu.Unlock()
		return submitResult{status: submitInFlight}, nil
	case phaseSaved:
		receipt := st.receipt
		s.mu.Unlock()
		return submitResult{status: submitAlreadySaved, receipt: receipt}, nil
	}
	st.phase = phaseInFlight
	s.mu.Unlock()

	record, err := s.drafts.Load(ctx, resolvedID)
	if err != nil {
		s.resetPhase(resolvedID)
		return submitResult{}, err
	}

	// The submit path never trusts stored state; every rule runs again.
	guard := domain.GuardEnter(domain.StepReview, record, s.options)
	if !guard.Allowed {
		s.resetPhase(resolvedID)
		return submitResult{status: submitBlocked, guard: guard}, nil
	}

	receipt, err := s.gateway.Save(ctx, origin, payloadFromRecord(record))
	if err != nil {
		s.resetPhase(resolvedID)
		return submitResult{}, err
	}

	record.SavedAt = s.now().UTC()
	// Ledger acceptance is authoritative; the clear timer removes the local
	// draft shortly regardless of this write.
	_ = s.drafts.Save(ctx, resolvedID, record)

	s.mu.Lock()
	st = s.sessionLocked(resolvedID)
	st.phase = phaseSaved
	st.receipt = receipt
	if st.clearTimer != nil {
		st.clearTimer.Stop()
	}
	st.clearTimer = s.after(s.clearDelay, func() { s.finishSaved(resolvedID) })
	s.mu.Unlock()

	return submitResult{status: submitSaved, receipt: receipt}, nil
}

// submitState reports the session's current phase and saved receipt.
func (s *service) submitState(sessionID string) (submitPhase, Receipt) {
	sessionID = strings.TrimSpace(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return phaseIdle, Receipt{}
	}
	return st.phase, st.receipt
}

// sessionLocked returns the session's lifecycle state, creating it if absent.
// Callers must hold mu.
func (s *service) sessionLocked(sessionID string) *sessionState {
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	return st
}

// resetPhase drops the session back to idle. Failed submissions never carry
// a timer, so deleting the entry is enough.
func (s *service) resetPhase(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// finishSaved runs when the clear timer fires: the draft is removed and the
// session returns to idle, so the next identity view is an empty form.
func (s *service) finishSaved(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.drafts.Clear(context.Background(), sessionID)
}

// unavailableDrafts stands in when no draft store is wired.
type unavailableDrafts struct{}

func (unavailableDrafts) Load(context.Context, string) (domain.Record, error) {
	return domain.Record{}, apperrors.E(apperrors.KindUnavailable, "draft storage is not configured")
}

func (unavailableDrafts) Save(context.Context, string, domain.Record) error {
	return apperrors.E(apperrors.KindUnavailable, "draft storage is not configured")
}

func (unavailableDrafts) Clear(context.Context, string) error {
	return apperrors.E(apperrors.KindUnavailable, "draft storage is not configured")
}

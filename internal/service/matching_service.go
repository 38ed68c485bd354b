package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"quickdoc/config"
	"quickdoc/internal/domain/entity"
	"quickdoc/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// MatchingEngine evaluates standby preferences against slot-opened events
// and hands notification candidates to the Dispatcher.
//
// Each event is processed at most once (dedup by event id through the
// NotifyLimiter), the fan-out over patients is bounded, and a shutdown
// lets in-flight per-patient evaluations finish without starting new ones.
type MatchingEngine struct {
	db          *gorm.DB
	log         *logrus.Logger
	cfg         config.MatchConfig
	slotRepo    repository.SlotRepository
	prefRepo    repository.PreferenceRepository
	confirmRepo repository.ConfirmationRepository
	limiter     NotifyLimiter
	dispatcher  Dispatcher

	// Dispatch accounting; delivery itself is the gateway's concern.
	dispatched       atomic.Int64
	dispatchFailures atomic.Int64

	// Graceful shutdown. The mutex orders Publish's wg.Add against Stop's
	// wg.Wait; checking a flag alone would let an Add slip in after Wait
	// started on a zero counter.
	rootCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func NewMatchingEngine(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.MatchConfig,
	slotRepo repository.SlotRepository,
	prefRepo repository.PreferenceRepository,
	confirmRepo repository.ConfirmationRepository,
	limiter NotifyLimiter,
	dispatcher Dispatcher,
) *MatchingEngine {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 8
	}
	rootCtx, cancel := context.WithCancel(context.Background())
	return &MatchingEngine{
		db:          db,
		log:         log,
		cfg:         cfg,
		slotRepo:    slotRepo,
		prefRepo:    prefRepo,
		confirmRepo: confirmRepo,
		limiter:     limiter,
		dispatcher:  dispatcher,
		rootCtx:     rootCtx,
		cancel:      cancel,
	}
}

// Publish hands a slot-opened event to the engine without blocking the
// caller. Booking and cancellation paths must never wait on matching.
func (e *MatchingEngine) Publish(event entity.SlotOpenedEvent) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.log.Warnf("Matching engine stopped, dropping event %s", event.EventID)
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		if _, err := e.Process(e.rootCtx, event); err != nil {
			e.log.Warnf("Failed processing slot-opened event %s: %+v", event.EventID, err)
		}
	}()
}

// Process evaluates one slot-opened event and returns the candidate set.
// Candidate order is unspecified. Safe to call with a re-delivered event:
// the second delivery yields no candidates and no counter changes.
func (e *MatchingEngine) Process(ctx context.Context, event entity.SlotOpenedEvent) ([]entity.Candidate, error) {
	first, err := e.limiter.FirstDelivery(ctx, event.EventID)
	if err != nil {
		return nil, err
	}
	if !first {
		e.log.Debugf("Event %s already processed, skipping", event.EventID)
		return nil, nil
	}

	slot, err := e.slotRepo.FindByID(ctx, e.db, event.SlotID)
	if err != nil {
		e.releaseDelivery(ctx, event.EventID)
		return nil, err
	}
	if slot == nil || !slot.IsOpen() {
		e.log.Debugf("Slot %s not open anymore, skipping event %s", event.SlotID, event.EventID)
		return nil, nil
	}

	prefs, err := e.prefRepo.ListEnabledStandby(ctx, e.db)
	if err != nil {
		e.releaseDelivery(ctx, event.EventID)
		return nil, err
	}

	now := time.Now().UTC()

	var mu sync.Mutex
	var candidates []entity.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxParallel)

	for _, pref := range prefs {
		// Cooperative cancellation: in-flight evaluations finish, no new
		// ones start.
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			candidate, ok := e.evaluate(gctx, &pref, slot, now)
			if ok {
				mu.Lock()
				candidates = append(candidates, candidate)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return candidates, err
	}

	e.log.Infof("Event %s: %d candidates for slot %s", event.EventID, len(candidates), slot.ID)
	return candidates, nil
}

// evaluate runs the full per-patient pipeline: standby predicate, DND
// suppression, daily cap, confirmation token, dispatch. Per-patient
// failures are logged and swallowed so one patient cannot sink the event.
func (e *MatchingEngine) evaluate(ctx context.Context, pref *entity.StandbyPreference, slot *entity.Slot, now time.Time) (entity.Candidate, bool) {
	if !pref.Matches(slot) {
		return entity.Candidate{}, false
	}

	dnd, err := e.prefRepo.FindDnd(ctx, e.db, pref.PatientID)
	if err != nil {
		e.log.Warnf("Failed to load DND for patient %s: %+v", pref.PatientID, err)
		return entity.Candidate{}, false
	}
	if dnd.Suppresses(slot, now) {
		e.log.Debugf("Patient %s suppressed by DND", pref.PatientID)
		return entity.Candidate{}, false
	}

	allowed, err := e.limiter.ReserveQuota(ctx, pref.PatientID, now, pref.DailyCap(e.cfg.DefaultDailyCap))
	if err != nil {
		e.log.Warnf("Failed quota check for patient %s: %+v", pref.PatientID, err)
		return entity.Candidate{}, false
	}
	if !allowed {
		e.log.Debugf("Patient %s at daily notification cap", pref.PatientID)
		return entity.Candidate{}, false
	}

	confirmation := &entity.SlotConfirmation{
		Token:     uuid.New(),
		SlotID:    slot.ID,
		PatientID: pref.PatientID,
		ExpiresAt: now.Add(e.confirmationTTL()),
	}
	if err := e.confirmRepo.Create(ctx, e.db, confirmation); err != nil {
		e.log.Warnf("Failed to create confirmation for patient %s: %+v", pref.PatientID, err)
		return entity.Candidate{}, false
	}

	candidate := entity.Candidate{
		PatientID: pref.PatientID,
		SlotID:    slot.ID,
		Token:     confirmation.Token,
	}

	// Best-effort dispatch. The quota reservation stands even on failure;
	// a failed send still consumes a daily slot.
	if err := e.dispatcher.Notify(ctx, candidate); err != nil {
		e.dispatchFailures.Add(1)
		e.log.Warnf("Dispatch failed for patient %s, slot %s: %+v", pref.PatientID, slot.ID, err)
	} else {
		e.dispatched.Add(1)
	}

	return candidate, true
}

// releaseDelivery gives the event id back after a transient failure so a
// re-delivered event is not rejected as a duplicate.
func (e *MatchingEngine) releaseDelivery(ctx context.Context, eventID uuid.UUID) {
	if err := e.limiter.ReleaseDelivery(ctx, eventID); err != nil {
		e.log.Warnf("Failed to release event %s for retry: %+v", eventID, err)
	}
}

func (e *MatchingEngine) confirmationTTL() time.Duration {
	if e.cfg.ConfirmationTTL > 0 {
		return e.cfg.ConfirmationTTL
	}
	return 2 * time.Hour
}

// DispatchCounts returns total successful and failed dispatch attempts
func (e *MatchingEngine) DispatchCounts() (sent int64, failed int64) {
	return e.dispatched.Load(), e.dispatchFailures.Load()
}

// Stop cancels event processing and waits for in-flight evaluations.
// Safe to call multiple times.
func (e *MatchingEngine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
	e.log.Info("MatchingEngine stopped")
}

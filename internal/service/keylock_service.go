package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	lockCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// SlotLockKey is the critical-section key serializing book/cancel calls
// on a single slot.
func SlotLockKey(slotID uuid.UUID) string {
	return "slot:" + slotID.String()
}

// ScheduleLockKey is the critical-section key serializing the overlap
// check-and-insert for one doctor's calendar day.
func ScheduleLockKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("sched:%s:%s", doctorID, date.Format(entity.DateLayout))
}

// KeyLockService hands out in-process mutual-exclusion scopes keyed by
// string. Two operations on different keys never block each other; two
// operations on the same key are strictly serialized.
//
// Mutexes are created on demand and swept in the background once idle,
// so the map does not grow with the total number of slots ever seen.
type KeyLockService struct {
	log *logrus.Logger

	locks sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewKeyLockService creates a KeyLockService and starts the background
// staleness sweeper. Call Stop() during graceful shutdown.
func NewKeyLockService(log *logrus.Logger) *KeyLockService {
	svc := &KeyLockService{
		log:      log,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupLoop()

	return svc
}

// Acquire blocks until the key's critical section is held and returns the
// release function. Callers must release, typically via defer.
func (s *KeyLockService) Acquire(key string) func() {
	mt := s.getLock(key)
	mt.mu.Lock()
	return mt.mu.Unlock
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *KeyLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("KeyLockService stopped")
	}
}

func (s *KeyLockService) getLock(key string) *mutexWithTimestamp {
	mt, _ := s.locks.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *KeyLockService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupStaleLocks()
		}
	}
}

// cleanupStaleLocks removes unused mutexes using TryLock for safety.
// The lastUsed check happens inside the lock so a concurrent Acquire
// cannot race the deletion.
func (s *KeyLockService) cleanupStaleLocks() {
	cutoffTime := time.Now().Add(-lockStaleThreshold).Unix()
	var cleaned int

	s.locks.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.locks.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale key locks", cleaned)
	}
}

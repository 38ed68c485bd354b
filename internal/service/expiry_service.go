package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"quickdoc/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const expiryScanTimeout = 30 * time.Second

// ExpiryScanner periodically transitions overdue open slots to expired.
// The scan is idempotent and races safely with concurrent bookings: a
// book call guards the same condition under the per-slot lock.
type ExpiryScanner struct {
	db       *gorm.DB
	log      *logrus.Logger
	slotRepo repository.SlotRepository
	interval time.Duration

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewExpiryScanner(db *gorm.DB, log *logrus.Logger, slotRepo repository.SlotRepository, interval time.Duration) *ExpiryScanner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryScanner{
		db:       db,
		log:      log,
		slotRepo: slotRepo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background scan loop
func (s *ExpiryScanner) Start() {
	s.wg.Add(1)
	go s.scanLoop()
	s.log.Infof("Expiry scanner started, interval=%v", s.interval)
}

// Stop gracefully shuts down the scanner. Safe to call multiple times.
func (s *ExpiryScanner) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ExpiryScanner stopped")
	}
}

func (s *ExpiryScanner) scanLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.scanOnce()
		}
	}
}

func (s *ExpiryScanner) scanOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), expiryScanTimeout)
	defer cancel()

	expired, err := s.slotRepo.ExpireDue(ctx, s.db, time.Now().UTC())
	if err != nil {
		s.log.Warnf("Expiry scan failed: %+v", err)
		return
	}
	if expired > 0 {
		s.log.Infof("Expired %d overdue slots", expired)
	}
}

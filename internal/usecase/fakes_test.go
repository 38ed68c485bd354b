package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"quickdoc/internal/domain/entity"
	"quickdoc/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// In-memory repositories mirroring the SQL semantics: the conditional
// updates behave like single-row compare-and-swap statements. Usecases
// never touch the *gorm.DB themselves, so nil is safe here.

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*entity.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*entity.Slot)}
}

func (r *fakeSlotRepo) add(slot *entity.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
}

func (r *fakeSlotRepo) get(id uuid.UUID) entity.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.slots[id]
}

func (r *fakeSlotRepo) Create(ctx context.Context, db *gorm.DB, slot *entity.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.SlotFilter) ([]entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Slot
	for _, slot := range r.slots {
		if filter != nil {
			if filter.Status != "" && slot.Status != filter.Status {
				continue
			}
			if filter.ClinicID != nil && slot.ClinicID != *filter.ClinicID {
				continue
			}
			if filter.DoctorID != nil && slot.DoctorID != *filter.DoctorID {
				continue
			}
		}
		out = append(out, *slot)
	}
	return out, nil
}

func (r *fakeSlotRepo) FindOverlapping(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time, startTime, endTime string) (*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range r.slots {
		if slot.DoctorID != doctorID || !slot.Date.Equal(date) {
			continue
		}
		if slot.Status == entity.SlotStatusCancelled {
			continue
		}
		if slot.OverlapsInterval(startTime, endTime) {
			copied := *slot
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSlotRepo) MarkBooked(ctx context.Context, db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok || slot.Status != entity.SlotStatusOpen {
		return 0, nil
	}
	slot.Status = entity.SlotStatusBooked
	slot.BookedBy = &patientID
	return 1, nil
}

func (r *fakeSlotRepo) TransitionStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.SlotStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok || slot.Status != from {
		return 0, nil
	}
	slot.Status = to
	if to == entity.SlotStatusOpen {
		slot.BookedBy = nil
	}
	return 1, nil
}

func (r *fakeSlotRepo) ExpireDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for _, slot := range r.slots {
		if slot.DueForExpiry(now) {
			slot.Status = entity.SlotStatusExpired
			expired++
		}
	}
	return expired, nil
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*entity.Booking
	slots     *fakeSlotRepo
	createErr error
}

func newFakeBookingRepo(slots *fakeSlotRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		slots:    slots,
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	booking, ok := r.bookings[id]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	copied := *booking
	r.mu.Unlock()

	// Mirror the SQL preload of the booked slot
	if slot, _ := r.slots.FindByID(ctx, db, copied.SlotID); slot != nil {
		copied.Slot = *slot
	}
	return &copied, nil
}

func (r *fakeBookingRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for _, booking := range r.bookings {
		if booking.PatientID == patientID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByClinicID(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for _, booking := range r.bookings {
		if slot, _ := r.slots.FindByID(ctx, db, booking.SlotID); slot != nil && slot.ClinicID == clinicID {
			copied := *booking
			copied.Slot = *slot
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok || booking.Cancelled {
		return 0, nil
	}
	now := time.Now().UTC()
	booking.Cancelled = true
	booking.CancelledAt = &now
	return 1, nil
}

type fakePreferenceRepo struct {
	mu      sync.Mutex
	standby map[uuid.UUID]*entity.StandbyPreference
	dnd     map[uuid.UUID]*entity.DndPreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{
		standby: make(map[uuid.UUID]*entity.StandbyPreference),
		dnd:     make(map[uuid.UUID]*entity.DndPreference),
	}
}

func (r *fakePreferenceRepo) FindStandby(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.StandbyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pref, ok := r.standby[patientID]
	if !ok {
		return nil, nil
	}
	copied := *pref
	return &copied, nil
}

func (r *fakePreferenceRepo) UpsertStandby(ctx context.Context, db *gorm.DB, pref *entity.StandbyPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pref
	r.standby[pref.PatientID] = &copied
	return nil
}

func (r *fakePreferenceRepo) ListEnabledStandby(ctx context.Context, db *gorm.DB) ([]entity.StandbyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.StandbyPreference
	for _, pref := range r.standby {
		if pref.Enabled {
			out = append(out, *pref)
		}
	}
	return out, nil
}

func (r *fakePreferenceRepo) FindDnd(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (*entity.DndPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pref, ok := r.dnd[patientID]
	if !ok {
		return nil, nil
	}
	copied := *pref
	return &copied, nil
}

func (r *fakePreferenceRepo) UpsertDnd(ctx context.Context, db *gorm.DB, pref *entity.DndPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pref
	r.dnd[pref.PatientID] = &copied
	return nil
}

type fakeConfirmationRepo struct {
	mu            sync.Mutex
	confirmations map[uuid.UUID]*entity.SlotConfirmation
}

func newFakeConfirmationRepo() *fakeConfirmationRepo {
	return &fakeConfirmationRepo{confirmations: make(map[uuid.UUID]*entity.SlotConfirmation)}
}

func (r *fakeConfirmationRepo) add(confirmation *entity.SlotConfirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations[confirmation.Token] = confirmation
}

func (r *fakeConfirmationRepo) Create(ctx context.Context, db *gorm.DB, confirmation *entity.SlotConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *confirmation
	r.confirmations[confirmation.Token] = &copied
	return nil
}

func (r *fakeConfirmationRepo) FindByToken(ctx context.Context, db *gorm.DB, token uuid.UUID) (*entity.SlotConfirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	confirmation, ok := r.confirmations[token]
	if !ok {
		return nil, nil
	}
	copied := *confirmation
	return &copied, nil
}

func (r *fakeConfirmationRepo) MarkUsed(ctx context.Context, db *gorm.DB, token uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	confirmation, ok := r.confirmations[token]
	if !ok || confirmation.Used {
		return 0, nil
	}
	confirmation.Used = true
	return 1, nil
}

// recordingPublisher captures slot-opened events synchronously.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.SlotOpenedEvent
}

func (p *recordingPublisher) Publish(event entity.SlotOpenedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []entity.SlotOpenedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.SlotOpenedEvent(nil), p.events...)
}

func newTestLocks(t *testing.T) *service.KeyLockService {
	t.Helper()
	locks := service.NewKeyLockService(logrus.New())
	t.Cleanup(locks.Stop)
	return locks
}

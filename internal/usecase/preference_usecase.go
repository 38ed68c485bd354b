package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"quickdoc/internal/converter"
	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"
	"quickdoc/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidPreference = errors.New("invalid preference ranges")

var weekdayNames = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

type PreferenceUsecase interface {
	GetStandby(ctx context.Context, principal entity.Principal) (*dto.StandbyResponse, error)
	SetStandby(ctx context.Context, principal entity.Principal, req *dto.StandbyRequest) (*dto.StandbyResponse, error)
	GetDnd(ctx context.Context, principal entity.Principal) (*dto.DndResponse, error)
	SetDnd(ctx context.Context, principal entity.Principal, req *dto.DndRequest) (*dto.DndResponse, error)
}

type preferenceUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	prefRepo        repository.PreferenceRepository
	defaultDailyCap int
}

func NewPreferenceUsecase(db *gorm.DB, log *logrus.Logger, prefRepo repository.PreferenceRepository, defaultDailyCap int) PreferenceUsecase {
	if defaultDailyCap <= 0 {
		defaultDailyCap = 3
	}
	return &preferenceUsecase{
		db:              db,
		log:             log,
		prefRepo:        prefRepo,
		defaultDailyCap: defaultDailyCap,
	}
}

// GetStandby returns the patient's standby preference, or the disabled
// default when none has been saved yet.
func (u *preferenceUsecase) GetStandby(ctx context.Context, principal entity.Principal) (*dto.StandbyResponse, error) {
	pref, err := u.prefRepo.FindStandby(ctx, u.db, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find standby for patient %s: %+v", principal.UserID, err)
		return nil, err
	}
	return converter.StandbyToResponse(pref), nil
}

// SetStandby atomically replaces the patient's standby preference
func (u *preferenceUsecase) SetStandby(ctx context.Context, principal entity.Principal, req *dto.StandbyRequest) (*dto.StandbyResponse, error) {
	startDate, err := time.Parse(entity.DateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidPreference
	}
	endDate, err := time.Parse(entity.DateLayout, req.EndDate)
	if err != nil {
		return nil, ErrInvalidPreference
	}
	if startDate.After(endDate) {
		return nil, ErrInvalidPreference
	}
	if !entity.ValidTimeOfDay(req.StartTime) || !entity.ValidTimeOfDay(req.EndTime) || req.StartTime >= req.EndTime {
		return nil, ErrInvalidPreference
	}
	if req.MaxNotificationsPerDay < 0 {
		return nil, ErrInvalidPreference
	}

	cap := req.MaxNotificationsPerDay
	if cap == 0 {
		cap = u.defaultDailyCap
	}

	pref := &entity.StandbyPreference{
		PatientID:              principal.UserID,
		Enabled:                req.Enabled,
		Specialty:              req.Specialty,
		City:                   req.City,
		Languages:              strings.Join(req.Languages, ","),
		StartDate:              startDate,
		EndDate:                endDate,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		MaxNotificationsPerDay: cap,
	}

	if err := u.prefRepo.UpsertStandby(ctx, u.db, pref); err != nil {
		u.log.Warnf("Failed to upsert standby for patient %s: %+v", principal.UserID, err)
		return nil, err
	}

	u.log.Infof("Standby updated: patient=%s, enabled=%t", principal.UserID, pref.Enabled)
	return converter.StandbyToResponse(pref), nil
}

// GetDnd returns the patient's DND preference, or the inactive default
// when none has been saved yet.
func (u *preferenceUsecase) GetDnd(ctx context.Context, principal entity.Principal) (*dto.DndResponse, error) {
	pref, err := u.prefRepo.FindDnd(ctx, u.db, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find DND for patient %s: %+v", principal.UserID, err)
		return nil, err
	}
	return converter.DndToResponse(pref), nil
}

// SetDnd atomically replaces the patient's DND preference
func (u *preferenceUsecase) SetDnd(ctx context.Context, principal entity.Principal, req *dto.DndRequest) (*dto.DndResponse, error) {
	days := make([]string, 0, len(req.Days))
	for _, day := range req.Days {
		canonical, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]
		if !ok {
			return nil, ErrInvalidPreference
		}
		days = append(days, canonical)
	}

	ranges := make(entity.TimeRanges, 0, len(req.TimeRanges))
	for _, r := range req.TimeRanges {
		if !entity.ValidTimeOfDay(r.From) || !entity.ValidTimeOfDay(r.To) || r.From >= r.To {
			return nil, ErrInvalidPreference
		}
		ranges = append(ranges, entity.TimeRange{From: r.From, To: r.To})
	}

	var pauseUntil *time.Time
	if req.PauseUntil != "" {
		parsed, err := time.Parse(time.RFC3339, req.PauseUntil)
		if err != nil {
			return nil, ErrInvalidPreference
		}
		pauseUntil = &parsed
	}

	pref := &entity.DndPreference{
		PatientID:  principal.UserID,
		Paused:     req.Paused,
		PauseUntil: pauseUntil,
		Days:       strings.Join(days, ","),
		TimeRanges: ranges,
	}

	if err := u.prefRepo.UpsertDnd(ctx, u.db, pref); err != nil {
		u.log.Warnf("Failed to upsert DND for patient %s: %+v", principal.UserID, err)
		return nil, err
	}

	u.log.Infof("DND updated: patient=%s, paused=%t", principal.UserID, pref.Paused)
	return converter.DndToResponse(pref), nil
}

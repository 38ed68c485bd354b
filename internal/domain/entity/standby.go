package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StandbyPreference is a patient's standing request to be notified about
// newly-opened slots matching their criteria. One row per patient,
// last write wins.
type StandbyPreference struct {
	PatientID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	Enabled                bool      `gorm:"not null;default:false;index" json:"enabled"`
	Specialty              string    `gorm:"type:varchar(50)" json:"specialty,omitempty"`
	City                   string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Languages              string    `gorm:"type:varchar(200)" json:"languages,omitempty"` // CSV, e.g. "English,French"
	StartDate              time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate                time.Time `gorm:"type:date;not null" json:"end_date"`
	StartTime              string    `gorm:"type:time;not null" json:"start_time"`
	EndTime                string    `gorm:"type:time;not null" json:"end_time"`
	MaxNotificationsPerDay int       `gorm:"not null;default:3" json:"max_notifications_per_day"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StandbyPreference) TableName() string {
	return "standby_preferences"
}

// LanguageList splits the CSV languages column into a slice
func (p *StandbyPreference) LanguageList() []string {
	if p.Languages == "" {
		return nil
	}
	parts := strings.Split(p.Languages, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DailyCap returns the per-day notification limit, falling back to def
// when the stored value is not positive.
func (p *StandbyPreference) DailyCap(def int) int {
	if p.MaxNotificationsPerDay > 0 {
		return p.MaxNotificationsPerDay
	}
	return def
}

// Matches evaluates the standby predicate against a slot. Unset filter
// fields (specialty, city, languages) match anything; the date and
// time-of-day ranges are always enforced.
func (p *StandbyPreference) Matches(slot *Slot) bool {
	if !p.Enabled {
		return false
	}
	if p.Specialty != "" && !strings.EqualFold(p.Specialty, slot.Specialization) {
		return false
	}
	if p.City != "" && !strings.EqualFold(p.City, slot.City) {
		return false
	}
	if langs := p.LanguageList(); len(langs) > 0 {
		found := false
		for _, lang := range langs {
			if strings.EqualFold(lang, slot.Language) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !SameOrBetweenDates(slot.Date, p.StartDate, p.EndDate) {
		return false
	}
	return TimeOfDayInRange(slot.StartTime, p.StartTime, p.EndTime)
}

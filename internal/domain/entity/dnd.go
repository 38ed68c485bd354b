package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeRange is a single HH:MM suppression window within a day
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TimeRanges is stored as a JSONB array
type TimeRanges []TimeRange

// Value returns json value, implement driver.Valuer interface
func (t TimeRanges) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan scan value into TimeRanges, implements sql.Scanner interface
func (t *TimeRanges) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	var result []TimeRange
	err := json.Unmarshal(bytes, &result)
	*t = TimeRanges(result)
	return err
}

// DndPreference is a patient's do-not-disturb schedule. Any configured
// suppression window masks standby matching; DND always wins.
type DndPreference struct {
	PatientID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"patient_id"`
	Paused     bool       `gorm:"not null;default:false" json:"paused"`
	PauseUntil *time.Time `json:"pause_until,omitempty"`
	Days       string     `gorm:"type:varchar(100)" json:"days,omitempty"` // CSV weekday names, e.g. "Saturday,Sunday"
	TimeRanges TimeRanges `gorm:"type:jsonb" json:"time_ranges,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DndPreference) TableName() string {
	return "dnd_preferences"
}

// DayList splits the CSV days column into a slice
func (d *DndPreference) DayList() []string {
	if d.Days == "" {
		return nil
	}
	parts := strings.Split(d.Days, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Suppresses reports whether this DND configuration masks a notification
// for the given slot at the given instant.
//
// A pause with no pause_until suppresses indefinitely; a pause with a
// future pause_until suppresses until that instant. Otherwise the slot is
// suppressed when its weekday is in the DND day set and its start time
// falls inside any configured time range.
func (d *DndPreference) Suppresses(slot *Slot, now time.Time) bool {
	if d == nil {
		return false
	}

	if d.Paused {
		if d.PauseUntil == nil || now.Before(*d.PauseUntil) {
			return true
		}
	}

	weekday := slot.Date.Weekday().String()
	dayMatch := false
	for _, day := range d.DayList() {
		if strings.EqualFold(day, weekday) {
			dayMatch = true
			break
		}
	}
	if !dayMatch {
		return false
	}

	// A matching day with no configured ranges blocks the whole day.
	if len(d.TimeRanges) == 0 {
		return true
	}
	for _, r := range d.TimeRanges {
		if TimeOfDayInRange(slot.StartTime, r.From, r.To) {
			return true
		}
	}
	return false
}

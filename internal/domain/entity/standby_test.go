package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func matchableSlot() *Slot {
	return &Slot{
		Date:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), // a Saturday
		StartTime:      "10:00",
		EndTime:        "10:30",
		Language:       "English",
		Specialization: "Dentist",
		City:           "Berlin",
		Status:         SlotStatusOpen,
	}
}

func matchingPreference() *StandbyPreference {
	return &StandbyPreference{
		Enabled:   true,
		Specialty: "Dentist",
		City:      "Berlin",
		Languages: "English,French",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		StartTime: "08:00",
		EndTime:   "18:00",
	}
}

func TestStandbyMatches(t *testing.T) {
	assert.True(t, matchingPreference().Matches(matchableSlot()))
}

func TestStandbyMatchesDisabled(t *testing.T) {
	pref := matchingPreference()
	pref.Enabled = false
	assert.False(t, pref.Matches(matchableSlot()))
}

func TestStandbyMatchesSpecialty(t *testing.T) {
	pref := matchingPreference()
	pref.Specialty = "Cardiologist"
	assert.False(t, pref.Matches(matchableSlot()))

	// Case-insensitive comparison
	pref.Specialty = "dentist"
	assert.True(t, pref.Matches(matchableSlot()))

	// Unset specialty matches anything
	pref.Specialty = ""
	assert.True(t, pref.Matches(matchableSlot()))
}

func TestStandbyMatchesCity(t *testing.T) {
	pref := matchingPreference()
	pref.City = "Munich"
	assert.False(t, pref.Matches(matchableSlot()))

	pref.City = ""
	assert.True(t, pref.Matches(matchableSlot()))
}

func TestStandbyMatchesLanguages(t *testing.T) {
	pref := matchingPreference()
	pref.Languages = "German"
	assert.False(t, pref.Matches(matchableSlot()))

	pref.Languages = "german, english"
	assert.True(t, pref.Matches(matchableSlot()))

	// Unset languages match anything
	pref.Languages = ""
	assert.True(t, pref.Matches(matchableSlot()))
}

func TestStandbyMatchesDateWindow(t *testing.T) {
	pref := matchingPreference()
	pref.StartDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, pref.Matches(matchableSlot()))

	pref.StartDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	pref.EndDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, pref.Matches(matchableSlot()))
}

func TestStandbyMatchesTimeWindow(t *testing.T) {
	pref := matchingPreference()
	pref.StartTime = "10:01"
	assert.False(t, pref.Matches(matchableSlot()))

	// Boundaries are inclusive; only the start time is checked
	pref.StartTime = "10:00"
	pref.EndTime = "10:00"
	assert.True(t, pref.Matches(matchableSlot()))
}

func TestStandbyLanguageList(t *testing.T) {
	pref := &StandbyPreference{Languages: " English , French ,"}
	assert.Equal(t, []string{"English", "French"}, pref.LanguageList())

	empty := &StandbyPreference{}
	assert.Nil(t, empty.LanguageList())
}

func TestStandbyDailyCap(t *testing.T) {
	pref := &StandbyPreference{MaxNotificationsPerDay: 5}
	assert.Equal(t, 5, pref.DailyCap(3))

	pref.MaxNotificationsPerDay = 0
	assert.Equal(t, 3, pref.DailyCap(3))
}

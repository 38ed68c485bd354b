package dto

import "time"

// Request DTOs

type StandbyRequest struct {
	Enabled                bool     `json:"enabled"`
	Specialty              string   `json:"specialty" validate:"omitempty,max=50"`
	City                   string   `json:"city" validate:"omitempty,max=100"`
	Languages              []string `json:"languages" validate:"omitempty,dive,max=50"`
	StartDate              string   `json:"start_date" validate:"required"` // Format: YYYY-MM-DD
	EndDate                string   `json:"end_date" validate:"required"`   // Format: YYYY-MM-DD
	StartTime              string   `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime                string   `json:"end_time" validate:"required"`   // Format: HH:MM
	MaxNotificationsPerDay int      `json:"max_notifications_per_day" validate:"omitempty,min=1"`
}

type TimeRangeRequest struct {
	From string `json:"from" validate:"required"` // Format: HH:MM
	To   string `json:"to" validate:"required"`   // Format: HH:MM
}

type DndRequest struct {
	Paused     bool               `json:"paused"`
	PauseUntil string             `json:"pause_until" validate:"omitempty"` // RFC3339
	Days       []string           `json:"days" validate:"omitempty,dive,max=10"`
	TimeRanges []TimeRangeRequest `json:"time_ranges" validate:"omitempty,dive"`
}

// Response DTOs

type StandbyResponse struct {
	Enabled                bool      `json:"enabled"`
	Specialty              string    `json:"specialty,omitempty"`
	City                   string    `json:"city,omitempty"`
	Languages              []string  `json:"languages"`
	StartDate              string    `json:"start_date,omitempty"`
	EndDate                string    `json:"end_date,omitempty"`
	StartTime              string    `json:"start_time,omitempty"`
	EndTime                string    `json:"end_time,omitempty"`
	MaxNotificationsPerDay int       `json:"max_notifications_per_day"`
	UpdatedAt              time.Time `json:"updated_at,omitempty"`
}

type TimeRangeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type DndResponse struct {
	Paused     bool                `json:"paused"`
	PauseUntil *time.Time          `json:"pause_until,omitempty"`
	Days       []string            `json:"days"`
	TimeRanges []TimeRangeResponse `json:"time_ranges"`
	UpdatedAt  time.Time           `json:"updated_at,omitempty"`
}

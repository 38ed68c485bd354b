package converter

import (
	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"
)

// StandbyToResponse converts a StandbyPreference entity to StandbyResponse DTO.
// A nil preference maps to the disabled default.
func StandbyToResponse(pref *entity.StandbyPreference) *dto.StandbyResponse {
	if pref == nil {
		return &dto.StandbyResponse{Languages: []string{}}
	}

	languages := pref.LanguageList()
	if languages == nil {
		languages = []string{}
	}

	return &dto.StandbyResponse{
		Enabled:                pref.Enabled,
		Specialty:              pref.Specialty,
		City:                   pref.City,
		Languages:              languages,
		StartDate:              pref.StartDate.Format(entity.DateLayout),
		EndDate:                pref.EndDate.Format(entity.DateLayout),
		StartTime:              pref.StartTime,
		EndTime:                pref.EndTime,
		MaxNotificationsPerDay: pref.MaxNotificationsPerDay,
		UpdatedAt:              pref.UpdatedAt,
	}
}

// DndToResponse converts a DndPreference entity to DndResponse DTO.
// A nil preference maps to the inactive default.
func DndToResponse(pref *entity.DndPreference) *dto.DndResponse {
	if pref == nil {
		return &dto.DndResponse{Days: []string{}, TimeRanges: []dto.TimeRangeResponse{}}
	}

	days := pref.DayList()
	if days == nil {
		days = []string{}
	}

	ranges := make([]dto.TimeRangeResponse, len(pref.TimeRanges))
	for i, r := range pref.TimeRanges {
		ranges[i] = dto.TimeRangeResponse{From: r.From, To: r.To}
	}

	return &dto.DndResponse{
		Paused:     pref.Paused,
		PauseUntil: pref.PauseUntil,
		Days:       days,
		TimeRanges: ranges,
		UpdatedAt:  pref.UpdatedAt,
	}
}

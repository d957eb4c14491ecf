package response

import (
	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
)

type DaySnapshotResponse struct {
	Season    season.ID  `json:"season"`
	Day       season.Day `json:"day"`
	Guests    int        `json:"guests"`
	Cap       int        `json:"cap"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	Version   int64      `json:"ver"`
}

func NewDaySnapshotResponse(s *guest.DaySnapshot) DaySnapshotResponse {
	return DaySnapshotResponse{
		Season:    s.Season,
		Day:       s.Day,
		Guests:    s.Guests,
		Cap:       s.Cap,
		Used:      s.Used,
		Remaining: s.Remaining,
		Version:   s.Version,
	}
}

type RecountDayResponse struct {
	Day     season.Day `json:"day"`
	Used    int        `json:"used"`
	Version int64      `json:"ver"`
}

type RecountResponse struct {
	Season season.ID            `json:"season"`
	Days   []RecountDayResponse `json:"days"`
}

func NewRecountResponse(sn season.ID, updates []guest.DayUpdate) RecountResponse {
	days := make([]RecountDayResponse, 0, len(updates))
	for _, u := range updates {
		days = append(days, RecountDayResponse{Day: u.Day, Used: u.Used, Version: u.Version})
	}
	return RecountResponse{Season: sn, Days: days}
}

package request

import (
	"splashboard/internal/domain/season"
)

type SetSignupRequest struct {
	Season string `json:"season"`
	Day    string `json:"day" binding:"required"`
	Guests *int   `json:"guests" binding:"required"`
}

func (r *SetSignupRequest) SeasonID() (season.ID, error) {
	if r.Season == "" {
		return "", nil // 作業シーズンに解決される
	}
	return season.NewID(r.Season)
}

func (r *SetSignupRequest) DayValue() (season.Day, error) {
	return season.NewDay(r.Day)
}

// SeasonQuery はクエリパラメータのシーズン指定。空なら作業シーズン。
func SeasonQuery(raw string) (season.ID, error) {
	if raw == "" {
		return "", nil
	}
	return season.NewID(raw)
}

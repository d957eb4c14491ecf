package request

import (
	"time"

	"splashboard/internal/domain/season"
)

type UpdateSeasonConfigRequest struct {
	Start              *string    `json:"start"`
	End                *string    `json:"end"`
	PerDayCap          *int       `json:"per_day_cap"`
	PerUserMax         *int       `json:"per_user_max"`
	CostIndividual     *int       `json:"cost_individual_per_person"`
	CostFamily         *int       `json:"cost_family_flat"`
	OfferResponseDays  *int       `json:"offer_response_days"`
	ReturnResponseDays *int       `json:"return_response_days"`
	HardOfferDeadline  *time.Time `json:"hard_offer_deadline"`
	HardReturnDeadline *time.Time `json:"hard_return_deadline"`
	Visible            *bool      `json:"visible"`
}

// ToPatch は部分更新パッチへ変換する。省略されたフィールドは保存済みの値を保つ。
func (r *UpdateSeasonConfigRequest) ToPatch() (season.ConfigPatch, error) {
	patch := season.ConfigPatch{
		PerDayCap:          r.PerDayCap,
		PerUserMax:         r.PerUserMax,
		CostIndividual:     r.CostIndividual,
		CostFamily:         r.CostFamily,
		OfferResponseDays:  r.OfferResponseDays,
		ReturnResponseDays: r.ReturnResponseDays,
		HardOfferDeadline:  r.HardOfferDeadline,
		HardReturnDeadline: r.HardReturnDeadline,
		Visible:            r.Visible,
	}
	if r.Start != nil {
		start, err := season.NewDay(*r.Start)
		if err != nil {
			return season.ConfigPatch{}, err
		}
		patch.Start = &start
	}
	if r.End != nil {
		end, err := season.NewDay(*r.End)
		if err != nil {
			return season.ConfigPatch{}, err
		}
		patch.End = &end
	}
	return patch, nil
}

type SetWorkingSeasonRequest struct {
	Season string `json:"season" binding:"required"`
}

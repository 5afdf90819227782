package response

import (
	"couponkeeper/internal/usecase/readmodel"
)

type PreferenceResponse struct {
	Enabled     bool   `json:"enabled"`
	DaysBefore  []int  `json:"daysBefore"`
	Timezone    string `json:"timezone"`
	EmailDigest bool   `json:"emailDigest"`
}

func FromPreferenceRM(rm *readmodel.PreferenceRM) *PreferenceResponse {
	return &PreferenceResponse{
		Enabled:     rm.Enabled,
		DaysBefore:  rm.DaysBefore,
		Timezone:    rm.Timezone,
		EmailDigest: rm.EmailDigest,
	}
}

package request

type UpdatePreferenceRequest struct {
	Enabled     bool   `json:"enabled"`
	DaysBefore  []int  `json:"daysBefore" binding:"required,min=1,dive,gt=0"`
	Timezone    string `json:"timezone" binding:"required"`
	EmailDigest bool   `json:"emailDigest"`
}

package request_models

// GenerateTripPlanRequest mirrors the planner form. Destinations may be sent
// as a list or as one city per line in DestinationsText; both are merged.
// Dates use YYYY-MM-DD and fall back to the form defaults when empty.
type GenerateTripPlanRequest struct {
	Origin           string   `json:"origin"`
	Destinations     []string `json:"destinations"`
	DestinationsText string   `json:"destinations_text"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Interests        []string `json:"interests"`
}

type ListTripPlansRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

package response_models

type TravelPreferences struct {
	From         string `json:"from"`
	Destinations string `json:"destinations"`
	DateRange    string `json:"date_range"`
	Interests    string `json:"interests"`
}

type TripPlanResponse struct {
	ID          string            `json:"id,omitempty"`
	Plan        string            `json:"plan"`
	Preferences TravelPreferences `json:"preferences"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	GeneratedAt int64             `json:"generated_at"`
	Tips        []string          `json:"tips,omitempty"`
}

type TripPlanHistoryItem struct {
	ID          string            `json:"id"`
	Preferences TravelPreferences `json:"preferences"`
	Plan        string            `json:"plan"`
	GeneratedAt int64             `json:"generated_at"`
	DurationMs  int64             `json:"duration_ms"`
}

type TripFormOptionsResponse struct {
	InterestOptions  []string `json:"interest_options"`
	DefaultInterests []string `json:"default_interests"`
	MinStartDate     string   `json:"min_start_date"`
	DefaultStartDate string   `json:"default_start_date"`
	DefaultEndDate   string   `json:"default_end_date"`
}

// ExportFile is a rendered download: body, file name and MIME type.
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

package db_models

// SessionPlan is the current plan of a session, kept in the session store
// until the next successful generation replaces it.
type SessionPlan struct {
	PlanID       string   `json:"plan_id"`
	Origin       string   `json:"origin"`
	Destinations []string `json:"destinations"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Interests    []string `json:"interests"`
	Content      string   `json:"content"`
	GeneratedAt  int64    `json:"generated_at"`
}

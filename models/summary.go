package models

// GroupSummary is the condensed result for one group of a run, stored
// in the history database.
type GroupSummary struct {
	Label            string  `json:"label"`
	FileCount        int     `json:"file_count"`
	SessionCount     int     `json:"session_count"`
	TotalDurationSec float64 `json:"total_duration_sec"`
}

type RunSummary struct {
	Groups []GroupSummary `json:"groups"`
}

package models

import "time"

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Technician is one roster entry. Entries are built once at startup and
// treated as read-only afterwards.
type Technician struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Skillsets     []string `json:"skillsets"`
	Location      Coord    `json:"location"`
	Rating        float64  `json:"rating"` // 0..5
	HourlyRate    float64  `json:"hourly_rate"`
	ContactNumber string   `json:"contact_number"`
	Availability  string   `json:"availability"` // free-text schedule, e.g. "Mon-Fri, 9 AM - 5 PM"
}

// HasSkill reports whether the technician covers the given category.
// Matching is by exact category name.
func (t Technician) HasSkill(category string) bool {
	for _, s := range t.Skillsets {
		if s == category {
			return true
		}
	}
	return false
}

type Part struct {
	Name           string  `json:"name"`
	EstimatedPrice float64 `json:"estimated_price"`
}

// Diagnosis is the structured job ticket produced by the AI collaborator.
type Diagnosis struct {
	ProblemSummary      string  `json:"problem_summary"`
	LikelyCause         string  `json:"likely_cause"`
	RequiredParts       []Part  `json:"required_parts"`
	EstimatedLaborHours float64 `json:"estimated_labor_hours"`
}

type CostBreakdown struct {
	Parts float64 `json:"parts"`
	Labor float64 `json:"labor"`
	Total float64 `json:"total"`
}

// JobAssignment pairs a diagnosis with the chosen technician plus the
// derived cost and arrival estimates. Read-only once created.
type JobAssignment struct {
	ID             string        `json:"id"`
	Diagnosis      Diagnosis     `json:"diagnosis"`
	Technician     Technician    `json:"technician"`
	Cost           CostBreakdown `json:"estimated_cost"`
	ArrivalMinutes int           `json:"estimated_arrival_minutes"`
	DistanceKm     float64       `json:"distance_km"`
	CreatedAt      time.Time     `json:"created_at"`
}

// AssignmentOffer is the payload pushed to a technician when a job is
// assigned to them.
type AssignmentOffer struct {
	AssignmentID   string  `json:"assignment_id"`
	TechnicianID   int     `json:"technician_id"`
	ProblemSummary string  `json:"problem_summary"`
	DistanceKm     float64 `json:"distance_km"`
	ArrivalMinutes int     `json:"arrival_minutes"`
}

// Category is one of the service categories offered to the user.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

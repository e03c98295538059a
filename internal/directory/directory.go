package directory

import (
	"github.com/example/repair-dispatch/internal/models"
)

// Directory exposes the technician roster as an atomic read-only snapshot.
// Implementations must return a slice the caller may iterate without locking.
type Directory interface {
	Snapshot() []models.Technician
}

// Static is the built-in roster used when no database is configured.
// The roster is fixed at construction and never mutated.
type Static struct {
	roster []models.Technician
}

func NewStatic(roster []models.Technician) *Static {
	cp := make([]models.Technician, len(roster))
	copy(cp, roster)
	return &Static{roster: cp}
}

func (s *Static) Snapshot() []models.Technician { return s.roster }

// DefaultRoster returns the seed roster shipped with the service.
func DefaultRoster() []models.Technician {
	return []models.Technician{
		{
			ID:            1,
			Name:          "Ravi Kumar",
			Skillsets:     []string{"Plumbing"},
			Location:      models.Coord{Lat: 12.9716, Lon: 77.5946},
			Rating:        4.7,
			HourlyRate:    45,
			ContactNumber: "+91-98450-11001",
			Availability:  "Mon-Fri, 9 AM - 5 PM",
		},
		{
			ID:            2,
			Name:          "Anita Desai",
			Skillsets:     []string{"Electrical"},
			Location:      models.Coord{Lat: 12.9352, Lon: 77.6245},
			Rating:        4.9,
			HourlyRate:    55,
			ContactNumber: "+91-98450-11002",
			Availability:  "Mon-Sat, 8 AM - 6 PM",
		},
		{
			ID:            3,
			Name:          "Suresh Patil",
			Skillsets:     []string{"Appliances", "Electrical"},
			Location:      models.Coord{Lat: 13.0081, Lon: 77.5530},
			Rating:        4.5,
			HourlyRate:    50,
			ContactNumber: "+91-98450-11003",
			Availability:  "24/7",
		},
		{
			ID:            4,
			Name:          "Meena Joshi",
			Skillsets:     []string{"Plumbing", "Appliances"},
			Location:      models.Coord{Lat: 12.9120, Lon: 77.6850},
			Rating:        4.8,
			HourlyRate:    48,
			ContactNumber: "+91-98450-11004",
			Availability:  "Sat-Tue, 10 AM - 6 PM",
		},
		{
			ID:            5,
			Name:          "Imran Shaikh",
			Skillsets:     []string{"Electrical", "Appliances"},
			Location:      models.Coord{Lat: 12.9850, Lon: 77.7044},
			Rating:        4.3,
			HourlyRate:    40,
			ContactNumber: "+91-98450-11005",
			Availability:  "Wed-Sun, 11 AM - 8 PM",
		},
	}
}

// Categories returns the service categories offered to users.
func Categories() []models.Category {
	return []models.Category{
		{Name: "Plumbing", Description: "Leaking pipes, clogged drains, faucet issues, etc."},
		{Name: "Electrical", Description: "Outlets not working, light fixture problems, wiring issues."},
		{Name: "Appliances", Description: "Refrigerator, washing machine, AC, or other appliance repair."},
	}
}

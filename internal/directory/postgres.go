package directory

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/example/repair-dispatch/internal/models"
)

// Postgres loads the roster from a technicians table once at startup and
// serves it as a static snapshot afterwards, same contract as Static.
type Postgres struct {
	roster []models.Technician
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id, name, skillsets, lat, lon, rating, hourly_rate, contact_number, availability FROM technicians ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load technicians: %w", err)
	}
	defer rows.Close()

	var roster []models.Technician
	for rows.Next() {
		var t models.Technician
		var skills pq.StringArray
		if err := rows.Scan(&t.ID, &t.Name, &skills, &t.Location.Lat, &t.Location.Lon, &t.Rating, &t.HourlyRate, &t.ContactNumber, &t.Availability); err != nil {
			return nil, err
		}
		t.Skillsets = []string(skills)
		roster = append(roster, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &Postgres{roster: roster}, nil
}

func (p *Postgres) Snapshot() []models.Technician { return p.roster }

package booking

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/example/repair-dispatch/internal/models"
)

// PostgresStore persists assignments and confirmed bookings.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveAssignment(a *models.JobAssignment) error {
	diag, err := json.Marshal(a.Diagnosis)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT INTO assignments(id, technician_id, diagnosis, parts_cost, labor_cost, total_cost, arrival_minutes, distance_km, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.Technician.ID, diag, a.Cost.Parts, a.Cost.Labor, a.Cost.Total, a.ArrivalMinutes, a.DistanceKm, a.CreatedAt,
	)
	return err
}

func (p *PostgresStore) GetAssignment(id string) (*models.JobAssignment, bool) {
	var (
		a    models.JobAssignment
		diag []byte
	)
	row := p.db.QueryRow(
		`SELECT id, technician_id, diagnosis, parts_cost, labor_cost, total_cost, arrival_minutes, distance_km, created_at
		 FROM assignments WHERE id = $1`, id)
	if err := row.Scan(&a.ID, &a.Technician.ID, &diag, &a.Cost.Parts, &a.Cost.Labor, &a.Cost.Total, &a.ArrivalMinutes, &a.DistanceKm, &a.CreatedAt); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(diag, &a.Diagnosis); err != nil {
		return nil, false
	}
	return &a, true
}

func (p *PostgresStore) SaveBooking(assignmentID, date, displayTime string) error {
	_, err := p.db.Exec(
		`INSERT INTO bookings(assignment_id, slot_date, slot_display, confirmed_at) VALUES($1,$2,$3,NOW())
		 ON CONFLICT (assignment_id) DO UPDATE SET slot_date = $2, slot_display = $3, confirmed_at = NOW()`,
		assignmentID, date, displayTime,
	)
	return err
}

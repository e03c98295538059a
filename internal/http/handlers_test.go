package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/repair-dispatch/internal/config"
	"github.com/example/repair-dispatch/internal/logging"
	"github.com/example/repair-dispatch/internal/models"
	"github.com/example/repair-dispatch/internal/schedule"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.ServerConfig{
		TravelSpeedKmh: 30,
		PrepMinutes:    10,
		RuleCacheTTL:   time.Minute,
	}
	s := NewServer(cfg, logging.NewLogger("error"))
	// Tuesday 2026-03-10 08:00 local
	s.Now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func createAssignment(t *testing.T, s *Server) models.JobAssignment {
	t.Helper()
	w := doJSON(t, s, "POST", "/api/v1/assignments", map[string]any{
		"category": "Plumbing",
		// exactly at technician 1's location
		"location": models.Coord{Lat: 12.9716, Lon: 77.5946},
		"diagnosis": map[string]any{
			"problem_summary": "Running toilet",
			"likely_cause":    "Worn flush valve seal",
			"required_parts": []map[string]any{
				{"name": "flush valve", "estimated_price": 100},
				{"name": "supply line", "estimated_price": 50},
			},
			"estimated_labor_hours": 2,
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create assignment: status %d body %s", w.Code, w.Body.String())
	}
	var a models.JobAssignment
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestAssignmentFlow(t *testing.T) {
	s := newTestServer(t)
	a := createAssignment(t, s)

	if a.Technician.ID != 1 {
		t.Fatalf("expected technician 1 (co-located), got %d", a.Technician.ID)
	}
	if a.Cost.Parts != 150 || a.Cost.Labor != 90 || a.Cost.Total != 240 {
		t.Fatalf("unexpected cost: %+v", a.Cost)
	}
	if a.ArrivalMinutes != 10 {
		t.Fatalf("zero distance should yield prep time only, got %d", a.ArrivalMinutes)
	}
}

func TestAssignmentNoTechnician(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/v1/assignments", map[string]any{
		"category": "Roofing",
		"location": models.Coord{},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["category"] != "Roofing" {
		t.Fatalf("error should name the category, got %v", resp)
	}
}

func TestSlotsHonorAvailability(t *testing.T) {
	s := newTestServer(t)
	a := createAssignment(t, s)

	w := doJSON(t, s, "GET", "/api/v1/assignments/"+a.ID+"/slots", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("slots: status %d", w.Code)
	}
	var resp struct {
		Days []schedule.DaySlots `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// technician 1 works Mon-Fri 9-17; Tue..Fri + next Mon fall in the window
	if len(resp.Days) != 5 {
		t.Fatalf("expected 5 bookable days, got %d", len(resp.Days))
	}
	if resp.Days[0].Date != "2026-03-10" || len(resp.Days[0].Slots) != 8 {
		t.Fatalf("unexpected first day: %+v", resp.Days[0])
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	a := createAssignment(t, s)
	base := "/api/v1/assignments/" + a.ID + "/booking"

	w := doJSON(t, s, "POST", base+"/select", map[string]string{
		"date": "2026-03-10", "display_time": "9:00 AM",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("select: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, "POST", base+"/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d", w.Code)
	}
	var view bookingView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State != "confirmed" || view.DisplayTime != "9:00 AM" {
		t.Fatalf("unexpected booking view: %+v", view)
	}

	w = doJSON(t, s, "POST", base+"/reschedule", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule: status %d", w.Code)
	}
	view = bookingView{}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State != "unselected" || view.DisplayTime != "" {
		t.Fatalf("reschedule should clear the selection: %+v", view)
	}
}

func TestConfirmWithoutSelection(t *testing.T) {
	s := newTestServer(t)
	a := createAssignment(t, s)

	w := doJSON(t, s, "POST", "/api/v1/assignments/"+a.ID+"/booking/confirm", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestSelectUnavailableSlot(t *testing.T) {
	s := newTestServer(t)
	a := createAssignment(t, s)

	// technician 1 does not work at 8 PM
	w := doJSON(t, s, "POST", "/api/v1/assignments/"+a.ID+"/booking/select", map[string]string{
		"date": "2026-03-10", "display_time": "8:00 PM",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestNegativeDiagnosisValuesClamped(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/v1/assignments", map[string]any{
		"category": "Plumbing",
		"location": models.Coord{Lat: 12.9716, Lon: 77.5946},
		"diagnosis": map[string]any{
			"problem_summary":       "x",
			"likely_cause":          "y",
			"required_parts":        []map[string]any{{"name": "p", "estimated_price": -5}},
			"estimated_labor_hours": -1,
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d", w.Code)
	}
	var a models.JobAssignment
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Cost.Total != 0 {
		t.Fatalf("negative inputs should clamp to zero cost, got %+v", a.Cost)
	}
}

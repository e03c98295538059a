package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/repair-dispatch/internal/booking"
	"github.com/example/repair-dispatch/internal/config"
	"github.com/example/repair-dispatch/internal/diagnosis"
	"github.com/example/repair-dispatch/internal/directory"
	"github.com/example/repair-dispatch/internal/dispatch"
	"github.com/example/repair-dispatch/internal/estimate"
	"github.com/example/repair-dispatch/internal/events"
	"github.com/example/repair-dispatch/internal/matcher"
	"github.com/example/repair-dispatch/internal/models"
	"github.com/example/repair-dispatch/internal/observability"
	"github.com/example/repair-dispatch/internal/payments"
	"github.com/example/repair-dispatch/internal/schedule"
)

type Server struct {
	Directory directory.Directory
	RuleCache schedule.RuleCache
	Sessions  *booking.SessionStore
	Store     booking.AssignmentStore
	Events    *events.Producer
	WSReg     *dispatch.WSRegistry
	Notify    dispatch.Offerer
	Deposits  *payments.DepositClient
	Diag      diagnosis.Client

	// Now is the injected clock for slot generation; tests override it.
	Now func() time.Time

	cfg    config.ServerConfig
	logger *slog.Logger
	mux    *mux.Router

	holdMu sync.Mutex
	holds  map[string]string // assignment id -> payment intent id
}

// NewServer wires the service from config with sensible fallbacks: static
// roster and in-memory stores unless Postgres/Redis/Kafka are configured.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	var dir directory.Directory
	if cfg.PGDSN != "" {
		if pd, err := directory.NewPostgres(cfg.PGDSN); err == nil && len(pd.Snapshot()) > 0 {
			dir = pd
		} else if err != nil {
			logger.Warn("postgres roster unavailable, using static roster", "error", err)
		}
	}
	if dir == nil {
		dir = directory.NewStatic(directory.DefaultRoster())
	}

	var ruleCache schedule.RuleCache
	if cfg.RedisAddr != "" {
		ruleCache = schedule.NewRedisRuleCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RuleCacheTTL)
	} else {
		ruleCache = schedule.NewMemoryRuleCache(cfg.RuleCacheTTL)
	}

	var store booking.AssignmentStore
	if cfg.PGDSN != "" {
		if ps, err := booking.NewPostgresStore(cfg.PGDSN); err == nil {
			store = ps
		} else {
			logger.Warn("postgres assignment store unavailable, using memory store", "error", err)
		}
	}
	if store == nil {
		store = booking.NewMemoryStore()
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	wsreg := dispatch.NewWSRegistry()
	notify := dispatch.Chain{wsreg}
	if cfg.DispatchEndpoint != "" {
		notify = append(notify, dispatch.NewHTTPDispatcher(cfg.DispatchEndpoint))
	}

	var diag diagnosis.Client
	if cfg.GeminiAPIKey != "" {
		if gc, err := diagnosis.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
			diag = gc
		} else {
			logger.Warn("gemini client unavailable", "error", err)
		}
	}

	var deposits *payments.DepositClient
	if cfg.DepositRate > 0 {
		deposits = payments.NewDepositClient()
	}

	s := &Server{
		Directory: dir,
		RuleCache: ruleCache,
		Sessions:  booking.NewSessionStore(),
		Store:     store,
		Events:    producer,
		WSReg:     wsreg,
		Notify:    notify,
		Deposits:  deposits,
		Diag:      diag,
		Now:       time.Now,
		cfg:       cfg,
		logger:    logger,
		mux:       mux.NewRouter(),
		holds:     make(map[string]string),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/categories", s.handleCategories).Methods("GET")
	s.mux.HandleFunc("/api/v1/diagnose", s.handleDiagnose).Methods("POST")
	s.mux.HandleFunc("/api/v1/assignments", s.handleCreateAssignment).Methods("POST")
	s.mux.HandleFunc("/api/v1/assignments/{id}/slots", s.handleSlots).Methods("GET")
	s.mux.HandleFunc("/api/v1/assignments/{id}/booking", s.handleBookingState).Methods("GET")
	s.mux.HandleFunc("/api/v1/assignments/{id}/booking/select", s.handleBookingSelect).Methods("POST")
	s.mux.HandleFunc("/api/v1/assignments/{id}/booking/confirm", s.handleBookingConfirm).Methods("POST")
	s.mux.HandleFunc("/api/v1/assignments/{id}/booking/reschedule", s.handleBookingReschedule).Methods("POST")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/technicians/{id:[0-9]+}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, directory.Categories())
}

type diagnoseRequest struct {
	Category      string `json:"category"`
	Description   string `json:"description"`
	ImageBase64   string `json:"image_base64,omitempty"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	if s.Diag == nil {
		writeError(w, http.StatusServiceUnavailable, "diagnosis is not configured")
		return
	}
	var req diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var img *diagnosis.Image
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image_base64")
			return
		}
		img = &diagnosis.Image{Data: data, MIMEType: req.ImageMIMEType}
	}
	d, err := s.Diag.Diagnose(r.Context(), req.Category, req.Description, img)
	if err != nil {
		s.logger.Error("diagnosis failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to get a valid response from the AI model")
		return
	}
	writeJSON(w, http.StatusOK, sanitizeDiagnosis(d))
}

type assignmentRequest struct {
	Category  string           `json:"category"`
	Location  models.Coord     `json:"location"`
	Diagnosis models.Diagnosis `json:"diagnosis"`
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	req.Diagnosis = sanitizeDiagnosis(req.Diagnosis)

	res, err := matcher.Match(req.Category, req.Location, s.Directory.Snapshot())
	if err != nil {
		var nte *matcher.NoTechnicianError
		if errors.As(err, &nte) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":    "no technician available",
				"category": nte.Category,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}

	a := &models.JobAssignment{
		ID:             newID(),
		Diagnosis:      req.Diagnosis,
		Technician:     res.Technician,
		Cost:           estimate.Cost(req.Diagnosis.RequiredParts, req.Diagnosis.EstimatedLaborHours, res.Technician.HourlyRate),
		ArrivalMinutes: estimate.ArrivalMinutesAt(res.DistanceKm, s.cfg.TravelSpeedKmh, s.cfg.PrepMinutes),
		DistanceKm:     res.DistanceKm,
		CreatedAt:      s.Now(),
	}
	if err := s.Store.SaveAssignment(a); err != nil {
		s.logger.Error("save assignment failed", "assignment_id", a.ID, "error", err)
	}
	if err := s.Events.AssignmentCreated(a); err != nil {
		s.logger.Warn("assignment event publish failed", "assignment_id", a.ID, "error", err)
	}
	if s.Notify != nil {
		// best-effort push to the assigned technician
		_ = s.Notify.Offer(models.AssignmentOffer{
			AssignmentID:   a.ID,
			TechnicianID:   a.Technician.ID,
			ProblemSummary: a.Diagnosis.ProblemSummary,
			DistanceKm:     a.DistanceKm,
			ArrivalMinutes: a.ArrivalMinutes,
		})
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) assignment(w http.ResponseWriter, r *http.Request) (*models.JobAssignment, bool) {
	id := mux.Vars(r)["id"]
	a, ok := s.Store.GetAssignment(id)
	if !ok {
		writeError(w, http.StatusNotFound, "assignment not found")
		return nil, false
	}
	// the Postgres store keeps only the technician id; rehydrate the rest
	// from the roster snapshot
	if a.Technician.Name == "" {
		for _, t := range s.Directory.Snapshot() {
			if t.ID == a.Technician.ID {
				a.Technician = t
				break
			}
		}
	}
	return a, true
}

func (s *Server) horizonFor(ctx context.Context, a *models.JobAssignment) []schedule.DaySlots {
	rule := schedule.RuleFor(ctx, s.RuleCache, a.Technician.ID, a.Technician.Availability)
	return schedule.GenerateSlots(rule, s.Now())
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assignment(w, r)
	if !ok {
		return
	}
	horizon := s.horizonFor(r.Context(), a)
	if horizon == nil {
		// an empty horizon is data, not an error; the UI renders it as such
		horizon = []schedule.DaySlots{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assignment_id": a.ID,
		"days":          horizon,
	})
}

type bookingView struct {
	State       string `json:"state"`
	Day         string `json:"day,omitempty"`
	SlotDate    string `json:"slot_date,omitempty"`
	DisplayTime string `json:"display_time,omitempty"`
}

func viewOf(sel *booking.Selection) bookingView {
	v := bookingView{State: sel.State().String(), Day: sel.Day()}
	if slot, ok := sel.Slot(); ok {
		v.SlotDate = slot.Date
		v.DisplayTime = slot.Display
	}
	return v
}

func (s *Server) handleBookingState(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assignment(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s.Sessions.Selection(a.ID)))
}

type selectRequest struct {
	Date        string `json:"date"`
	DisplayTime string `json:"display_time,omitempty"`
}

func (s *Server) handleBookingSelect(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assignment(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	sel := s.Sessions.Selection(a.ID)
	if req.DisplayTime == "" {
		sel.ChooseDay(req.Date)
		writeJSON(w, http.StatusOK, viewOf(sel))
		return
	}

	horizon := s.horizonFor(r.Context(), a)
	slot, found := schedule.FindSlot(horizon, req.Date, req.DisplayTime)
	if !found {
		writeError(w, http.StatusConflict, "slot is not available")
		return
	}
	sel.ChooseSlot(slot)
	writeJSON(w, http.StatusOK, viewOf(sel))
}

func (s *Server) handleBookingConfirm(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assignment(w, r)
	if !ok {
		return
	}
	sel := s.Sessions.Selection(a.ID)
	if !sel.Confirm() {
		writeError(w, http.StatusConflict, "no slot chosen")
		return
	}
	slot, _ := sel.Slot()

	if err := s.Store.SaveBooking(a.ID, slot.Date, slot.Display); err != nil {
		s.logger.Error("save booking failed", "assignment_id", a.ID, "error", err)
	}
	if err := s.Events.BookingConfirmed(a.ID, a.Technician.ID, slot.Date, slot.Display); err != nil {
		s.logger.Warn("booking event publish failed", "assignment_id", a.ID, "error", err)
	}
	if s.Deposits != nil && s.cfg.DepositRate > 0 {
		amount := a.Cost.Total * s.cfg.DepositRate
		if intentID, err := s.Deposits.HoldDeposit(r.Context(), amount, "usd"); err != nil {
			s.logger.Warn("deposit hold failed", "assignment_id", a.ID, "error", err)
		} else {
			s.holdMu.Lock()
			s.holds[a.ID] = intentID
			s.holdMu.Unlock()
		}
	}
	observability.BookingsConfirmedTotal.Inc()
	writeJSON(w, http.StatusOK, viewOf(sel))
}

func (s *Server) handleBookingReschedule(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assignment(w, r)
	if !ok {
		return
	}
	sel := s.Sessions.Selection(a.ID)
	sel.Reschedule()

	s.holdMu.Lock()
	intentID, held := s.holds[a.ID]
	delete(s.holds, a.ID)
	s.holdMu.Unlock()
	if held && s.Deposits != nil {
		if err := s.Deposits.ReleaseDeposit(r.Context(), intentID); err != nil {
			s.logger.Warn("deposit release failed", "assignment_id", a.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, viewOf(sel))
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, err := technicianID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid technician id")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.WSReg.Add(id, conn)
	observability.TechnicianSessions.Inc()
	go func() {
		defer func() {
			s.WSReg.Remove(id)
			observability.TechnicianSessions.Dec()
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// sanitizeDiagnosis clamps numeric fields to their documented non-negative
// domain before they reach the estimators.
func sanitizeDiagnosis(d models.Diagnosis) models.Diagnosis {
	if d.EstimatedLaborHours < 0 {
		d.EstimatedLaborHours = 0
	}
	for i := range d.RequiredParts {
		if d.RequiredParts[i].EstimatedPrice < 0 {
			d.RequiredParts[i].EstimatedPrice = 0
		}
	}
	return d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }

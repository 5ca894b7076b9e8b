package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhijithgoodboi/petclinic/internal/availability"
	"github.com/abhijithgoodboi/petclinic/internal/diagnosis"
	"github.com/abhijithgoodboi/petclinic/internal/models"
	"github.com/abhijithgoodboi/petclinic/internal/store"
	"github.com/abhijithgoodboi/petclinic/internal/triage"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type Handler struct {
	store      store.Store
	engine     *triage.Engine
	calendar   *availability.Calendar
	classifier diagnosis.ImageClassifier
	serious    map[string]struct{}
}

type Options struct {
	Calendar        *availability.Calendar
	Classifier      diagnosis.ImageClassifier
	SeriousDiseases []string
}

func NewHandler(st store.Store, engine *triage.Engine, options Options) *Handler {
	calendar := options.Calendar
	if calendar == nil {
		calendar = availability.NewCalendar(nil, nil)
	}
	return &Handler{
		store:      st,
		engine:     engine,
		calendar:   calendar,
		classifier: options.Classifier,
		serious:    diagnosis.SeriousSet(options.SeriousDiseases),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/triage/classify", h.handleClassify)
	mux.HandleFunc("/api/triage/assessment", h.handleAssessment)
	mux.HandleFunc("/api/appointments", h.handleAppointments)
	mux.HandleFunc("/api/appointments/actions/call-next", h.handleCallNext)
	mux.HandleFunc("/api/appointments/queue", h.handleQueue)
	mux.HandleFunc("/api/appointments/", h.handleAppointmentByID)
	mux.HandleFunc("/api/emergencies", h.handleEmergencies)
	mux.HandleFunc("/api/emergencies/", h.handleEmergencyByID)
	mux.HandleFunc("/api/doctors/", h.handleDoctors)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ---- triage ----

type classifyRequest struct {
	Symptoms string `json:"symptoms"`
	PetID    string `json:"pet_id"`
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PetID = strings.TrimSpace(req.PetID)
	if req.PetID != "" && !isValidUUID(req.PetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id must be a UUID when provided")
		return
	}

	verdict := h.engine.Classify(r.Context(), req.Symptoms, req.PetID)
	writeJSON(w, http.StatusOK, verdict)
}

type assessmentRequest struct {
	Symptoms  string            `json:"symptoms"`
	PetID     string            `json:"pet_id"`
	ImageB64  string            `json:"image_b64"`
	Diagnosis *diagnosis.Result `json:"diagnosis"`
}

type assessmentResponse struct {
	Priority  string               `json:"priority"`
	Severity  string               `json:"severity,omitempty"`
	Verdict   models.TriageVerdict `json:"verdict"`
	Diagnosis *diagnosis.Result    `json:"diagnosis,omitempty"`
}

// handleAssessment combines symptom classification, severity grading, and an
// optional image-diagnosis upgrade into a single response.
func (h *Handler) handleAssessment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req assessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PetID = strings.TrimSpace(req.PetID)
	if req.PetID != "" && !isValidUUID(req.PetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id must be a UUID when provided")
		return
	}

	verdict := h.engine.Classify(r.Context(), req.Symptoms, req.PetID)

	result := req.Diagnosis
	if result == nil && req.ImageB64 != "" {
		if h.classifier == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "image classification is not configured")
			return
		}
		image, err := base64.StdEncoding.DecodeString(req.ImageB64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "image_b64 must be valid base64")
			return
		}
		classified, err := h.classifier.ClassifyImage(r.Context(), image)
		if err != nil {
			// degrade to a symptom-only assessment
			log.Printf("assessment: image classification failed: %v", err)
		} else {
			result = &classified
		}
	}

	response := assessmentResponse{
		Priority: verdict.Priority,
		Verdict:  verdict,
	}
	// Severity refines confirmed emergencies only.
	if verdict.Priority == models.PriorityEmergency {
		response.Severity = triage.GradeSeverity(req.Symptoms)
	}
	if result != nil {
		response.Priority = diagnosis.UpgradePriority(verdict.Priority, *result, h.serious)
		response.Diagnosis = result
	}
	writeJSON(w, http.StatusOK, response)
}

// ---- appointments ----

type createAppointmentRequest struct {
	PetID       string `json:"pet_id"`
	OwnerID     string `json:"owner_id"`
	VetID       string `json:"vet_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	DurationMin int    `json:"duration_min"`
	Reason      string `json:"reason"`
}

type appointmentResponse struct {
	Appointment models.AppointmentSlot `json:"appointment"`
	Emergency   *models.EmergencyCase  `json:"emergency,omitempty"`
	Warning     string                 `json:"warning,omitempty"`
}

func (h *Handler) handleAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createAppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PetID = strings.TrimSpace(req.PetID)
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.VetID = strings.TrimSpace(req.VetID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Reason = strings.TrimSpace(req.Reason)

	if req.PetID == "" || req.OwnerID == "" || req.Date == "" || req.Time == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id, owner_id, date, and time are required")
		return
	}
	if !isValidUUID(req.PetID) || !isValidUUID(req.OwnerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id and owner_id must be UUIDs")
		return
	}
	if req.VetID != "" && !isValidUUID(req.VetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "vet_id must be a UUID when provided")
		return
	}
	if !isValidDate(req.Date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if !isValidClock(req.Time) {
		writeError(w, http.StatusBadRequest, "invalid_request", "time must be HH:MM")
		return
	}

	now := time.Now().UTC()
	if req.Date < now.Format(dateLayout) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must not be in the past")
		return
	}

	if !h.calendar.IsOpen(req.Date) {
		writeError(w, http.StatusConflict, "clinic_closed", "clinic is closed on the requested date")
		return
	}

	warning := ""
	var vetID *string
	if req.VetID != "" {
		status, found, err := h.store.GetDoctorStatus(r.Context(), req.VetID)
		if err != nil {
			status2, code, msg := mapError(err)
			writeError(w, status2, code, msg)
			return
		}
		var statusPtr *models.DoctorStatus
		if found {
			statusPtr = &status
		}
		rules, err := h.store.ListAvailability(r.Context(), req.VetID)
		if err != nil {
			status2, code, msg := mapError(err)
			writeError(w, status2, code, msg)
			return
		}
		decision := availability.IsBookable(statusPtr, rules, req.Date, req.Time, now.Format(dateLayout))
		if !decision.OK {
			writeError(w, http.StatusConflict, "vet_unavailable", decision.Reason)
			return
		}
		warning = decision.Warning
		vetID = &req.VetID
	}

	priority := models.PriorityNormal
	if req.Reason != "" {
		priority = h.engine.Classify(r.Context(), req.Reason, req.PetID).Priority
	}

	slot, err := h.store.CreateAppointment(r.Context(), store.CreateAppointmentInput{
		PetID:       req.PetID,
		OwnerID:     req.OwnerID,
		VetID:       vetID,
		Date:        req.Date,
		Time:        req.Time,
		DurationMin: req.DurationMin,
		Reason:      req.Reason,
		Priority:    priority,
		CreatedAt:   now,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	// An emergency-graded reason also opens a case so the pet enters the
	// emergency queue without a second report.
	var emergency *models.EmergencyCase
	if priority == models.PriorityEmergency {
		c, err := h.store.CreateCase(r.Context(), store.CreateCaseInput{
			PetID:       req.PetID,
			OwnerID:     req.OwnerID,
			Severity:    triage.GradeSeverity(req.Reason),
			Symptoms:    req.Reason,
			TriageNotes: "opened from appointment " + slot.SlotID,
			AssignedVet: vetID,
			ReportedAt:  now,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		emergency = &c
	}

	writeJSON(w, http.StatusOK, appointmentResponse{Appointment: slot, Emergency: emergency, Warning: warning})
}

type callNextRequest struct {
	Date  string `json:"date"`
	VetID string `json:"vet_id"`
}

func (h *Handler) handleCallNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req callNextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	req.VetID = strings.TrimSpace(req.VetID)
	if req.Date == "" || !isValidDate(req.Date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if req.VetID != "" && !isValidUUID(req.VetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "vet_id must be a UUID when provided")
		return
	}

	slot, err := h.store.CallNext(r.Context(), req.Date, req.VetID, time.Now().UTC())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

type queueResponse struct {
	State models.DailyQueueState   `json:"state"`
	Slots []models.AppointmentSlot `json:"slots"`
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" || !isValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	slots, state, err := h.store.QueueSnapshot(r.Context(), date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, queueResponse{State: state, Slots: slots})
}

func (h *Handler) handleAppointmentByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/appointments/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetAppointment(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "wait" && r.Method == http.MethodGet:
		h.handleWaitEstimate(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "actions" && r.Method == http.MethodPost:
		h.handleAppointmentAction(w, r, parts[0], parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetAppointment(w http.ResponseWriter, r *http.Request, slotID string) {
	if !isValidUUID(slotID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment id must be a UUID")
		return
	}
	slot, found, err := h.store.GetAppointment(r.Context(), slotID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

type waitResponse struct {
	SlotID          string `json:"slot_id"`
	TokenNumber     int    `json:"token_number"`
	LastCalledToken int    `json:"last_called_token"`
	WaitMinutes     int    `json:"wait_minutes"`
}

func (h *Handler) handleWaitEstimate(w http.ResponseWriter, r *http.Request, slotID string) {
	if !isValidUUID(slotID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment id must be a UUID")
		return
	}
	slot, found, err := h.store.GetAppointment(r.Context(), slotID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
		return
	}
	if slot.TokenNumber == nil {
		status, code, msg := mapError(store.ErrNotCheckedIn)
		writeError(w, status, code, msg)
		return
	}

	state, err := h.store.QueueState(r.Context(), slot.Date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, waitResponse{
		SlotID:          slot.SlotID,
		TokenNumber:     *slot.TokenNumber,
		LastCalledToken: state.LastCalledToken,
		WaitMinutes:     store.EstimateWait(state, *slot.TokenNumber),
	})
}

func (h *Handler) handleAppointmentAction(w http.ResponseWriter, r *http.Request, slotID, action string) {
	if !isValidUUID(slotID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment id must be a UUID")
		return
	}

	at := time.Now().UTC()
	var (
		slot models.AppointmentSlot
		err  error
	)
	switch action {
	case "confirm":
		slot, err = h.store.ConfirmAppointment(r.Context(), slotID, at)
	case "check-in":
		slot, err = h.store.CheckIn(r.Context(), slotID, at)
	case "cancel":
		slot, err = h.store.CancelAppointment(r.Context(), slotID, at)
	case "complete":
		slot, err = h.store.CompleteAppointment(r.Context(), slotID, at)
	case "no-show":
		slot, err = h.store.NoShowAppointment(r.Context(), slotID, at)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// ---- emergencies ----

type createEmergencyRequest struct {
	PetID       string `json:"pet_id"`
	OwnerID     string `json:"owner_id"`
	Symptoms    string `json:"symptoms"`
	Severity    string `json:"severity"`
	TriageNotes string `json:"triage_notes"`
}

func (h *Handler) handleEmergencies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreateEmergency(w, r)
	case http.MethodGet:
		h.handleActiveEmergencies(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleCreateEmergency(w http.ResponseWriter, r *http.Request) {
	var req createEmergencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PetID = strings.TrimSpace(req.PetID)
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	req.Severity = strings.TrimSpace(req.Severity)

	if req.PetID == "" || req.OwnerID == "" || req.Symptoms == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id, owner_id, and symptoms are required")
		return
	}
	if !isValidUUID(req.PetID) || !isValidUUID(req.OwnerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pet_id and owner_id must be UUIDs")
		return
	}

	severity := req.Severity
	if severity == "" {
		severity = triage.GradeSeverity(req.Symptoms)
	} else if !models.ValidSeverity(severity) {
		writeError(w, http.StatusBadRequest, "invalid_request", "severity must be one of CRITICAL, SEVERE, MODERATE, MILD")
		return
	}

	c, err := h.store.CreateCase(r.Context(), store.CreateCaseInput{
		PetID:       req.PetID,
		OwnerID:     req.OwnerID,
		Severity:    severity,
		Symptoms:    req.Symptoms,
		TriageNotes: req.TriageNotes,
		ReportedAt:  time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleActiveEmergencies(w http.ResponseWriter, r *http.Request) {
	cases, err := h.store.ActiveCases(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	store.SortActive(cases)
	writeJSON(w, http.StatusOK, cases)
}

type claimRequest struct {
	VetID string `json:"vet_id"`
}

func (h *Handler) handleEmergencyByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/emergencies/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetEmergency(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "actions" && r.Method == http.MethodPost:
		h.handleEmergencyAction(w, r, parts[0], parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetEmergency(w http.ResponseWriter, r *http.Request, caseID string) {
	if !isValidUUID(caseID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "case id must be a UUID")
		return
	}
	c, found, err := h.store.GetCase(r.Context(), caseID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "case_not_found", "case not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleEmergencyAction(w http.ResponseWriter, r *http.Request, caseID, action string) {
	if !isValidUUID(caseID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "case id must be a UUID")
		return
	}

	var (
		c   models.EmergencyCase
		err error
	)
	switch action {
	case "claim":
		var req claimRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.VetID = strings.TrimSpace(req.VetID)
		if req.VetID == "" || !isValidUUID(req.VetID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "vet_id must be a UUID")
			return
		}
		c, err = h.store.ClaimCase(r.Context(), caseID, req.VetID)
	case "resolve":
		c, err = h.store.ResolveCase(r.Context(), caseID)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ---- doctors ----

type doctorStatusRequest struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	LeaveStart    string `json:"leave_start"`
	LeaveEnd      string `json:"leave_end"`
}

func (h *Handler) handleDoctors(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/doctors/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	vetID := parts[0]
	if !isValidUUID(vetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "vet id must be a UUID")
		return
	}

	switch parts[1] {
	case "status":
		switch r.Method {
		case http.MethodGet:
			h.handleGetDoctorStatus(w, r, vetID)
		case http.MethodPut:
			h.handleSetDoctorStatus(w, r, vetID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "bookable":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleBookable(w, r, vetID)
	case "availability":
		switch r.Method {
		case http.MethodGet:
			h.handleListAvailability(w, r, vetID)
		case http.MethodPost:
			h.handlePutAvailability(w, r, vetID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetDoctorStatus(w http.ResponseWriter, r *http.Request, vetID string) {
	status, found, err := h.store.GetDoctorStatus(r.Context(), vetID)
	if err != nil {
		status2, code, msg := mapError(err)
		writeError(w, status2, code, msg)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "doctor_not_found", "doctor status not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleSetDoctorStatus(w http.ResponseWriter, r *http.Request, vetID string) {
	var req doctorStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	req.LeaveStart = strings.TrimSpace(req.LeaveStart)
	req.LeaveEnd = strings.TrimSpace(req.LeaveEnd)

	if !models.ValidDoctorStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid_request", "status is not a recognised doctor status")
		return
	}
	if req.LeaveStart != "" && !isValidDate(req.LeaveStart) {
		writeError(w, http.StatusBadRequest, "invalid_request", "leave_start must be YYYY-MM-DD")
		return
	}
	if req.LeaveEnd != "" && !isValidDate(req.LeaveEnd) {
		writeError(w, http.StatusBadRequest, "invalid_request", "leave_end must be YYYY-MM-DD")
		return
	}

	status, err := h.store.SetDoctorStatus(r.Context(), store.SetDoctorStatusInput{
		VetID:         vetID,
		Status:        req.Status,
		StatusMessage: req.StatusMessage,
		LeaveStart:    req.LeaveStart,
		LeaveEnd:      req.LeaveEnd,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		status2, code, msg := mapError(err)
		writeError(w, status2, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleBookable(w http.ResponseWriter, r *http.Request, vetID string) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	clock := strings.TrimSpace(r.URL.Query().Get("time"))
	if date == "" || !isValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if clock != "" && !isValidClock(clock) {
		writeError(w, http.StatusBadRequest, "invalid_request", "time must be HH:MM")
		return
	}

	var statusPtr *models.DoctorStatus
	status, found, err := h.store.GetDoctorStatus(r.Context(), vetID)
	if err != nil {
		status2, code, msg := mapError(err)
		writeError(w, status2, code, msg)
		return
	}
	if found {
		statusPtr = &status
	}
	rules, err := h.store.ListAvailability(r.Context(), vetID)
	if err != nil {
		status2, code, msg := mapError(err)
		writeError(w, status2, code, msg)
		return
	}

	decision := availability.IsBookable(statusPtr, rules, date, clock, time.Now().UTC().Format(dateLayout))
	if !h.calendar.IsOpen(date) {
		decision = availability.Decision{Reason: "clinic is closed on the requested date"}
	}
	writeJSON(w, http.StatusOK, decision)
}

type availabilityRequest struct {
	RuleID      string `json:"rule_id"`
	Weekday     *int   `json:"weekday"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

func (h *Handler) handleListAvailability(w http.ResponseWriter, r *http.Request, vetID string) {
	rules, err := h.store.ListAvailability(r.Context(), vetID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *Handler) handlePutAvailability(w http.ResponseWriter, r *http.Request, vetID string) {
	var req availabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)

	if req.Weekday == nil && req.Date == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "weekday or date is required")
		return
	}
	if req.Weekday != nil && (*req.Weekday < 0 || *req.Weekday > 6) {
		writeError(w, http.StatusBadRequest, "invalid_request", "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}
	if req.Date != "" && !isValidDate(req.Date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if req.StartTime == "" || req.EndTime == "" || !isValidClock(req.StartTime) || !isValidClock(req.EndTime) {
		writeError(w, http.StatusBadRequest, "invalid_request", "start_time and end_time must be HH:MM")
		return
	}

	rule, err := h.store.PutAvailability(r.Context(), models.DoctorAvailability{
		RuleID:      req.RuleID,
		VetID:       vetID,
		Weekday:     req.Weekday,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// ---- helpers ----

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func isValidDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

func isValidClock(value string) bool {
	_, err := time.Parse(clockLayout, value)
	return err == nil
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrCaseNotFound):
		return http.StatusNotFound, "case_not_found", "case not found"
	case errors.Is(err, store.ErrCaseClosed):
		return http.StatusConflict, "case_closed", "case is no longer active"
	case errors.Is(err, store.ErrAlreadyAssigned):
		return http.StatusConflict, "already_assigned", "case is assigned to another vet"
	case errors.Is(err, store.ErrSlotNotFound):
		return http.StatusNotFound, "appointment_not_found", "appointment not found"
	case errors.Is(err, store.ErrSlotTaken):
		return http.StatusConflict, "slot_taken", "vet already has an appointment at that time"
	case errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "appointment state does not allow this action"
	case errors.Is(err, store.ErrNoAppointment):
		return http.StatusConflict, "queue_empty", "no checked-in appointments waiting"
	case errors.Is(err, store.ErrNotCheckedIn):
		return http.StatusConflict, "not_checked_in", "appointment has no queue token yet"
	case errors.Is(err, store.ErrLeaveRangeRequired):
		return http.StatusBadRequest, "invalid_request", "leave_start and leave_end are required for ON_LEAVE"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

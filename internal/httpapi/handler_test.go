package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abhijithgoodboi/petclinic/internal/availability"
	"github.com/abhijithgoodboi/petclinic/internal/diagnosis"
	"github.com/abhijithgoodboi/petclinic/internal/models"
	"github.com/abhijithgoodboi/petclinic/internal/store"
	"github.com/abhijithgoodboi/petclinic/internal/triage"
)

const (
	petID   = "11111111-1111-1111-1111-111111111111"
	ownerID = "22222222-2222-2222-2222-222222222222"
	vetID   = "33333333-3333-3333-3333-333333333333"
	slotID  = "44444444-4444-4444-4444-444444444444"
	caseID  = "55555555-5555-5555-5555-555555555555"
)

type fakeStore struct {
	createCaseFn        func(ctx context.Context, input store.CreateCaseInput) (models.EmergencyCase, error)
	getCaseFn           func(ctx context.Context, caseID string) (models.EmergencyCase, bool, error)
	activeCasesFn       func(ctx context.Context) ([]models.EmergencyCase, error)
	claimCaseFn         func(ctx context.Context, caseID, vetID string) (models.EmergencyCase, error)
	resolveCaseFn       func(ctx context.Context, caseID string) (models.EmergencyCase, error)
	createAppointmentFn func(ctx context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error)
	getAppointmentFn    func(ctx context.Context, slotID string) (models.AppointmentSlot, bool, error)
	transitionFn        func(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	checkInFn           func(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	callNextFn          func(ctx context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error)
	queueStateFn        func(ctx context.Context, date string) (models.DailyQueueState, error)
	queueSnapshotFn     func(ctx context.Context, date string) ([]models.AppointmentSlot, models.DailyQueueState, error)
	getDoctorStatusFn   func(ctx context.Context, vetID string) (models.DoctorStatus, bool, error)
	setDoctorStatusFn   func(ctx context.Context, input store.SetDoctorStatusInput) (models.DoctorStatus, error)
	listAvailabilityFn  func(ctx context.Context, vetID string) ([]models.DoctorAvailability, error)
	putAvailabilityFn   func(ctx context.Context, rule models.DoctorAvailability) (models.DoctorAvailability, error)
}

func (f fakeStore) CreateCase(ctx context.Context, input store.CreateCaseInput) (models.EmergencyCase, error) {
	if f.createCaseFn == nil {
		return models.EmergencyCase{}, nil
	}
	return f.createCaseFn(ctx, input)
}

func (f fakeStore) GetCase(ctx context.Context, caseID string) (models.EmergencyCase, bool, error) {
	if f.getCaseFn == nil {
		return models.EmergencyCase{}, false, nil
	}
	return f.getCaseFn(ctx, caseID)
}

func (f fakeStore) ActiveCases(ctx context.Context) ([]models.EmergencyCase, error) {
	if f.activeCasesFn == nil {
		return nil, nil
	}
	return f.activeCasesFn(ctx)
}

func (f fakeStore) ClaimCase(ctx context.Context, caseID, vetID string) (models.EmergencyCase, error) {
	if f.claimCaseFn == nil {
		return models.EmergencyCase{}, nil
	}
	return f.claimCaseFn(ctx, caseID, vetID)
}

func (f fakeStore) ResolveCase(ctx context.Context, caseID string) (models.EmergencyCase, error) {
	if f.resolveCaseFn == nil {
		return models.EmergencyCase{}, nil
	}
	return f.resolveCaseFn(ctx, caseID)
}

func (f fakeStore) CreateAppointment(ctx context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error) {
	if f.createAppointmentFn == nil {
		return models.AppointmentSlot{}, nil
	}
	return f.createAppointmentFn(ctx, input)
}

func (f fakeStore) GetAppointment(ctx context.Context, slotID string) (models.AppointmentSlot, bool, error) {
	if f.getAppointmentFn == nil {
		return models.AppointmentSlot{}, false, nil
	}
	return f.getAppointmentFn(ctx, slotID)
}

func (f fakeStore) transitionOrZero(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	if f.transitionFn == nil {
		return models.AppointmentSlot{}, nil
	}
	return f.transitionFn(ctx, slotID, at)
}

func (f fakeStore) ConfirmAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return f.transitionOrZero(ctx, slotID, at)
}

func (f fakeStore) CancelAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return f.transitionOrZero(ctx, slotID, at)
}

func (f fakeStore) CompleteAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return f.transitionOrZero(ctx, slotID, at)
}

func (f fakeStore) NoShowAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return f.transitionOrZero(ctx, slotID, at)
}

func (f fakeStore) CheckIn(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	if f.checkInFn == nil {
		return models.AppointmentSlot{}, nil
	}
	return f.checkInFn(ctx, slotID, at)
}

func (f fakeStore) CallNext(ctx context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error) {
	if f.callNextFn == nil {
		return models.AppointmentSlot{}, nil
	}
	return f.callNextFn(ctx, date, vetID, at)
}

func (f fakeStore) QueueState(ctx context.Context, date string) (models.DailyQueueState, error) {
	if f.queueStateFn == nil {
		return models.DailyQueueState{Date: date}, nil
	}
	return f.queueStateFn(ctx, date)
}

func (f fakeStore) QueueSnapshot(ctx context.Context, date string) ([]models.AppointmentSlot, models.DailyQueueState, error) {
	if f.queueSnapshotFn == nil {
		return nil, models.DailyQueueState{Date: date}, nil
	}
	return f.queueSnapshotFn(ctx, date)
}

func (f fakeStore) AutoNoShow(ctx context.Context, before time.Time, batchSize int) (int, error) {
	return 0, nil
}

func (f fakeStore) GetDoctorStatus(ctx context.Context, vetID string) (models.DoctorStatus, bool, error) {
	if f.getDoctorStatusFn == nil {
		return models.DoctorStatus{}, false, nil
	}
	return f.getDoctorStatusFn(ctx, vetID)
}

func (f fakeStore) SetDoctorStatus(ctx context.Context, input store.SetDoctorStatusInput) (models.DoctorStatus, error) {
	if f.setDoctorStatusFn == nil {
		return models.DoctorStatus{VetID: input.VetID, Status: input.Status}, nil
	}
	return f.setDoctorStatusFn(ctx, input)
}

func (f fakeStore) ListAvailability(ctx context.Context, vetID string) ([]models.DoctorAvailability, error) {
	if f.listAvailabilityFn == nil {
		return nil, nil
	}
	return f.listAvailabilityFn(ctx, vetID)
}

func (f fakeStore) PutAvailability(ctx context.Context, rule models.DoctorAvailability) (models.DoctorAvailability, error) {
	if f.putAvailabilityFn == nil {
		return rule, nil
	}
	return f.putAvailabilityFn(ctx, rule)
}

func newTestHandler(st store.Store, options Options) *Handler {
	return NewHandler(st, triage.DefaultEngine(nil, nil), options)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

// bookingDate returns a date comfortably in the future so the past-date
// check never interferes with booking tests.
func bookingDate() string {
	return time.Now().UTC().AddDate(0, 0, 14).Format(dateLayout)
}

func nextSunday() string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(dateLayout)
}

func TestClassifyEndpoint(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/classify", map[string]string{
		"symptoms": "Dog was hit by a car, severe bleeding",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var verdict models.TriageVerdict
	if err := json.Unmarshal(resp.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if verdict.Priority != models.PriorityEmergency {
		t.Fatalf("priority=%s, want EMERGENCY", verdict.Priority)
	}
}

func TestClassifyRejectsUnknownFields(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()
	resp := doJSON(t, handler, http.MethodPost, "/api/triage/classify", map[string]string{
		"symptoms": "vomiting", "extra": "field",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.Code)
	}
}

func TestAssessmentEndpointUpgradesPriority(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{SeriousDiseases: []string{"parvovirus"}}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/assessment", map[string]interface{}{
		"symptoms": "mild itching near the tail",
		"diagnosis": map[string]interface{}{
			"label":      "parvovirus",
			"confidence": 0.93,
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var result assessmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Priority != models.PriorityHigh {
		t.Fatalf("priority=%s, want HIGH after upgrade", result.Priority)
	}
	if result.Verdict.Priority != models.PriorityNormal {
		t.Fatalf("verdict priority=%s, want NORMAL before upgrade", result.Verdict.Priority)
	}
	if result.Severity != "" {
		t.Fatalf("severity=%q, want empty for a non-emergency verdict", result.Severity)
	}
}

func TestAssessmentGradesEmergencySeverity(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/assessment", map[string]interface{}{
		"symptoms": "hit by car, not moving",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var result assessmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Priority != models.PriorityEmergency {
		t.Fatalf("priority=%s, want EMERGENCY", result.Priority)
	}
	if result.Severity != models.SeverityCritical {
		t.Fatalf("severity=%s, want CRITICAL", result.Severity)
	}
}

type fakeClassifier struct {
	result diagnosis.Result
	err    error
	image  []byte
}

func (f *fakeClassifier) ClassifyImage(_ context.Context, image []byte) (diagnosis.Result, error) {
	f.image = image
	return f.result, f.err
}

func TestAssessmentClassifiesUploadedImage(t *testing.T) {
	classifier := &fakeClassifier{result: diagnosis.Result{Label: "parvovirus", Confidence: 0.9}}
	handler := newTestHandler(fakeStore{}, Options{
		Classifier:      classifier,
		SeriousDiseases: []string{"parvovirus"},
	}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/assessment", map[string]interface{}{
		"symptoms":  "mild itching near the tail",
		"image_b64": base64.StdEncoding.EncodeToString([]byte("raw-image")),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	if string(classifier.image) != "raw-image" {
		t.Fatalf("classifier received %q", classifier.image)
	}

	var result assessmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Priority != models.PriorityHigh {
		t.Fatalf("priority=%s, want HIGH after the image upgrade", result.Priority)
	}
	if result.Diagnosis == nil || result.Diagnosis.Label != "parvovirus" {
		t.Fatalf("diagnosis=%+v", result.Diagnosis)
	}
}

func TestAssessmentImageWithoutClassifier(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/assessment", map[string]interface{}{
		"symptoms":  "mild itching",
		"image_b64": base64.StdEncoding.EncodeToString([]byte("raw-image")),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 without a configured classifier", resp.Code)
	}
}

func TestAssessmentDegradesOnClassifierError(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model offline")}
	handler := newTestHandler(fakeStore{}, Options{
		Classifier:      classifier,
		SeriousDiseases: []string{"parvovirus"},
	}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/triage/assessment", map[string]interface{}{
		"symptoms":  "mild itching near the tail",
		"image_b64": base64.StdEncoding.EncodeToString([]byte("raw-image")),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200 with a symptom-only assessment", resp.Code)
	}

	var result assessmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Diagnosis != nil {
		t.Fatalf("diagnosis=%+v, want none when the model is unreachable", result.Diagnosis)
	}
	if result.Priority != models.PriorityNormal {
		t.Fatalf("priority=%s, want NORMAL from symptoms alone", result.Priority)
	}
}

func TestCreateAppointment(t *testing.T) {
	var captured store.CreateAppointmentInput
	st := fakeStore{
		createAppointmentFn: func(ctx context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error) {
			captured = input
			return models.AppointmentSlot{SlotID: slotID, Status: models.SlotScheduled, Priority: input.Priority}, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments", map[string]interface{}{
		"pet_id":   petID,
		"owner_id": ownerID,
		"date":     bookingDate(),
		"time":     "10:00",
		"reason":   "vomiting blood since morning",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	if captured.Priority != models.PriorityHigh {
		t.Fatalf("priority=%s, want HIGH from the booking reason", captured.Priority)
	}
}

func TestCreateAppointmentOpensEmergencyCase(t *testing.T) {
	var caseInput store.CreateCaseInput
	st := fakeStore{
		createAppointmentFn: func(ctx context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error) {
			return models.AppointmentSlot{SlotID: slotID, Status: models.SlotScheduled, Priority: input.Priority}, nil
		},
		createCaseFn: func(ctx context.Context, input store.CreateCaseInput) (models.EmergencyCase, error) {
			caseInput = input
			return models.EmergencyCase{CaseID: caseID, QueueNumber: 1, Severity: input.Severity}, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments", map[string]interface{}{
		"pet_id":   petID,
		"owner_id": ownerID,
		"date":     bookingDate(),
		"time":     "10:00",
		"reason":   "hit by car, unconscious and not breathing",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var body appointmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Emergency == nil {
		t.Fatal("expected an emergency case alongside the appointment")
	}
	if body.Emergency.CaseID != caseID {
		t.Fatalf("case id=%s, want %s", body.Emergency.CaseID, caseID)
	}
	if caseInput.Severity != models.SeverityCritical {
		t.Fatalf("severity=%s, want CRITICAL", caseInput.Severity)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()

	cases := []map[string]interface{}{
		{"owner_id": ownerID, "date": "2026-01-05", "time": "10:00"},                       // missing pet
		{"pet_id": "not-a-uuid", "owner_id": ownerID, "date": "2026-01-05", "time": "10:00"},
		{"pet_id": petID, "owner_id": ownerID, "date": "05/01/2026", "time": "10:00"},      // bad date
		{"pet_id": petID, "owner_id": ownerID, "date": "2026-01-05", "time": "10:00:00"},   // bad time
		{"pet_id": petID, "owner_id": ownerID, "date": "2026-01-05", "time": "10:00", "vet_id": "bad"},
		{"pet_id": petID, "owner_id": ownerID, "date": "2020-01-01", "time": "10:00"},      // past date
	}
	for i, payload := range cases {
		resp := doJSON(t, handler, http.MethodPost, "/api/appointments", payload)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("case %d: status=%d, want 400 (%s)", i, resp.Code, resp.Body.String())
		}
	}
}

func TestCreateAppointmentClinicClosed(t *testing.T) {
	// Sundays off.
	handler := newTestHandler(fakeStore{}, Options{
		Calendar: availability.NewCalendar([]int{0}, nil),
	}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments", map[string]interface{}{
		"pet_id":   petID,
		"owner_id": ownerID,
		"date":     nextSunday(),
		"time":     "10:00",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.Code)
	}
}

func TestCreateAppointmentVetOnLeave(t *testing.T) {
	st := fakeStore{
		getDoctorStatusFn: func(ctx context.Context, id string) (models.DoctorStatus, bool, error) {
			return models.DoctorStatus{
				VetID:      id,
				Status:     models.DoctorOnLeave,
				LeaveStart: "2000-01-01",
				LeaveEnd:   "2999-12-31",
			}, true, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments", map[string]interface{}{
		"pet_id":   petID,
		"owner_id": ownerID,
		"vet_id":   vetID,
		"date":     bookingDate(),
		"time":     "10:00",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409 (%s)", resp.Code, resp.Body.String())
	}
}

func TestCallNextQueueEmpty(t *testing.T) {
	st := fakeStore{
		callNextFn: func(ctx context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error) {
			return models.AppointmentSlot{}, store.ErrNoAppointment
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments/actions/call-next", map[string]string{
		"date": "2026-01-05",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "queue_empty" {
		t.Fatalf("code=%s, want queue_empty", body.Error.Code)
	}
}

func TestAppointmentActions(t *testing.T) {
	called := ""
	st := fakeStore{
		transitionFn: func(ctx context.Context, id string, at time.Time) (models.AppointmentSlot, error) {
			called = id
			return models.AppointmentSlot{SlotID: id}, nil
		},
		checkInFn: func(ctx context.Context, id string, at time.Time) (models.AppointmentSlot, error) {
			called = id
			return models.AppointmentSlot{SlotID: id}, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	for _, action := range []string{"confirm", "check-in", "cancel", "complete", "no-show"} {
		called = ""
		resp := doJSON(t, handler, http.MethodPost, "/api/appointments/"+slotID+"/actions/"+action, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", action, resp.Code, resp.Body.String())
		}
		if called != slotID {
			t.Fatalf("%s: store called with %q", action, called)
		}
	}

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments/"+slotID+"/actions/unknown", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown action: status=%d, want 404", resp.Code)
	}
}

func TestAppointmentInvalidStateMapsConflict(t *testing.T) {
	st := fakeStore{
		transitionFn: func(ctx context.Context, id string, at time.Time) (models.AppointmentSlot, error) {
			return models.AppointmentSlot{}, store.ErrInvalidState
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/appointments/"+slotID+"/actions/cancel", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.Code)
	}
}

func TestWaitEstimate(t *testing.T) {
	token := 5
	st := fakeStore{
		getAppointmentFn: func(ctx context.Context, id string) (models.AppointmentSlot, bool, error) {
			return models.AppointmentSlot{SlotID: id, Date: "2026-01-05", TokenNumber: &token}, true, nil
		},
		queueStateFn: func(ctx context.Context, date string) (models.DailyQueueState, error) {
			return models.DailyQueueState{Date: date, CurrentToken: 8, LastCalledToken: 2, AvgWaitMinutes: 10}, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodGet, "/api/appointments/"+slotID+"/wait", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var body waitResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.WaitMinutes != 20 {
		t.Fatalf("wait=%d, want (5-2-1)*10 = 20", body.WaitMinutes)
	}
}

func TestWaitEstimateNotCheckedIn(t *testing.T) {
	st := fakeStore{
		getAppointmentFn: func(ctx context.Context, id string) (models.AppointmentSlot, bool, error) {
			return models.AppointmentSlot{SlotID: id, Date: "2026-01-05"}, true, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodGet, "/api/appointments/"+slotID+"/wait", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.Code)
	}
}

func TestCreateEmergencyGradesSeverity(t *testing.T) {
	var captured store.CreateCaseInput
	st := fakeStore{
		createCaseFn: func(ctx context.Context, input store.CreateCaseInput) (models.EmergencyCase, error) {
			captured = input
			return models.EmergencyCase{CaseID: caseID, Severity: input.Severity, QueueNumber: 1}, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/emergencies", map[string]string{
		"pet_id":   petID,
		"owner_id": ownerID,
		"symptoms": "hit by car, not moving",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	if captured.Severity != models.SeverityCritical {
		t.Fatalf("severity=%s, want CRITICAL graded from symptoms", captured.Severity)
	}
}

func TestCreateEmergencyRejectsBadSeverity(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()
	resp := doJSON(t, handler, http.MethodPost, "/api/emergencies", map[string]string{
		"pet_id":   petID,
		"owner_id": ownerID,
		"symptoms": "vomiting",
		"severity": "VERY_BAD",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.Code)
	}
}

func TestClaimConflictMapsConflict(t *testing.T) {
	st := fakeStore{
		claimCaseFn: func(ctx context.Context, id, vet string) (models.EmergencyCase, error) {
			return models.EmergencyCase{}, store.ErrAlreadyAssigned
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPost, "/api/emergencies/"+caseID+"/actions/claim", map[string]string{
		"vet_id": vetID,
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", resp.Code)
	}
}

func TestSetDoctorStatusLeaveValidation(t *testing.T) {
	st := fakeStore{
		setDoctorStatusFn: func(ctx context.Context, input store.SetDoctorStatusInput) (models.DoctorStatus, error) {
			return models.DoctorStatus{}, store.ErrLeaveRangeRequired
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodPut, "/api/doctors/"+vetID+"/status", map[string]string{
		"status": models.DoctorOnLeave,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodPut, "/api/doctors/"+vetID+"/status", map[string]string{
		"status": "NAPPING",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: status=%d, want 400", resp.Code)
	}
}

func TestBookableEndpoint(t *testing.T) {
	st := fakeStore{
		getDoctorStatusFn: func(ctx context.Context, id string) (models.DoctorStatus, bool, error) {
			return models.DoctorStatus{}, false, nil
		},
	}
	handler := newTestHandler(st, Options{}).Routes()

	resp := doJSON(t, handler, http.MethodGet, "/api/doctors/"+vetID+"/bookable?date=2026-01-05&time=10:00", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}

	var decision availability.Decision
	if err := json.Unmarshal(resp.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decision.OK {
		t.Fatalf("decision=%+v, want default allow", decision)
	}
}

func TestQueueEndpointRequiresDate(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()
	resp := doJSON(t, handler, http.MethodGet, "/api/appointments/queue", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()
	resp := doJSON(t, handler, http.MethodGet, "/api/triage/classify", nil)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", resp.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(fakeStore{}, Options{}).Routes()
	resp := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.Code)
	}
}

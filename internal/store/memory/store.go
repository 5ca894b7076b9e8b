// Package memory implements the store on in-process maps. It backs tests and
// DSN-less runs; locking is scoped per date so busy days never serialize each
// other, with separate locks for the emergency cohort and doctor records.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhijithgoodboi/petclinic/internal/models"
	"github.com/abhijithgoodboi/petclinic/internal/store"
)

type dayState struct {
	mu    sync.Mutex
	queue models.DailyQueueState
	slots map[string]*models.AppointmentSlot
}

type Store struct {
	mu        sync.Mutex // guards days and slotDates
	days      map[string]*dayState
	slotDates map[string]string

	casesMu sync.Mutex
	cases   map[string]*models.EmergencyCase

	doctorsMu sync.Mutex
	doctors   map[string]*models.DoctorStatus
	rules     map[string][]models.DoctorAvailability

	avgWaitMinutes int
}

type Options struct {
	AvgWaitMinutes int
}

func NewStore(options Options) *Store {
	avg := options.AvgWaitMinutes
	if avg <= 0 {
		avg = store.DefaultAvgWaitMinutes
	}
	return &Store{
		days:           map[string]*dayState{},
		slotDates:      map[string]string{},
		cases:          map[string]*models.EmergencyCase{},
		doctors:        map[string]*models.DoctorStatus{},
		rules:          map[string][]models.DoctorAvailability{},
		avgWaitMinutes: avg,
	}
}

// day returns the lazily created state for a date. Only the map lookup is
// under the store lock; callers lock the returned day themselves.
func (s *Store) day(date string) *dayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[date]
	if !ok {
		d = &dayState{
			queue: models.DailyQueueState{Date: date, AvgWaitMinutes: s.avgWaitMinutes},
			slots: map[string]*models.AppointmentSlot{},
		}
		s.days[date] = d
	}
	return d
}

func (s *Store) dayForSlot(slotID string) (*dayState, bool) {
	s.mu.Lock()
	date, ok := s.slotDates[slotID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.day(date), true
}

// ---- emergency queue ----

func (s *Store) CreateCase(_ context.Context, input store.CreateCaseInput) (models.EmergencyCase, error) {
	s.casesMu.Lock()
	defer s.casesMu.Unlock()

	open := make([]models.EmergencyCase, 0, len(s.cases))
	for _, c := range s.cases {
		open = append(open, *c)
	}

	reportedAt := input.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}
	c := &models.EmergencyCase{
		CaseID:      uuid.NewString(),
		PetID:       input.PetID,
		OwnerID:     input.OwnerID,
		Severity:    input.Severity,
		Symptoms:    input.Symptoms,
		TriageNotes: input.TriageNotes,
		AssignedVet: input.AssignedVet,
		Status:      models.CaseWaiting,
		QueueNumber: store.NextQueueNumber(open),
		ReportedAt:  reportedAt,
		UpdatedAt:   reportedAt,
	}
	s.cases[c.CaseID] = c
	return *c, nil
}

func (s *Store) GetCase(_ context.Context, caseID string) (models.EmergencyCase, bool, error) {
	s.casesMu.Lock()
	defer s.casesMu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return models.EmergencyCase{}, false, nil
	}
	return *c, true, nil
}

func (s *Store) ActiveCases(_ context.Context) ([]models.EmergencyCase, error) {
	s.casesMu.Lock()
	active := make([]models.EmergencyCase, 0, len(s.cases))
	for _, c := range s.cases {
		if c.Active() {
			active = append(active, *c)
		}
	}
	s.casesMu.Unlock()

	store.SortActive(active)
	return active, nil
}

// ClaimCase is compare-and-set on the assigned vet: a case claimed by a
// different doctor stays untouched, the same doctor claiming twice is ok.
func (s *Store) ClaimCase(_ context.Context, caseID, vetID string) (models.EmergencyCase, error) {
	s.casesMu.Lock()
	defer s.casesMu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return models.EmergencyCase{}, store.ErrCaseNotFound
	}
	if !c.Active() {
		return models.EmergencyCase{}, store.ErrCaseClosed
	}
	if c.AssignedVet != nil && *c.AssignedVet != vetID {
		return models.EmergencyCase{}, store.ErrAlreadyAssigned
	}
	vet := vetID
	c.AssignedVet = &vet
	c.Status = models.CaseInTreatment
	c.UpdatedAt = time.Now().UTC()
	return *c, nil
}

// ResolveCase is permissive: any existing case can be force-cleared.
func (s *Store) ResolveCase(_ context.Context, caseID string) (models.EmergencyCase, error) {
	s.casesMu.Lock()
	defer s.casesMu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return models.EmergencyCase{}, store.ErrCaseNotFound
	}
	c.Status = models.CaseResolved
	c.UpdatedAt = time.Now().UTC()
	return *c, nil
}

// ---- appointments ----

func (s *Store) CreateAppointment(_ context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error) {
	d := s.day(input.Date)
	d.mu.Lock()
	defer d.mu.Unlock()

	if input.VetID != nil {
		for _, existing := range d.slots {
			if existing.VetID == nil || *existing.VetID != *input.VetID {
				continue
			}
			if existing.Time != input.Time {
				continue
			}
			switch existing.Status {
			case models.SlotScheduled, models.SlotConfirmed, models.SlotInProgress:
				return models.AppointmentSlot{}, store.ErrSlotTaken
			}
		}
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	duration := input.DurationMin
	if duration <= 0 {
		duration = 30
	}
	slot := &models.AppointmentSlot{
		SlotID:      uuid.NewString(),
		PetID:       input.PetID,
		OwnerID:     input.OwnerID,
		VetID:       input.VetID,
		Date:        input.Date,
		Time:        input.Time,
		DurationMin: duration,
		Status:      models.SlotScheduled,
		Priority:    input.Priority,
		Reason:      input.Reason,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	d.slots[slot.SlotID] = slot

	s.mu.Lock()
	s.slotDates[slot.SlotID] = slot.Date
	s.mu.Unlock()

	return *slot, nil
}

func (s *Store) GetAppointment(_ context.Context, slotID string) (models.AppointmentSlot, bool, error) {
	d, ok := s.dayForSlot(slotID)
	if !ok {
		return models.AppointmentSlot{}, false, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	slot, ok := d.slots[slotID]
	if !ok {
		return models.AppointmentSlot{}, false, nil
	}
	return *slot, true, nil
}

func (s *Store) ConfirmAppointment(_ context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return s.transition(slotID, "confirm", models.SlotConfirmed, at)
}

func (s *Store) CancelAppointment(_ context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.transition(slotID, "cancel", models.SlotCancelled, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	// An in-progress slot holds its vet; releaseDoctor is a no-op otherwise.
	if slot.VetID != nil {
		s.releaseDoctor(*slot.VetID, slot.SlotID, at)
	}
	return slot, nil
}

func (s *Store) NoShowAppointment(_ context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.transition(slotID, "no_show", models.SlotNoShow, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if slot.VetID != nil {
		s.releaseDoctor(*slot.VetID, slot.SlotID, at)
	}
	return slot, nil
}

func (s *Store) CompleteAppointment(_ context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.transition(slotID, "complete", models.SlotCompleted, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if slot.VetID != nil {
		s.releaseDoctor(*slot.VetID, slot.SlotID, at)
	}
	return slot, nil
}

func (s *Store) transition(slotID, action, toStatus string, at time.Time) (models.AppointmentSlot, error) {
	d, ok := s.dayForSlot(slotID)
	if !ok {
		return models.AppointmentSlot{}, store.ErrSlotNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.slots[slotID]
	if !ok {
		return models.AppointmentSlot{}, store.ErrSlotNotFound
	}
	if !store.ValidTransition(action, slot.Status) {
		return models.AppointmentSlot{}, store.ErrInvalidState
	}
	slot.Status = toStatus
	slot.UpdatedAt = at
	return *slot, nil
}

// CheckIn assigns the next token for the slot's date. Re-checking in returns
// the token already held.
func (s *Store) CheckIn(_ context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	d, ok := s.dayForSlot(slotID)
	if !ok {
		return models.AppointmentSlot{}, store.ErrSlotNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.slots[slotID]
	if !ok {
		return models.AppointmentSlot{}, store.ErrSlotNotFound
	}
	if slot.TokenNumber != nil {
		return *slot, nil
	}
	if !store.ValidTransition("check_in", slot.Status) {
		return models.AppointmentSlot{}, store.ErrInvalidState
	}

	d.queue.CurrentToken++
	d.queue.UpdatedAt = at
	token := d.queue.CurrentToken
	checkIn := at
	slot.TokenNumber = &token
	slot.CheckInTime = &checkIn
	slot.UpdatedAt = at
	return *slot, nil
}

// CallNext serves the smallest uncalled token among confirmed slots for the
// date, advances the last-called marker, and marks the calling vet busy.
func (s *Store) CallNext(_ context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error) {
	d := s.day(date)
	d.mu.Lock()

	var next *models.AppointmentSlot
	for _, slot := range d.slots {
		if slot.Status != models.SlotConfirmed || slot.TokenNumber == nil {
			continue
		}
		if *slot.TokenNumber <= d.queue.LastCalledToken {
			continue
		}
		if next == nil || *slot.TokenNumber < *next.TokenNumber {
			next = slot
		}
	}
	if next == nil {
		d.mu.Unlock()
		return models.AppointmentSlot{}, store.ErrNoAppointment
	}

	store.AdvanceToken(&d.queue, *next.TokenNumber)
	d.queue.UpdatedAt = at
	next.Status = models.SlotInProgress
	next.UpdatedAt = at
	called := *next
	d.mu.Unlock()

	if vetID != "" {
		s.markDoctorBusy(vetID, called.SlotID, at)
	}
	return called, nil
}

func (s *Store) QueueState(_ context.Context, date string) (models.DailyQueueState, error) {
	d := s.day(date)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue, nil
}

// QueueSnapshot returns the date's slots in service order: checked-in slots
// by token first, then the rest by appointment time.
func (s *Store) QueueSnapshot(_ context.Context, date string) ([]models.AppointmentSlot, models.DailyQueueState, error) {
	d := s.day(date)
	d.mu.Lock()
	defer d.mu.Unlock()

	slots := make([]models.AppointmentSlot, 0, len(d.slots))
	for _, slot := range d.slots {
		slots = append(slots, *slot)
	}
	sortSnapshot(slots)
	return slots, d.queue, nil
}

// AutoNoShow marks slots that never checked in and whose scheduled time is
// past the cutoff. Returns how many it flipped, at most batchSize.
func (s *Store) AutoNoShow(_ context.Context, before time.Time, batchSize int) (int, error) {
	s.mu.Lock()
	dates := make([]string, 0, len(s.days))
	for date := range s.days {
		dates = append(dates, date)
	}
	s.mu.Unlock()

	count := 0
	for _, date := range dates {
		if count >= batchSize {
			break
		}
		d := s.day(date)
		d.mu.Lock()
		for _, slot := range d.slots {
			if count >= batchSize {
				break
			}
			if slot.TokenNumber != nil {
				continue
			}
			if slot.Status != models.SlotScheduled && slot.Status != models.SlotConfirmed {
				continue
			}
			if !slotBefore(slot, before) {
				continue
			}
			slot.Status = models.SlotNoShow
			slot.UpdatedAt = before
			count++
		}
		d.mu.Unlock()
	}
	return count, nil
}

func sortSnapshot(slots []models.AppointmentSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		switch {
		case a.TokenNumber != nil && b.TokenNumber != nil:
			return *a.TokenNumber < *b.TokenNumber
		case a.TokenNumber != nil:
			return true
		case b.TokenNumber != nil:
			return false
		case a.Time != b.Time:
			return a.Time < b.Time
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

func slotBefore(slot *models.AppointmentSlot, cutoff time.Time) bool {
	at, err := time.Parse("2006-01-02 15:04", slot.Date+" "+slot.Time)
	if err != nil {
		return false
	}
	return at.Before(cutoff)
}

// ---- doctors ----

func (s *Store) GetDoctorStatus(_ context.Context, vetID string) (models.DoctorStatus, bool, error) {
	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()
	status, ok := s.doctors[vetID]
	if !ok {
		return models.DoctorStatus{}, false, nil
	}
	return *status, true, nil
}

func (s *Store) SetDoctorStatus(_ context.Context, input store.SetDoctorStatusInput) (models.DoctorStatus, error) {
	if input.Status == models.DoctorOnLeave && (input.LeaveStart == "" || input.LeaveEnd == "") {
		return models.DoctorStatus{}, store.ErrLeaveRangeRequired
	}

	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()

	status, ok := s.doctors[input.VetID]
	if !ok {
		status = &models.DoctorStatus{VetID: input.VetID}
		s.doctors[input.VetID] = status
	}
	status.Status = input.Status
	status.StatusMessage = input.StatusMessage
	status.LeaveStart = input.LeaveStart
	status.LeaveEnd = input.LeaveEnd
	status.UpdatedAt = input.UpdatedAt
	return *status, nil
}

func (s *Store) markDoctorBusy(vetID, slotID string, at time.Time) {
	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()
	status, ok := s.doctors[vetID]
	if !ok {
		status = &models.DoctorStatus{VetID: vetID}
		s.doctors[vetID] = status
	}
	slot := slotID
	status.Status = models.DoctorBusy
	status.CurrentAppointment = &slot
	status.UpdatedAt = at
}

func (s *Store) releaseDoctor(vetID, slotID string, at time.Time) {
	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()
	status, ok := s.doctors[vetID]
	if !ok {
		return
	}
	if status.CurrentAppointment == nil || *status.CurrentAppointment != slotID {
		return
	}
	status.Status = models.DoctorAvailable
	status.CurrentAppointment = nil
	status.UpdatedAt = at
}

func (s *Store) ListAvailability(_ context.Context, vetID string) ([]models.DoctorAvailability, error) {
	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()
	rules := make([]models.DoctorAvailability, len(s.rules[vetID]))
	copy(rules, s.rules[vetID])
	return rules, nil
}

func (s *Store) PutAvailability(_ context.Context, rule models.DoctorAvailability) (models.DoctorAvailability, error) {
	if rule.RuleID == "" {
		rule.RuleID = uuid.NewString()
	}
	s.doctorsMu.Lock()
	defer s.doctorsMu.Unlock()
	for i, existing := range s.rules[rule.VetID] {
		if existing.RuleID == rule.RuleID {
			s.rules[rule.VetID][i] = rule
			return rule, nil
		}
	}
	s.rules[rule.VetID] = append(s.rules[rule.VetID], rule)
	return rule, nil
}

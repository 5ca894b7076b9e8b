package store

import (
	"context"
	"time"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

type CreateCaseInput struct {
	PetID       string
	OwnerID     string
	Severity    string
	Symptoms    string
	TriageNotes string
	AssignedVet *string
	ReportedAt  time.Time
}

type CreateAppointmentInput struct {
	PetID       string
	OwnerID     string
	VetID       *string
	Date        string
	Time        string
	DurationMin int
	Reason      string
	Priority    string
	CreatedAt   time.Time
}

type SetDoctorStatusInput struct {
	VetID         string
	Status        string
	StatusMessage string
	LeaveStart    string
	LeaveEnd      string
	UpdatedAt     time.Time
}

// Store is the persistence boundary for the triage and scheduling core. The
// postgres implementation backs production; the memory implementation backs
// tests and DSN-less runs.
type Store interface {
	// Emergency queue. Queue numbers are assigned at creation as max open
	// number + 1; claim is compare-and-set on the assigned vet.
	CreateCase(ctx context.Context, input CreateCaseInput) (models.EmergencyCase, error)
	GetCase(ctx context.Context, caseID string) (models.EmergencyCase, bool, error)
	ActiveCases(ctx context.Context) ([]models.EmergencyCase, error)
	ClaimCase(ctx context.Context, caseID, vetID string) (models.EmergencyCase, error)
	ResolveCase(ctx context.Context, caseID string) (models.EmergencyCase, error)

	// Appointments and the per-date token queue.
	CreateAppointment(ctx context.Context, input CreateAppointmentInput) (models.AppointmentSlot, error)
	GetAppointment(ctx context.Context, slotID string) (models.AppointmentSlot, bool, error)
	ConfirmAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	CancelAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	CompleteAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	NoShowAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	CheckIn(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error)
	CallNext(ctx context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error)
	QueueState(ctx context.Context, date string) (models.DailyQueueState, error)
	QueueSnapshot(ctx context.Context, date string) ([]models.AppointmentSlot, models.DailyQueueState, error)
	AutoNoShow(ctx context.Context, before time.Time, batchSize int) (int, error)

	// Doctor schedule and live status.
	GetDoctorStatus(ctx context.Context, vetID string) (models.DoctorStatus, bool, error)
	SetDoctorStatus(ctx context.Context, input SetDoctorStatusInput) (models.DoctorStatus, error)
	ListAvailability(ctx context.Context, vetID string) ([]models.DoctorAvailability, error)
	PutAvailability(ctx context.Context, rule models.DoctorAvailability) (models.DoctorAvailability, error)
}

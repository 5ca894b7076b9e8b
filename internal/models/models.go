package models

import "time"

// Priority is the triage output for a symptom report.
const (
	PriorityEmergency = "EMERGENCY"
	PriorityHigh      = "HIGH"
	PriorityNormal    = "NORMAL"
	PriorityLow       = "LOW"
)

// Severity is the clinical urgency grade for a confirmed emergency.
const (
	SeverityCritical = "CRITICAL"
	SeveritySevere   = "SEVERE"
	SeverityModerate = "MODERATE"
	SeverityMild     = "MILD"
)

// severityRank orders severities for queue sorting, most urgent first.
var severityRank = map[string]int{
	SeverityCritical: 0,
	SeveritySevere:   1,
	SeverityModerate: 2,
	SeverityMild:     3,
}

// SeverityRank returns the sort rank for a severity. Unknown severities sort
// after MILD so a bad value never jumps the queue.
func SeverityRank(severity string) int {
	rank, ok := severityRank[severity]
	if !ok {
		return len(severityRank)
	}
	return rank
}

// PriorityRank orders priorities, highest urgency first.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityEmergency:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// TriageVerdict is the immutable result of classifying one symptom report.
type TriageVerdict struct {
	Priority   string   `json:"priority"`
	Severity   string   `json:"severity,omitempty"`
	Reason     string   `json:"reason"`
	Source     string   `json:"source"`
	MatchScore *float64 `json:"match_score,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
}

// Emergency case lifecycle.
const (
	CaseWaiting     = "WAITING"
	CaseInTreatment = "IN_TREATMENT"
	CaseStabilized  = "STABILIZED"
	CaseResolved    = "RESOLVED"
	CaseReferred    = "REFERRED"
)

type EmergencyCase struct {
	CaseID      string    `json:"case_id"`
	PetID       string    `json:"pet_id"`
	OwnerID     string    `json:"owner_id"`
	Severity    string    `json:"severity"`
	Symptoms    string    `json:"symptoms"`
	AssignedVet *string   `json:"assigned_vet,omitempty"`
	Status      string    `json:"status"`
	QueueNumber int       `json:"queue_number"`
	TriageNotes string    `json:"triage_notes,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Active reports whether the case still occupies the live queue.
func (c EmergencyCase) Active() bool {
	return c.Status == CaseWaiting || c.Status == CaseInTreatment
}

// Appointment lifecycle.
const (
	SlotScheduled  = "SCHEDULED"
	SlotConfirmed  = "CONFIRMED"
	SlotInProgress = "IN_PROGRESS"
	SlotCompleted  = "COMPLETED"
	SlotCancelled  = "CANCELLED"
	SlotNoShow     = "NO_SHOW"
)

type AppointmentSlot struct {
	SlotID      string     `json:"slot_id"`
	PetID       string     `json:"pet_id"`
	OwnerID     string     `json:"owner_id"`
	VetID       *string    `json:"vet_id,omitempty"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	DurationMin int        `json:"duration_min"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Reason      string     `json:"reason"`
	TokenNumber *int       `json:"token_number,omitempty"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DailyQueueState is the per-date token counter pair. CurrentToken only
// increases, LastCalledToken only increases and never exceeds CurrentToken.
type DailyQueueState struct {
	Date            string    `json:"date"`
	CurrentToken    int       `json:"current_token"`
	LastCalledToken int       `json:"last_called_token"`
	AvgWaitMinutes  int       `json:"avg_wait_minutes"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DoctorAvailability is either a recurring weekday rule (Date empty) or a
// date-specific override (Date set, which wins for that date).
type DoctorAvailability struct {
	RuleID      string `json:"rule_id"`
	VetID       string `json:"vet_id"`
	Weekday     *int   `json:"weekday,omitempty"`
	Date        string `json:"date,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// Doctor status values; absence of a record means AVAILABLE.
const (
	DoctorAvailable = "AVAILABLE"
	DoctorBusy      = "BUSY"
	DoctorOnLeave   = "ON_LEAVE"
	DoctorBreak     = "BREAK"
	DoctorEmergency = "EMERGENCY"
	DoctorOffDuty   = "OFF_DUTY"
)

type DoctorStatus struct {
	VetID              string    `json:"vet_id"`
	Status             string    `json:"status"`
	StatusMessage      string    `json:"status_message,omitempty"`
	LeaveStart         string    `json:"leave_start,omitempty"`
	LeaveEnd           string    `json:"leave_end,omitempty"`
	CurrentAppointment *string   `json:"current_appointment,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ValidSeverity reports whether value is a known severity grade.
func ValidSeverity(value string) bool {
	switch value {
	case SeverityCritical, SeveritySevere, SeverityModerate, SeverityMild:
		return true
	}
	return false
}

// ValidDoctorStatus reports whether value is a known doctor status.
func ValidDoctorStatus(value string) bool {
	switch value {
	case DoctorAvailable, DoctorBusy, DoctorOnLeave, DoctorBreak, DoctorEmergency, DoctorOffDuty:
		return true
	}
	return false
}

package store

import "errors"

var (
	ErrCaseNotFound       = errors.New("emergency case not found")
	ErrCaseClosed         = errors.New("emergency case already closed")
	ErrAlreadyAssigned    = errors.New("case assigned to another doctor")
	ErrSlotNotFound       = errors.New("appointment not found")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrInvalidState       = errors.New("appointment state does not allow this action")
	ErrNoAppointment      = errors.New("no appointment in queue")
	ErrNotCheckedIn       = errors.New("appointment has no token")
	ErrLeaveRangeRequired = errors.New("leave start and end dates required")
)

package availability

import (
	"fmt"
	"time"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// Decision is the gate's answer for one booking request. Warning carries the
// soft-allow note for same-day off-duty doctors; OK stays true in that case.
type Decision struct {
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Warning string `json:"warning,omitempty"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// IsBookable decides whether a doctor can take a booking at date/time. The
// caller passes the doctor's status record (nil when none exists) and every
// availability rule for the doctor; the gate itself touches no storage.
//
// Resolution order: active leave range, date-specific rule, weekday rule,
// then the default-allow branch. Absence of any schedule must never block a
// booking; doctors without a configured schedule are open by default.
func IsBookable(status *models.DoctorStatus, rules []models.DoctorAvailability, date, clock string, today string) Decision {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Decision{OK: false, Reason: "invalid date"}
	}

	warning := ""
	if status != nil {
		if onLeave(status, date) {
			return Decision{
				OK:     false,
				Reason: fmt.Sprintf("doctor on leave %s to %s", status.LeaveStart, status.LeaveEnd),
			}
		}
		if date == today {
			switch status.Status {
			case models.DoctorOnLeave:
				return Decision{OK: false, Reason: "doctor is on leave today"}
			case models.DoctorOffDuty:
				// soft allow: the schedule rules below still apply
				warning = "doctor is currently off-duty; appointment may need confirmation"
			}
		}
	}

	rule := resolveRule(rules, date, int(day.Weekday()))
	if rule == nil {
		// default-allow: no schedule configured
		return Decision{OK: true, Warning: warning}
	}
	if !rule.IsAvailable {
		return Decision{OK: false, Reason: "doctor is not available on this date"}
	}
	if clock != "" && outsideWindow(clock, rule.StartTime, rule.EndTime) {
		return Decision{
			OK:     false,
			Reason: fmt.Sprintf("doctor is only available between %s and %s", rule.StartTime, rule.EndTime),
		}
	}
	return Decision{OK: true, Warning: warning}
}

// resolveRule prefers a date-specific record over a recurring weekday record.
func resolveRule(rules []models.DoctorAvailability, date string, weekday int) *models.DoctorAvailability {
	for i := range rules {
		if rules[i].Date == date {
			return &rules[i]
		}
	}
	for i := range rules {
		if rules[i].Date == "" && rules[i].Weekday != nil && *rules[i].Weekday == weekday {
			return &rules[i]
		}
	}
	return nil
}

func onLeave(status *models.DoctorStatus, date string) bool {
	if status.LeaveStart == "" || status.LeaveEnd == "" {
		return false
	}
	return status.LeaveStart <= date && date <= status.LeaveEnd
}

func outsideWindow(clock, start, end string) bool {
	t, err := time.Parse(timeLayout, clock)
	if err != nil {
		return true
	}
	startT, err := time.Parse(timeLayout, start)
	if err != nil {
		return false
	}
	endT, err := time.Parse(timeLayout, end)
	if err != nil {
		return false
	}
	return t.Before(startT) || t.After(endT)
}

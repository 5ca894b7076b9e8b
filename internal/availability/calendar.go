package availability

import "time"

// Calendar answers the single question the scheduler needs from clinic
// configuration: is the clinic open on date D. Weekly off days use Go's
// weekday numbering (0 = Sunday).
type Calendar struct {
	offDays  map[int]struct{}
	holidays map[string]struct{}
}

func NewCalendar(offDays []int, holidays []string) *Calendar {
	calendar := &Calendar{
		offDays:  make(map[int]struct{}, len(offDays)),
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, day := range offDays {
		calendar.offDays[day] = struct{}{}
	}
	for _, holiday := range holidays {
		if holiday != "" {
			calendar.holidays[holiday] = struct{}{}
		}
	}
	return calendar
}

// IsOpen reports whether the clinic takes appointments on date. Unparseable
// dates report closed; callers validate dates before booking anyway.
func (c *Calendar) IsOpen(date string) bool {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	if _, off := c.offDays[int(day.Weekday())]; off {
		return false
	}
	_, holiday := c.holidays[date]
	return !holiday
}

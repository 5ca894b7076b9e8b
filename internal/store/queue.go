package store

import (
	"fmt"
	"sort"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

// DefaultAvgWaitMinutes is used when a day's queue has no measured average.
const DefaultAvgWaitMinutes = 15

// NextQueueNumber computes the number for a case about to join the queue:
// one past the highest number among still-open cases, or 1 for an empty
// cohort. Numbers are never reused while their cohort is open.
func NextQueueNumber(cases []models.EmergencyCase) int {
	highest := 0
	for _, c := range cases {
		if c.Active() && c.QueueNumber > highest {
			highest = c.QueueNumber
		}
	}
	return highest + 1
}

// SortActive orders cases by clinical urgency: severity rank first, earliest
// report within the same severity. This is the order staff work the queue in;
// queue numbers identify cases but never reorder them.
func SortActive(cases []models.EmergencyCase) {
	sort.SliceStable(cases, func(i, j int) bool {
		ri, rj := models.SeverityRank(cases[i].Severity), models.SeverityRank(cases[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return cases[i].ReportedAt.Before(cases[j].ReportedAt)
	})
}

// EstimateWait returns the minutes a token holder should expect to wait.
// Tokens at or before the last called token are already due.
func EstimateWait(state models.DailyQueueState, token int) int {
	if token <= state.LastCalledToken {
		return 0
	}
	avg := state.AvgWaitMinutes
	if avg <= 0 {
		avg = DefaultAvgWaitMinutes
	}
	return (token - state.LastCalledToken - 1) * avg
}

// AdvanceToken moves the last-called marker forward. Counters only move
// forward; going backward is a programming error, not a recoverable state.
func AdvanceToken(state *models.DailyQueueState, token int) {
	if token <= state.LastCalledToken || token > state.CurrentToken {
		panic(fmt.Sprintf("token counter invariant violated: advance to %d with last_called=%d current=%d",
			token, state.LastCalledToken, state.CurrentToken))
	}
	state.LastCalledToken = token
}

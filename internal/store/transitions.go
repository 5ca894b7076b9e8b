package store

import "github.com/abhijithgoodboi/petclinic/internal/models"

var transitionMap = map[string][]string{
	"confirm":   {models.SlotScheduled},
	"check_in":  {models.SlotConfirmed},
	"call_next": {models.SlotConfirmed},
	"complete":  {models.SlotInProgress},
	"cancel":    {models.SlotScheduled, models.SlotConfirmed, models.SlotInProgress},
	"no_show":   {models.SlotScheduled, models.SlotConfirmed, models.SlotInProgress},
}

// TransitionSources reports the statuses an action may move from.
func TransitionSources(action string) ([]string, bool) {
	allowed, ok := transitionMap[action]
	return allowed, ok
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

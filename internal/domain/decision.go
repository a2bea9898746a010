package domain

import "time"

// QualityDecision is one entry of the selector's bounded decision log:
// what the forecast could support, what was actually selected, and whether
// the call changed the active tier.
type QualityDecision struct {
	Available string    `json:"available"`
	Selected  string    `json:"selected"`
	Changed   bool      `json:"changed"`
	At        time.Time `json:"at"`
}

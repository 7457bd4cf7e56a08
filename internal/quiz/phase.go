package quiz

// Phase tracks where the room's current question is in its lifecycle.
// Messages arriving out of order fail their transition check instead of
// silently mutating state.
//
//	Idle -> Displayed -> AwaitingAnswer -> Rating -> Resolved
//	          ^                  \__________________/   |
//	          |_________________________________________|
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseDisplayed      Phase = "displayed"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseRating         Phase = "rating"
	PhaseResolved       Phase = "resolved"
)

package core

import "sync/atomic"

type Presentation string

const (
	PresentationNone   Presentation = "none"
	PresentationToast  Presentation = "toast"
	PresentationDialog Presentation = "dialog"
)

// Notice is a one-shot, presentation-tagged user-facing message. The consumer
// that observes it first wins: Consume succeeds at most once per notice, so a
// re-observed state cannot re-display the same message.
type Notice struct {
	Message      string
	Presentation Presentation

	consumed atomic.Bool
}

func NewNotice(message string, presentation Presentation) *Notice {
	return &Notice{Message: message, Presentation: presentation}
}

// Consume claims the notice for display. The second and subsequent calls
// return false regardless of caller.
func (n *Notice) Consume() (string, bool) {
	if n == nil {
		return "", false
	}
	if !n.consumed.CompareAndSwap(false, true) {
		return "", false
	}
	return n.Message, true
}

func (n *Notice) Consumed() bool {
	return n != nil && n.consumed.Load()
}

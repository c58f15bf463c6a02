// Package wizard implements the step machine that collects a request and
// decides when an email has to be generated. Transition is pure: it takes a
// Session value and an Event and returns the next Session.
package wizard

import (
	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/locale"
)

// Step is the screen a session is on.
type Step string

const (
	StepLanding       Step = "landing"
	StepRoles         Step = "roles"
	StepContext       Step = "context"
	StepPurpose       Step = "purpose"
	StepClarification Step = "clarification"
	StepResult        Step = "result"
)

// Steps is the linear order of the wizard.
var Steps = []Step{StepLanding, StepRoles, StepContext, StepPurpose, StepClarification, StepResult}

// previous is the Back target of each step that has one.
var previous = map[Step]Step{
	StepContext:       StepRoles,
	StepPurpose:       StepContext,
	StepClarification: StepPurpose,
	StepResult:        StepClarification,
}

// Index is the position of s in Steps, or -1.
func (s Step) Index() int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return -1
}

type GenerationStatus string

const (
	GenerationIdle    GenerationStatus = "idle"
	GenerationPending GenerationStatus = "pending"
	GenerationReady   GenerationStatus = "ready"
	GenerationFailed  GenerationStatus = "failed"
)

// FailedMessage is the user-facing text of a failed generation.
const FailedMessage = "Failed to generate email"

// Generation is the result pane of the Result step. Seq increases with every
// issued request and with every reset; only a reply carrying the current Seq
// is applied. While pending, Result keeps the previous (stale) text.
type Generation struct {
	Seq      uint64           `json:"seq"`
	Status   GenerationStatus `json:"status"`
	Result   string           `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	Revision string           `json:"revision,omitempty"`
}

// Session is everything one wizard run owns.
type Session struct {
	ID           string     `json:"id"`
	Step         Step       `json:"step"`
	HomeConfirm  bool       `json:"homeConfirm"`
	Form         form.State `json:"form"`
	UILocale     locale.Tag `json:"uiLocale"`
	OutputLocale locale.Tag `json:"outputLocale"`
	Generation   Generation `json:"generation"`
}

// New starts a session at Landing. The output locale starts out equal to the
// UI locale and is changed independently afterwards.
func New(id string, ui locale.Tag) Session {
	return Session{
		ID:           id,
		Step:         StepLanding,
		UILocale:     ui,
		OutputLocale: ui,
		Generation:   Generation{Status: GenerationIdle},
	}
}

// Clone returns a copy that shares no mutable state with s.
func (s Session) Clone() Session {
	s.Form = s.Form.Clone()
	return s
}

// Complete applies the reply to request seq. It reports false, leaving s
// untouched, when the reply is stale: a newer request was issued, the session
// was reset, or it is no longer waiting at Result.
func (s Session) Complete(seq uint64, text string, err error) (Session, bool) {
	if seq != s.Generation.Seq || s.Step != StepResult || s.Generation.Status != GenerationPending {
		return s, false
	}
	s = s.Clone()
	if err != nil {
		s.Generation.Status = GenerationFailed
		s.Generation.Error = FailedMessage
		return s, true
	}
	s.Generation.Status = GenerationReady
	s.Generation.Result = text
	s.Generation.Error = ""
	return s, true
}

package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/prompt"
)

var (
	// ErrValidationBlocked means a required field is missing; the action
	// that would advance is disabled.
	ErrValidationBlocked = errors.New("validation blocked")
	// ErrIllegalTransition means the event does not apply to the current step.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrGenerationPending means a generation for the same intent is in flight.
	ErrGenerationPending = errors.New("generation pending")
)

// Generate asks the caller to run one generation. The reply must be handed
// back through Session.Complete with the same Seq.
type Generate struct {
	Seq          uint64
	Form         form.State
	OutputLocale locale.Tag
	Revision     *prompt.Revision
}

// Transition applies ev to s. On error the returned session is s unchanged.
// A non-nil *Generate means a generation was issued.
func Transition(s Session, ev Event) (Session, *Generate, error) {
	next := s.Clone()

	if s.HomeConfirm {
		switch ev.(type) {
		case ConfirmHome, CancelHome, SetUILocale, SetOutputLocale:
		default:
			return s, nil, fmt.Errorf("%w: %s while home confirmation is open", ErrIllegalTransition, ev.Name())
		}
	}

	var gen *Generate
	var err error

	switch e := ev.(type) {
	case Start:
		err = next.expect(ev, StepLanding)
		next.Step = StepRoles

	case SubmitRoles:
		if err = next.expect(ev, StepRoles); err != nil {
			break
		}
		sender, recipient := strings.TrimSpace(e.SenderRole), strings.TrimSpace(e.RecipientRole)
		if sender == "" || recipient == "" {
			err = fmt.Errorf("%w: sender and recipient roles are required", ErrValidationBlocked)
			break
		}
		next.Form.SenderRole = sender
		next.Form.RecipientRole = recipient
		next.Form.ProjectName = strings.TrimSpace(e.ProjectName)
		next.Form.SenderName = strings.TrimSpace(e.SenderName)
		next.Form.RecipientName = strings.TrimSpace(e.RecipientName)
		next.Step = StepContext

	case SubmitContext:
		if err = next.expect(ev, StepContext); err != nil {
			break
		}
		next.Form.ContextText = strings.TrimSpace(e.ContextText)
		next.Step = StepPurpose

	case SkipContext:
		err = next.expect(ev, StepContext)
		next.Step = StepPurpose

	case AttachFile:
		if err = next.expect(ev, StepContext); err != nil {
			break
		}
		f := e.File
		next.Form.IngestedFile = &f

	case RemoveFile:
		err = next.expect(ev, StepContext)
		next.Form.IngestedFile = nil

	case SubmitPurpose:
		if err = next.expect(ev, StepPurpose); err != nil {
			break
		}
		if strings.TrimSpace(e.Purpose) == "" {
			err = fmt.Errorf("%w: purpose is required", ErrValidationBlocked)
			break
		}
		var p form.Purpose
		if p, err = form.ParsePurpose(e.Purpose); err != nil {
			break
		}
		next.Form.Purpose = p
		next.Step = StepClarification

	case SubmitClarifications:
		if err = next.expect(ev, StepClarification); err != nil {
			break
		}
		if err = e.Answers.Validate(); err != nil {
			break
		}
		next.Form.Clarifications = e.Answers.Normalize()
		next.Step = StepResult
		gen = next.issue(nil)

	case Back:
		prev, ok := previous[next.Step]
		if !ok {
			err = fmt.Errorf("%w: no step before %s", ErrIllegalTransition, next.Step)
			break
		}
		if next.Step == StepResult {
			next.invalidate()
		}
		next.Step = prev

	case Home:
		if next.Step == StepLanding {
			err = fmt.Errorf("%w: already at %s", ErrIllegalTransition, StepLanding)
			break
		}
		next.HomeConfirm = true

	case ConfirmHome:
		if !next.HomeConfirm {
			err = fmt.Errorf("%w: home confirmation is not open", ErrIllegalTransition)
			break
		}
		next.reset()

	case CancelHome:
		if !next.HomeConfirm {
			err = fmt.Errorf("%w: home confirmation is not open", ErrIllegalTransition)
			break
		}
		next.HomeConfirm = false

	case SetUILocale:
		next.UILocale = e.Locale

	case SetOutputLocale:
		changed := next.OutputLocale != e.Locale
		next.OutputLocale = e.Locale
		if changed && next.Step == StepResult {
			gen = next.issue(nil)
		}

	case Revise:
		if err = next.expectIdleResult(ev); err != nil {
			break
		}
		instructions := strings.TrimSpace(e.Instructions)
		if instructions == "" {
			err = fmt.Errorf("%w: revision instructions are required", ErrValidationBlocked)
			break
		}
		gen = next.issue(&prompt.Revision{Instructions: instructions, PreviousDraft: next.Generation.Result})

	case Regenerate:
		if err = next.expectIdleResult(ev); err != nil {
			break
		}
		gen = next.issue(nil)

	case DismissError:
		if err = next.expect(ev, StepResult); err != nil {
			break
		}
		if next.Generation.Status != GenerationFailed {
			err = fmt.Errorf("%w: no failed generation to dismiss", ErrIllegalTransition)
			break
		}
		next.Generation.Error = ""
		next.Generation.Status = GenerationIdle
		if next.Generation.Result != "" {
			next.Generation.Status = GenerationReady
		}

	default:
		err = fmt.Errorf("%w: unknown event %T", ErrIllegalTransition, ev)
	}

	if err != nil {
		return s, nil, err
	}
	return next, gen, nil
}

func (s *Session) expect(ev Event, step Step) error {
	if s.Step != step {
		return fmt.Errorf("%w: %s is not allowed at %s", ErrIllegalTransition, ev.Name(), s.Step)
	}
	return nil
}

func (s *Session) expectIdleResult(ev Event) error {
	if err := s.expect(ev, StepResult); err != nil {
		return err
	}
	if s.Generation.Status == GenerationPending {
		return fmt.Errorf("%w: wait for the current email", ErrGenerationPending)
	}
	return nil
}

// issue starts a new generation. Any reply to an earlier Seq becomes stale.
func (s *Session) issue(rev *prompt.Revision) *Generate {
	s.Generation.Seq++
	s.Generation.Status = GenerationPending
	s.Generation.Error = ""
	s.Generation.Revision = ""
	if rev != nil {
		s.Generation.Revision = rev.Instructions
	}
	return &Generate{
		Seq:          s.Generation.Seq,
		Form:         s.Form.Clone(),
		OutputLocale: s.OutputLocale,
		Revision:     rev,
	}
}

// invalidate drops the result pane; replies still in flight become stale.
func (s *Session) invalidate() {
	s.Generation = Generation{Seq: s.Generation.Seq + 1, Status: GenerationIdle}
}

// reset returns to Landing with an empty form. Locale choices survive.
func (s *Session) reset() {
	s.Step = StepLanding
	s.HomeConfirm = false
	s.Form = form.State{}
	s.invalidate()
}

package wizard

import (
	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/locale"
)

// Event is a discrete user action addressed to the controller.
type Event interface {
	// Name is the wire name of the event.
	Name() string
}

type Start struct{}

type SubmitRoles struct {
	SenderRole    string `json:"senderRole"`
	RecipientRole string `json:"recipientRole"`
	ProjectName   string `json:"projectName"`
	SenderName    string `json:"senderName"`
	RecipientName string `json:"recipientName"`
}

type SubmitContext struct {
	ContextText string `json:"contextText"`
}

type SkipContext struct{}

// AttachFile replaces the ingested file. The file must already have passed
// the ingestion policy.
type AttachFile struct {
	File form.File `json:"file"`
}

type RemoveFile struct{}

type SubmitPurpose struct {
	Purpose string `json:"purpose"`
}

type SubmitClarifications struct {
	Answers form.Clarifications `json:"clarifications"`
}

type Back struct{}

type Home struct{}

type ConfirmHome struct{}

type CancelHome struct{}

type SetUILocale struct {
	Locale locale.Tag `json:"locale"`
}

type SetOutputLocale struct {
	Locale locale.Tag `json:"locale"`
}

type Revise struct {
	Instructions string `json:"instructions"`
}

type Regenerate struct{}

// DismissError closes the failure message of the result pane.
type DismissError struct{}

func (Start) Name() string                { return "start" }
func (SubmitRoles) Name() string          { return "submit_roles" }
func (SubmitContext) Name() string        { return "submit_context" }
func (SkipContext) Name() string          { return "skip_context" }
func (AttachFile) Name() string           { return "attach_file" }
func (RemoveFile) Name() string           { return "remove_file" }
func (SubmitPurpose) Name() string        { return "submit_purpose" }
func (SubmitClarifications) Name() string { return "submit_clarifications" }
func (Back) Name() string                 { return "back" }
func (Home) Name() string                 { return "home" }
func (ConfirmHome) Name() string          { return "confirm_home" }
func (CancelHome) Name() string           { return "cancel_home" }
func (SetUILocale) Name() string          { return "set_ui_locale" }
func (SetOutputLocale) Name() string      { return "set_output_locale" }
func (Revise) Name() string               { return "revise" }
func (Regenerate) Name() string           { return "regenerate" }
func (DismissError) Name() string         { return "dismiss_error" }

package api

import (
	"fmt"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/wizard"
)

// eventRequest is the union of every event's fields; Type selects which
// ones are read.
type eventRequest struct {
	Type string `json:"type"`

	SenderRole    string `json:"senderRole"`
	RecipientRole string `json:"recipientRole"`
	ProjectName   string `json:"projectName"`
	SenderName    string `json:"senderName"`
	RecipientName string `json:"recipientName"`

	ContextText    string              `json:"contextText"`
	Purpose        string              `json:"purpose"`
	Clarifications form.Clarifications `json:"clarifications"`
	Locale         string              `json:"locale"`
	Instructions   string              `json:"instructions"`
}

// event converts the request into a wizard event. Files are attached through
// the upload route, so attach_file is not accepted here.
func (req eventRequest) event() (wizard.Event, error) {
	switch req.Type {
	case "start":
		return wizard.Start{}, nil
	case "submit_roles":
		return wizard.SubmitRoles{
			SenderRole:    req.SenderRole,
			RecipientRole: req.RecipientRole,
			ProjectName:   req.ProjectName,
			SenderName:    req.SenderName,
			RecipientName: req.RecipientName,
		}, nil
	case "submit_context":
		return wizard.SubmitContext{ContextText: req.ContextText}, nil
	case "skip_context":
		return wizard.SkipContext{}, nil
	case "remove_file":
		return wizard.RemoveFile{}, nil
	case "submit_purpose":
		return wizard.SubmitPurpose{Purpose: req.Purpose}, nil
	case "submit_clarifications":
		return wizard.SubmitClarifications{Answers: req.Clarifications}, nil
	case "back":
		return wizard.Back{}, nil
	case "home":
		return wizard.Home{}, nil
	case "confirm_home":
		return wizard.ConfirmHome{}, nil
	case "cancel_home":
		return wizard.CancelHome{}, nil
	case "set_ui_locale", "set_output_locale":
		tag, err := locale.Parse(req.Locale)
		if err != nil {
			return nil, err
		}
		if req.Type == "set_ui_locale" {
			return wizard.SetUILocale{Locale: tag}, nil
		}
		return wizard.SetOutputLocale{Locale: tag}, nil
	case "revise":
		return wizard.Revise{Instructions: req.Instructions}, nil
	case "regenerate":
		return wizard.Regenerate{}, nil
	case "dismiss_error":
		return wizard.DismissError{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, req.Type)
	}
}

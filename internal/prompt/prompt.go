// Package prompt builds the request sent to the text generator from a
// wizard's form. Nothing here performs I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/locale"
)

// PrimaryStatus says where the primary context came from.
type PrimaryStatus string

const (
	PrimaryFileContent PrimaryStatus = "file_content"
	PrimaryFileNoText  PrimaryStatus = "file_without_text"
	PrimaryNoFile      PrimaryStatus = "no_file"
)

// Revision asks the generator to adjust a previous draft.
type Revision struct {
	Instructions  string `json:"instructions"`
	PreviousDraft string `json:"previousDraft,omitempty"`
}

// Clarification is one answered question, in question order.
type Clarification struct {
	ID       form.QuestionID `json:"id"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
}

// Payload is the request handed to the generation gateway.
type Payload struct {
	SenderRole    string `json:"senderRole"`
	RecipientRole string `json:"recipientRole"`
	ProjectName   string `json:"projectName,omitempty"`
	SenderName    string `json:"senderName,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`

	Purpose            form.Purpose `json:"purpose"`
	PurposeDescription string       `json:"purposeDescription"`

	PrimaryStatus    PrimaryStatus `json:"primaryStatus"`
	PrimarySource    string        `json:"primarySource,omitempty"`
	PrimaryContext   string        `json:"primaryContext"`
	SecondaryContext string        `json:"secondaryContext"`

	Clarifications []Clarification `json:"clarifications,omitempty"`

	Role         RoleVariant `json:"role"`
	RoleGuidance []string    `json:"roleGuidance"`
	OutputRules  []string    `json:"outputRules"`

	Revision *Revision `json:"revision,omitempty"`

	OutputLocale locale.Tag `json:"outputLocale"`
	Language     string     `json:"language"`
}

// OutputRules constrain the shape of the generated email.
var OutputRules = []string{
	"Output plain text suitable for pasting directly into an email body.",
	"Do not use markdown of any kind.",
	`Do not use bullet symbols such as "-" or "*" and do not use numbered lists.`,
	`Do not include section headers or labels such as "Background:", "Request:" or "Next Step:".`,
	"Do not sound like a report, checklist or template.",
	"Do not mention that you are an AI or that the text was generated.",
}

const (
	noFileText      = "No reference document was provided."
	noSecondaryText = "No additional background was provided."
)

// Build assembles the payload for f written in out. rev may be nil; a
// revision with blank instructions is ignored.
func Build(f form.State, out locale.Tag, rev *Revision) Payload {
	role := ClassifyRole(f.RecipientRole)
	p := Payload{
		SenderRole:         strings.TrimSpace(f.SenderRole),
		RecipientRole:      strings.TrimSpace(f.RecipientRole),
		ProjectName:        strings.TrimSpace(f.ProjectName),
		SenderName:         strings.TrimSpace(f.SenderName),
		RecipientName:      strings.TrimSpace(f.RecipientName),
		Purpose:            f.Purpose,
		PurposeDescription: f.Purpose.Describe(),
		SecondaryContext:   strings.TrimSpace(f.ContextText),
		Role:               role,
		RoleGuidance:       role.Guidance(),
		OutputRules:        OutputRules,
		OutputLocale:       out,
		Language:           out.Language(),
	}

	switch {
	case f.IngestedFile == nil:
		p.PrimaryStatus = PrimaryNoFile
		p.PrimaryContext = noFileText
	case strings.TrimSpace(f.IngestedFile.Content) == "":
		p.PrimaryStatus = PrimaryFileNoText
		p.PrimarySource = f.IngestedFile.Name
		p.PrimaryContext = fmt.Sprintf("A reference document named %q was provided but its text could not be read. Use the file name only as a contextual hint.", f.IngestedFile.Name)
	default:
		p.PrimaryStatus = PrimaryFileContent
		p.PrimarySource = f.IngestedFile.Name
		p.PrimaryContext = strings.TrimSpace(f.IngestedFile.Content)
	}
	if p.SecondaryContext == "" {
		p.SecondaryContext = noSecondaryText
	}

	for _, q := range form.Questions {
		a, ok := f.Clarifications[q.ID]
		if !ok {
			continue
		}
		p.Clarifications = append(p.Clarifications, Clarification{ID: q.ID, Question: q.Prompt, Answer: a.String()})
	}

	if rev != nil && strings.TrimSpace(rev.Instructions) != "" {
		p.Revision = &Revision{
			Instructions:  strings.TrimSpace(rev.Instructions),
			PreviousDraft: strings.TrimSpace(rev.PreviousDraft),
		}
	}
	return p
}

// IsRevision reports whether p asks for a revision of an earlier draft.
func (p Payload) IsRevision() bool {
	return p.Revision != nil
}

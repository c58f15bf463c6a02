// Package form defines the record a wizard session accumulates across steps.
package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPurpose       = errors.New("invalid purpose")
	ErrInvalidClarification = errors.New("invalid clarification")
)

// Purpose is what the sender needs from the recipient.
type Purpose string

const (
	PurposeFeasibility Purpose = "feasibility"
	PurposeSchedule    Purpose = "schedule"
	PurposeRisks       Purpose = "risks"
	PurposeWork        Purpose = "work"
	PurposeOpinion     Purpose = "opinion"
)

// Purposes lists the closed set in display order.
var Purposes = []Purpose{PurposeFeasibility, PurposeSchedule, PurposeRisks, PurposeWork, PurposeOpinion}

// ParsePurpose accepts only members of Purposes.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.TrimSpace(s))
	for _, known := range Purposes {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPurpose, s)
}

// Describe returns the English phrase used in prompts.
func (p Purpose) Describe() string {
	switch p {
	case PurposeFeasibility:
		return "check the feasibility of a plan"
	case PurposeSchedule:
		return "align on the schedule"
	case PurposeRisks:
		return "review potential risks"
	case PurposeWork:
		return "request a piece of work"
	case PurposeOpinion:
		return "ask for an opinion"
	default:
		return string(p)
	}
}

// File is the ingested reference document. Content is empty for formats
// whose text is not extracted.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// State is the accumulated form. The zero value is the initial empty state.
type State struct {
	SenderRole     string         `json:"senderRole"`
	RecipientRole  string         `json:"recipientRole"`
	ProjectName    string         `json:"projectName"`
	SenderName     string         `json:"senderName"`
	RecipientName  string         `json:"recipientName"`
	ContextText    string         `json:"contextText"`
	IngestedFile   *File          `json:"ingestedFile,omitempty"`
	Purpose        Purpose        `json:"purpose"`
	Clarifications Clarifications `json:"clarifications,omitempty"`
}

// Clone returns a deep copy so snapshots never alias the live session.
func (s State) Clone() State {
	out := s
	if s.IngestedFile != nil {
		f := *s.IngestedFile
		out.IngestedFile = &f
	}
	out.Clarifications = s.Clarifications.Clone()
	return out
}

// IsEmpty reports whether s equals the initial state.
func (s State) IsEmpty() bool {
	return s.SenderRole == "" && s.RecipientRole == "" && s.ProjectName == "" &&
		s.SenderName == "" && s.RecipientName == "" && s.ContextText == "" &&
		s.IngestedFile == nil && s.Purpose == "" && len(s.Clarifications) == 0
}

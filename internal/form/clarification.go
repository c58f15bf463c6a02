package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionID names one of the fixed clarification questions.
type QuestionID string

const (
	QuestionDeadline  QuestionID = "deadline"
	QuestionBlocking  QuestionID = "blocking"
	QuestionResources QuestionID = "resources"
)

// AnswerKind is the input type a question takes.
type AnswerKind int

const (
	KindText AnswerKind = iota
	KindFlag
)

// Question is a clarification prompt. Prompt is the English wording sent to
// the generator; display wording comes from the locale tables.
type Question struct {
	ID     QuestionID
	Kind   AnswerKind
	Prompt string
}

// Questions is the fixed question set in display order.
var Questions = []Question{
	{ID: QuestionDeadline, Kind: KindText, Prompt: "Is there a specific deadline or timeframe?"},
	{ID: QuestionBlocking, Kind: KindFlag, Prompt: "Is this request blocking other work?"},
	{ID: QuestionResources, Kind: KindText, Prompt: "What resources or access are needed?"},
}

// LookupQuestion finds a question by id.
func LookupQuestion(id QuestionID) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answer is either free text or a boolean flag. It encodes as a JSON string
// or a JSON boolean.
type Answer struct {
	Kind AnswerKind
	Text string
	Flag bool
}

func TextAnswer(s string) Answer { return Answer{Kind: KindText, Text: s} }
func FlagAnswer(b bool) Answer   { return Answer{Kind: KindFlag, Flag: b} }

// String renders the answer for a prompt.
func (a Answer) String() string {
	if a.Kind == KindFlag {
		if a.Flag {
			return "yes"
		}
		return "no"
	}
	return a.Text
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Kind == KindFlag {
		return json.Marshal(a.Flag)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = FlagAnswer(b)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	default:
		return fmt.Errorf("%w: answer must be a string or boolean, got %s", ErrInvalidClarification, data)
	}
}

// Clarifications maps answered questions to their answers. A missing key
// means the question was not answered.
type Clarifications map[QuestionID]Answer

func (c Clarifications) Clone() Clarifications {
	if c == nil {
		return nil
	}
	out := make(Clarifications, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Validate rejects unknown questions and answers of the wrong kind.
func (c Clarifications) Validate() error {
	for id, a := range c {
		q, ok := LookupQuestion(id)
		if !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidClarification, id)
		}
		if q.Kind != a.Kind {
			return fmt.Errorf("%w: question %q takes a different answer type", ErrInvalidClarification, id)
		}
	}
	return nil
}

// Normalize drops blank text answers so they read as unanswered. Flag answers
// are kept as given.
func (c Clarifications) Normalize() Clarifications {
	out := make(Clarifications, len(c))
	for id, a := range c {
		if a.Kind == KindText {
			a.Text = strings.TrimSpace(a.Text)
			if a.Text == "" {
				continue
			}
		}
		out[id] = a
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

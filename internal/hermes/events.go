// Package hermes publishes wizard generation outcomes over NATS.
package hermes

import "time"

// Subjects for generation outcomes.
const (
	SubjectGenerated = "brief.email.generated"
	SubjectFailed    = "brief.email.failed"
	SubjectWildcard  = "brief.email.>"
)

// GenerationEvent describes one applied generation result. It never carries
// the form contents or the generated text.
type GenerationEvent struct {
	SessionID         string    `json:"session_id"`
	Seq               uint64    `json:"seq"`
	Kind              string    `json:"kind"`
	Provider          string    `json:"provider"`
	Purpose           string    `json:"purpose"`
	RecipientCategory string    `json:"recipient_category"`
	OutputLocale      string    `json:"output_locale"`
	DurationMs        int64     `json:"duration_ms"`
	Error             string    `json:"error,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Subject picks the subject for e.
func (e GenerationEvent) Subject() string {
	if e.Error != "" {
		return SubjectFailed
	}
	return SubjectGenerated
}

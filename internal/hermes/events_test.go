package hermes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerationEventSubject(t *testing.T) {
	ok := GenerationEvent{SessionID: "s1", Seq: 2}
	if ok.Subject() != SubjectGenerated {
		t.Errorf("expected %s, got %s", SubjectGenerated, ok.Subject())
	}

	failed := GenerationEvent{SessionID: "s1", Seq: 3, Error: "generation failed"}
	if failed.Subject() != SubjectFailed {
		t.Errorf("expected %s, got %s", SubjectFailed, failed.Subject())
	}
}

func TestGenerationEventParsing(t *testing.T) {
	raw := `{
		"session_id": "sess-001",
		"seq": 4,
		"kind": "revision",
		"provider": "anthropic",
		"purpose": "schedule",
		"recipient_category": "engineering",
		"output_locale": "ko",
		"duration_ms": 1200,
		"occurred_at": "2026-01-02T03:04:05Z"
	}`

	var e GenerationEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("failed to parse GenerationEvent: %v", err)
	}
	if e.SessionID != "sess-001" {
		t.Errorf("expected session_id 'sess-001', got '%s'", e.SessionID)
	}
	if e.Seq != 4 {
		t.Errorf("expected seq 4, got %d", e.Seq)
	}
	if e.RecipientCategory != "engineering" {
		t.Errorf("expected recipient_category 'engineering', got '%s'", e.RecipientCategory)
	}
	if !e.OccurredAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected occurred_at %v", e.OccurredAt)
	}
}

func TestGenerationEventOmitsEmptyError(t *testing.T) {
	data, err := json.Marshal(GenerationEvent{SessionID: "s"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("expected no error field, got %s", data)
	}
}

func TestSubjectsShareWildcard(t *testing.T) {
	prefix := strings.TrimSuffix(SubjectWildcard, ">")
	for _, s := range []string{SubjectGenerated, SubjectFailed} {
		if !strings.HasPrefix(s, prefix) {
			t.Errorf("subject %s is not matched by %s", s, SubjectWildcard)
		}
	}
}

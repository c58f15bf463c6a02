package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/gateway"
	"github.com/MikeSquared-Agency/brief/internal/gateway/gatewaytest"
	"github.com/MikeSquared-Agency/brief/internal/hermes"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/metrics"
	"github.com/MikeSquared-Agency/brief/internal/store"
	"github.com/MikeSquared-Agency/brief/internal/wizard"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(t *testing.T, model *gatewaytest.Model, opts Options) *Manager {
	t.Helper()
	gw := gateway.New(model, 0, quietLogger(), opts.Metrics)
	m := NewManager(gw, quietLogger(), opts)
	t.Cleanup(m.Close)
	return m
}

// toResult drives a fresh session up to the Result step.
func toResult(t *testing.T, m *Manager, file *form.File) string {
	t.Helper()
	ctx := context.Background()
	id := m.Create(locale.English).ID

	events := []wizard.Event{
		wizard.Start{},
		wizard.SubmitRoles{SenderRole: "Product manager", RecipientRole: "Backend engineer", RecipientName: "Jordan"},
	}
	if file != nil {
		events = append(events, wizard.AttachFile{File: *file})
	}
	events = append(events,
		wizard.SubmitContext{ContextText: "Release planned for May"},
		wizard.SubmitPurpose{Purpose: "schedule"},
		wizard.SubmitClarifications{Answers: form.Clarifications{form.QuestionBlocking: form.FlagAnswer(true)}},
	)
	for _, ev := range events {
		_, err := m.Dispatch(ctx, id, ev)
		require.NoError(t, err, ev.Name())
	}
	return id
}

// metricValue sums every series of a counter or gauge family.
func metricValue(t *testing.T, rec *metrics.Recorder, name string) float64 {
	t.Helper()
	families, err := rec.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
	}
	return total
}

func waitStatus(t *testing.T, m *Manager, id string, status wizard.GenerationStatus) wizard.Session {
	t.Helper()
	var s wizard.Session
	require.Eventually(t, func() bool {
		var err error
		s, err = m.Get(id)
		return err == nil && s.Generation.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return s
}

func TestCreateGetDelete(t *testing.T) {
	m := newManager(t, &gatewaytest.Model{}, Options{})

	s := m.Create(locale.Korean)
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepLanding, s.Step)
	assert.Equal(t, locale.Korean, s.OutputLocale)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, m.Delete(s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(s.ID), ErrNotFound)

	_, err = m.Dispatch(context.Background(), s.ID, wizard.Start{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDispatchWithCancelledContext(t *testing.T) {
	m := newManager(t, &gatewaytest.Model{}, Options{})
	s := m.Create(locale.English)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Dispatch(ctx, s.ID, wizard.Start{})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepLanding, got.Step)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newManager(t, &gatewaytest.Model{}, Options{})
	a := m.Create(locale.English)
	b := m.Create(locale.English)
	assert.NotEqual(t, a.ID, b.ID)

	_, err := m.Dispatch(context.Background(), a.ID, wizard.Start{})
	require.NoError(t, err)

	got, err := m.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepLanding, got.Step)
}

func TestRejectedEventReturnsCurrentSnapshot(t *testing.T) {
	rec := metrics.NewRecorder()
	m := newManager(t, &gatewaytest.Model{}, Options{Metrics: rec})
	s := m.Create(locale.English)

	got, err := m.Dispatch(context.Background(), s.ID, wizard.Back{})
	assert.ErrorIs(t, err, wizard.ErrIllegalTransition)
	assert.Equal(t, s, got)
	assert.Equal(t, 1.0, metricValue(t, rec, "brief_wizard_events_total"))
}

func TestGenerationCompletes(t *testing.T) {
	model := &gatewaytest.Model{Reply: "Hi Jordan,\n\nCould we confirm the May release?"}
	m := newManager(t, model, Options{})
	id := toResult(t, m, nil)

	s := waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, "Hi Jordan,\n\nCould we confirm the May release?", s.Generation.Result)
	assert.Empty(t, s.Generation.Error)
	require.Equal(t, 1, model.Calls())

	user := model.Requests()[0].User
	assert.Contains(t, user, "Release planned for May")
	assert.Contains(t, user, "English")
}

func TestGenerationFailureKeepsSessionUsable(t *testing.T) {
	model := &gatewaytest.Model{Err: errors.New("upstream 529")}
	m := newManager(t, model, Options{})
	id := toResult(t, m, nil)

	s := waitStatus(t, m, id, wizard.GenerationFailed)
	assert.Equal(t, wizard.FailedMessage, s.Generation.Error)
	assert.Equal(t, wizard.StepResult, s.Step)

	model.Err = nil
	model.Reply = "Second try"
	_, err := m.Dispatch(context.Background(), id, wizard.Regenerate{})
	require.NoError(t, err)
	s = waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, "Second try", s.Generation.Result)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	model := &gatewaytest.Model{
		Respond: func(ctx context.Context, req gateway.Request) (string, error) {
			if calls.Add(1) == 1 {
				<-release
				return "first draft", nil
			}
			return "second draft", nil
		},
	}
	rec := metrics.NewRecorder()
	m := newManager(t, model, Options{Metrics: rec})
	id := toResult(t, m, nil)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := m.Dispatch(context.Background(), id, wizard.SetOutputLocale{Locale: locale.Korean})
	require.NoError(t, err)
	s := waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, "second draft", s.Generation.Result)

	close(release)
	require.Eventually(t, func() bool {
		return metricValue(t, rec, "brief_generation_superseded_total") == 1
	}, time.Second, 5*time.Millisecond)

	s, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "second draft", s.Generation.Result)
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	model := &gatewaytest.Model{
		Respond: func(ctx context.Context, req gateway.Request) (string, error) {
			<-release
			return "late draft", nil
		},
	}
	rec := metrics.NewRecorder()
	m := newManager(t, model, Options{Metrics: rec})
	id := toResult(t, m, nil)

	ctx := context.Background()
	_, err := m.Dispatch(ctx, id, wizard.Home{})
	require.NoError(t, err)
	s, err := m.Dispatch(ctx, id, wizard.ConfirmHome{})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepLanding, s.Step)
	assert.True(t, s.Form.IsEmpty())

	close(release)
	require.Eventually(t, func() bool {
		return metricValue(t, rec, "brief_generation_superseded_total") == 1
	}, time.Second, 5*time.Millisecond)

	s, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepLanding, s.Step)
	assert.Empty(t, s.Generation.Result)
	assert.Equal(t, wizard.GenerationIdle, s.Generation.Status)
}

func TestRevisionThreadsPreviousDraft(t *testing.T) {
	model := &gatewaytest.Model{Reply: "Draft one"}
	m := newManager(t, model, Options{})
	id := toResult(t, m, nil)
	waitStatus(t, m, id, wizard.GenerationReady)

	model.Reply = "Draft two"
	s, err := m.Dispatch(context.Background(), id, wizard.Revise{Instructions: "Make it shorter"})
	require.NoError(t, err)
	assert.Equal(t, "Make it shorter", s.Generation.Revision)

	s = waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, "Draft two", s.Generation.Result)

	reqs := model.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].User, "Make it shorter")
	assert.Contains(t, reqs[1].User, "Draft one")
}

func TestSummarizeFilesReplacesContent(t *testing.T) {
	model := &gatewaytest.Model{
		Respond: func(ctx context.Context, req gateway.Request) (string, error) {
			if req.Temperature != nil {
				return "Launch moved to June.", nil
			}
			return "email", nil
		},
	}
	m := newManager(t, model, Options{SummarizeFiles: true})
	id := toResult(t, m, &form.File{Name: "notes.txt", Content: "very long meeting notes"})
	waitStatus(t, m, id, wizard.GenerationReady)

	reqs := model.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].User, "very long meeting notes")
	assert.Contains(t, reqs[1].User, "Launch moved to June.")
	assert.NotContains(t, reqs[1].User, "very long meeting notes")

	s, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "very long meeting notes", s.Form.IngestedFile.Content, "the form keeps the original text")
}

func TestSummarizeFailureDegradesToFileName(t *testing.T) {
	model := &gatewaytest.Model{
		Respond: func(ctx context.Context, req gateway.Request) (string, error) {
			if req.Temperature != nil {
				return "", errors.New("overloaded")
			}
			return "email", nil
		},
	}
	m := newManager(t, model, Options{SummarizeFiles: true})
	id := toResult(t, m, &form.File{Name: "notes.txt", Content: "meeting notes"})
	waitStatus(t, m, id, wizard.GenerationReady)

	reqs := model.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].User, "notes.txt")
	assert.Contains(t, reqs[1].User, "could not be read")
	assert.NotContains(t, reqs[1].User, "meeting notes")
}

func TestSummarizeSkippedWhenDisabled(t *testing.T) {
	model := &gatewaytest.Model{Reply: "email"}
	m := newManager(t, model, Options{})
	id := toResult(t, m, &form.File{Name: "notes.txt", Content: "meeting notes"})
	waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, 1, model.Calls())
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]hermes.GenerationEvent
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]hermes.GenerationEvent)
	}
	p.events[subject] = append(p.events[subject], data.(hermes.GenerationEvent))
	return nil
}

func (p *recordingPublisher) count(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[subject])
}

type recordingJournal struct {
	mu     sync.Mutex
	drafts []store.Draft
	err    error
}

func (j *recordingJournal) RecordDraft(ctx context.Context, d store.Draft) (uuid.UUID, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.drafts = append(j.drafts, d)
	return uuid.New(), j.err
}

func (j *recordingJournal) all() []store.Draft {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]store.Draft(nil), j.drafts...)
}

func TestOutcomesArePublishedAndJournaled(t *testing.T) {
	pub := &recordingPublisher{}
	journal := &recordingJournal{}
	model := &gatewaytest.Model{Reply: "Hello"}
	m := newManager(t, model, Options{Publisher: pub, Journal: journal})
	id := toResult(t, m, nil)

	require.Eventually(t, func() bool { return pub.count(hermes.SubjectGenerated) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(journal.all()) == 1 }, time.Second, 5*time.Millisecond)

	d := journal.all()[0]
	assert.Equal(t, id, d.SessionID)
	assert.Equal(t, "Hello", d.Body)
	assert.Equal(t, metrics.KindEmail, d.Kind)
	assert.Equal(t, "engineering", d.RoleVariant)
	assert.Equal(t, "fake", d.Provider)

	pub.mu.Lock()
	ev := pub.events[hermes.SubjectGenerated][0]
	pub.mu.Unlock()
	assert.Equal(t, id, ev.SessionID)
	assert.Equal(t, "schedule", ev.Purpose)
	assert.Equal(t, "en", ev.OutputLocale)
}

func TestFailuresArePublishedButNotJournaled(t *testing.T) {
	pub := &recordingPublisher{}
	journal := &recordingJournal{}
	model := &gatewaytest.Model{Err: errors.New("boom")}
	m := newManager(t, model, Options{Publisher: pub, Journal: journal})
	id := toResult(t, m, nil)

	waitStatus(t, m, id, wizard.GenerationFailed)
	require.Eventually(t, func() bool { return pub.count(hermes.SubjectFailed) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, journal.all())
}

func TestJournalErrorDoesNotAffectSession(t *testing.T) {
	journal := &recordingJournal{err: errors.New("db down")}
	m := newManager(t, &gatewaytest.Model{Reply: "Hello"}, Options{Journal: journal})
	id := toResult(t, m, nil)

	s := waitStatus(t, m, id, wizard.GenerationReady)
	assert.Equal(t, "Hello", s.Generation.Result)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	rec := metrics.NewRecorder()
	m := newManager(t, &gatewaytest.Model{}, Options{TTL: time.Hour, Metrics: rec})

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old := m.Create(locale.English)
	now = now.Add(50 * time.Minute)
	fresh := m.Create(locale.English)
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	_, err := m.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, metricValue(t, rec, "brief_sessions_active"))
}

func TestGetKeepsSessionAlive(t *testing.T) {
	m := newManager(t, &gatewaytest.Model{}, Options{TTL: time.Hour})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := m.Create(locale.English)
	now = now.Add(45 * time.Minute)
	_, err := m.Get(s.ID)
	require.NoError(t, err)
	now = now.Add(45 * time.Minute)

	assert.Zero(t, m.Sweep())
}

func TestCloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	model := &gatewaytest.Model{
		Respond: func(ctx context.Context, req gateway.Request) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	gw := gateway.New(model, 0, quietLogger(), nil)
	m := NewManager(gw, quietLogger(), Options{})
	id := toResult(t, m, nil)
	<-started

	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	s, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.GenerationFailed, s.Generation.Status)
}

func TestPromptUsesOutputLocaleOnly(t *testing.T) {
	model := &gatewaytest.Model{Reply: "ok"}
	m := newManager(t, model, Options{})
	id := toResult(t, m, nil)
	waitStatus(t, m, id, wizard.GenerationReady)

	_, err := m.Dispatch(context.Background(), id, wizard.SetUILocale{Locale: locale.Korean})
	require.NoError(t, err)
	_, err = m.Dispatch(context.Background(), id, wizard.Regenerate{})
	require.NoError(t, err)
	waitStatus(t, m, id, wizard.GenerationReady)

	reqs := model.Requests()
	require.Len(t, reqs, 2)
	assert.True(t, strings.Contains(reqs[1].User, "English"))
	assert.False(t, strings.Contains(reqs[1].User, "Korean"))
}

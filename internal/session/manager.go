// Package session holds live wizard sessions in memory, applies events to
// them and runs the generations the wizard asks for.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/brief/internal/hermes"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/metrics"
	"github.com/MikeSquared-Agency/brief/internal/prompt"
	"github.com/MikeSquared-Agency/brief/internal/store"
	"github.com/MikeSquared-Agency/brief/internal/wizard"
)

var ErrNotFound = errors.New("session not found")

// Generator is the part of gateway.Gateway the manager needs.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, p prompt.Payload) (string, error)
	Summarize(ctx context.Context, fileName, content string) (string, error)
}

// Publisher receives generation outcomes. *hermes.Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Journal records generated drafts. *store.Store satisfies it.
type Journal interface {
	RecordDraft(ctx context.Context, d store.Draft) (uuid.UUID, error)
}

type Options struct {
	GenerationTimeout time.Duration
	TTL               time.Duration
	SummarizeFiles    bool

	Publisher Publisher
	Journal   Journal
	Metrics   *metrics.Recorder
}

type entry struct {
	session wizard.Session
	touched time.Time
}

type Manager struct {
	gen    Generator
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(gen Generator, logger *slog.Logger, opts Options) *Manager {
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = 120 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		gen:      gen,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Create starts a session at Landing.
func (m *Manager) Create(ui locale.Tag) wizard.Session {
	s := wizard.New(uuid.New().String(), ui)

	m.mu.Lock()
	m.sessions[s.ID] = &entry{session: s, touched: m.now()}
	n := len(m.sessions)
	m.mu.Unlock()

	m.opts.Metrics.SetActiveSessions(n)
	m.logger.Debug("session created", "session_id", s.ID, "ui_locale", ui)
	return s.Clone()
}

func (m *Manager) Get(id string) (wizard.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return wizard.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.touched = m.now()
	return e.session.Clone(), nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.opts.Metrics.SetActiveSessions(n)
	return nil
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Dispatch applies ev to session id. When the transition is refused the
// error is returned together with the unchanged session. A generation the
// transition asks for runs in the background; its result shows up in a later
// snapshot. An already cancelled ctx applies nothing.
func (m *Manager) Dispatch(ctx context.Context, id string, ev wizard.Event) (wizard.Session, error) {
	if err := ctx.Err(); err != nil {
		return wizard.Session{}, fmt.Errorf("dispatch %s: %w", ev.Name(), err)
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return wizard.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next, gen, err := wizard.Transition(e.session, ev)
	e.touched = m.now()
	if err == nil {
		e.session = next
	}
	snapshot := e.session.Clone()
	m.mu.Unlock()

	if err != nil {
		m.opts.Metrics.ObserveEvent(ev.Name(), "rejected")
		m.logger.DebugContext(ctx, "event rejected", "session_id", id, "event", ev.Name(), "step", snapshot.Step, "error", err)
		return snapshot, err
	}
	m.opts.Metrics.ObserveEvent(ev.Name(), "applied")
	m.logger.DebugContext(ctx, "event applied", "session_id", id, "event", ev.Name(), "step", snapshot.Step)

	if gen != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.run(id, *gen)
		}()
	}
	return snapshot, nil
}

// run performs one generation and hands the reply back through the sequence
// guard. It is detached from the request that issued it.
func (m *Manager) run(id string, g wizard.Generate) {
	ctx, cancel := context.WithTimeout(m.ctx, m.opts.GenerationTimeout)
	defer cancel()

	f := g.Form
	if m.opts.SummarizeFiles && f.IngestedFile != nil && f.IngestedFile.Content != "" {
		summary, err := m.gen.Summarize(ctx, f.IngestedFile.Name, f.IngestedFile.Content)
		if err != nil {
			m.logger.Warn("summary unavailable, using file name only", "session_id", id, "file", f.IngestedFile.Name, "error", err)
			f.IngestedFile.Content = ""
		} else {
			f.IngestedFile.Content = summary
		}
	}

	payload := prompt.Build(f, g.OutputLocale, g.Revision)
	start := m.now()
	text, err := m.gen.Generate(ctx, payload)
	elapsed := m.now().Sub(start)

	m.mu.Lock()
	e, ok := m.sessions[id]
	applied := false
	if ok {
		var next wizard.Session
		if next, applied = e.session.Complete(g.Seq, text, err); applied {
			e.session = next
		}
	}
	m.mu.Unlock()

	if !applied {
		m.opts.Metrics.IncSuperseded()
		m.logger.Debug("stale generation discarded", "session_id", id, "seq", g.Seq)
		return
	}
	m.record(id, g, payload, text, err, elapsed)
}

// record publishes the outcome and journals successful drafts. Both sinks are
// optional and their failures are only logged.
func (m *Manager) record(id string, g wizard.Generate, p prompt.Payload, text string, genErr error, elapsed time.Duration) {
	kind := metrics.KindEmail
	if p.IsRevision() {
		kind = metrics.KindRevision
	}

	if m.opts.Publisher != nil {
		ev := hermes.GenerationEvent{
			SessionID:         id,
			Seq:               g.Seq,
			Kind:              kind,
			Provider:          m.gen.Provider(),
			Purpose:           string(p.Purpose),
			RecipientCategory: string(p.Role),
			OutputLocale:      string(g.OutputLocale),
			DurationMs:        elapsed.Milliseconds(),
			OccurredAt:        m.now().UTC(),
		}
		if genErr != nil {
			ev.Error = genErr.Error()
		}
		if err := m.opts.Publisher.Publish(ev.Subject(), ev); err != nil {
			m.logger.Warn("failed to publish generation event", "session_id", id, "error", err)
		}
	}

	if m.opts.Journal != nil && genErr == nil {
		d := store.Draft{
			SessionID:     id,
			Seq:           g.Seq,
			Kind:          kind,
			Purpose:       string(p.Purpose),
			RecipientRole: p.RecipientRole,
			RoleVariant:   string(p.Role),
			OutputLocale:  string(g.OutputLocale),
			Body:          text,
			Provider:      m.gen.Provider(),
		}
		if p.Revision != nil {
			d.Revision = p.Revision.Instructions
		}
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		defer cancel()
		if _, err := m.opts.Journal.RecordDraft(ctx, d); err != nil {
			m.logger.Warn("failed to record draft", "session_id", id, "error", err)
		}
	}
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Pending generations of evicted sessions are discarded.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.opts.TTL)

	m.mu.Lock()
	removed := 0
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	m.opts.Metrics.SetActiveSessions(n)
	if removed > 0 {
		m.logger.Info("evicted idle sessions", "count", removed, "active", n)
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close cancels in-flight generations and waits for them to finish.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

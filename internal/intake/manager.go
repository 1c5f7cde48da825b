// Package intake composes the per-applicant machinery: one wizard, its
// draft autosaver, its recording session and its submission pipeline,
// keyed by session id. It sits above form/draft/media/submit so none of
// them depend on each other.
package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/draft"
	"recruitment-intake/internal/form"
	"recruitment-intake/internal/media"
	"recruitment-intake/internal/submit"
)

// Agent is everything one applicant session owns.
type Agent struct {
	Wizard    *form.Wizard
	Autosaver *draft.Autosaver
	Recording *media.Session
	Pipeline  *submit.Pipeline

	mu      sync.Mutex
	pending *draft.Draft
}

// DraftPending reports whether a saved draft is waiting for the applicant
// to choose restore or discard.
func (a *Agent) DraftPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

func (a *Agent) takePending() *draft.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.pending
	a.pending = nil
	return d
}

// Manager creates, resumes and tears down applicant sessions.
type Manager struct {
	drafts  draft.Store
	gateway submit.Gateway
	journal submit.Journal
	notify  submit.Notifier
	device  media.Device
	cfg     ManagerConfig
	logger  logger.Logger

	mu     sync.Mutex
	agents map[string]*Agent
}

// ManagerConfig bundles the per-session knobs.
type ManagerConfig struct {
	Draft config.DraftConfig
	Media config.MediaConfig
}

// NewManager wires a session manager. journal and notify may be nil.
func NewManager(drafts draft.Store, gateway submit.Gateway, journal submit.Journal, notify submit.Notifier, device media.Device, cfg ManagerConfig, log logger.Logger) *Manager {
	return &Manager{
		drafts:  drafts,
		gateway: gateway,
		journal: journal,
		notify:  notify,
		device:  device,
		cfg:     cfg,
		logger:  log,
		agents:  make(map[string]*Agent),
	}
}

// Create starts a fresh session. When a draft exists for the given id (or
// the generated one), the wizard restores from it; a corrupt or absent
// draft starts blank.
func (m *Manager) Create(ctx context.Context, sessionID string) (*Agent, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	m.mu.Lock()
	if existing, ok := m.agents[sessionID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.mu.Unlock()

	w := form.NewWizard(sessionID)

	saver := draft.NewAutosaver(m.drafts, sessionID, time.Duration(m.cfg.Draft.DebounceMS)*time.Millisecond, m.logger)
	w.OnChange(saver.Note)

	// A surviving draft is not applied here: the applicant decides via
	// RestoreDraft or DiscardDraft.
	var pending *draft.Draft
	if d, err := m.drafts.Load(ctx, sessionID); err == nil && d != nil {
		pending = d
	}

	rec := media.NewSession(m.device, media.Config{
		MaxSeconds:   m.cfg.Media.MaxSeconds,
		TickInterval: time.Duration(m.cfg.Media.TickMS) * time.Millisecond,
		Options:      media.CaptureOptions{MimeType: m.cfg.Media.MimeType, Owner: sessionID},
	}, m.logger)

	agent := &Agent{
		Wizard:    w,
		Autosaver: saver,
		Recording: rec,
		Pipeline:  submit.NewPipeline(m.gateway, m.drafts, m.journal, m.notify, m.logger),
		pending:   pending,
	}

	m.mu.Lock()
	if existing, ok := m.agents[sessionID]; ok {
		// A concurrent Create for the same id won; drop the spare before
		// anyone observes it, so its autosaver and recording own nothing.
		m.mu.Unlock()
		saver.Stop()
		rec.Close()
		return existing, nil
	}
	m.agents[sessionID] = agent
	m.mu.Unlock()

	m.logger.Info("session created", map[string]interface{}{
		"sessionId": sessionID,
	})
	return agent, nil
}

// Get returns an existing session.
func (m *Manager) Get(sessionID string) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[sessionID]
	if !ok {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	return agent, nil
}

// RestoreDraft applies the draft waiting from Create. A no-op when none
// is pending; a second call does nothing.
func (m *Manager) RestoreDraft(sessionID string) error {
	m.mu.Lock()
	agent, ok := m.agents[sessionID]
	m.mu.Unlock()
	if !ok {
		return errors.NewSessionNotFoundError(sessionID)
	}

	d := agent.takePending()
	if d == nil {
		return nil
	}
	agent.Wizard.Restore(d.Form, d.Step)
	m.logger.Info("draft restored", map[string]interface{}{
		"sessionId": sessionID,
		"step":      int(d.Step),
	})
	return nil
}

// DiscardDraft deletes a session's stored draft, drops any pending
// autosave snapshot so the delete is not immediately undone, and forgets
// an unapplied restore candidate.
func (m *Manager) DiscardDraft(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	agent, ok := m.agents[sessionID]
	m.mu.Unlock()
	if ok {
		agent.takePending()
		agent.Autosaver.Discard()
	}
	return m.drafts.Discard(ctx, sessionID)
}

// Teardown releases a session: the pending draft flushes, the recording
// stops and releases its device, and any in-flight submission's result is
// abandoned.
func (m *Manager) Teardown(sessionID string) {
	m.mu.Lock()
	agent, ok := m.agents[sessionID]
	delete(m.agents, sessionID)
	m.mu.Unlock()
	if !ok {
		return
	}

	agent.Autosaver.Flush()
	agent.Autosaver.Stop()
	agent.Recording.Close()
	agent.Pipeline.Abandon()

	m.logger.Info("session torn down", map[string]interface{}{
		"sessionId": sessionID,
	})
}

// Close tears down every live session.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Teardown(id)
	}
}

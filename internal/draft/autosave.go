package draft

import (
	"context"
	"sync"
	"time"

	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/metrics"
	"recruitment-intake/internal/form"
)

// Autosaver debounces wizard changes into draft writes. Storage failures are
// logged and swallowed: autosave must never get in the applicant's way.
type Autosaver struct {
	store     Store
	sessionID string
	debouncer *Debouncer
	logger    logger.Logger

	mu       sync.Mutex
	snapshot *Draft
}

// NewAutosaver creates an autosaver for one wizard session.
func NewAutosaver(store Store, sessionID string, quiet time.Duration, log logger.Logger) *Autosaver {
	a := &Autosaver{
		store:     store,
		sessionID: sessionID,
		logger:    log.WithFields(map[string]interface{}{"sessionId": sessionID}),
	}
	a.debouncer = NewDebouncer(quiet, a.flush)
	return a
}

// Note records the latest form state and arms the debouncer. Intended as a
// wizard OnChange hook.
func (a *Autosaver) Note(f *form.Application, s form.Step) {
	a.mu.Lock()
	a.snapshot = &Draft{Form: f, Step: s, SavedAt: time.Now().UTC()}
	a.mu.Unlock()
	a.debouncer.Trigger()
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	snap := a.snapshot
	a.mu.Unlock()
	if snap == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.store.Save(ctx, a.sessionID, snap); err != nil {
		metrics.DraftWrites.WithLabelValues("error").Inc()
		a.logger.Warn("draft autosave failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.DraftWrites.WithLabelValues("ok").Inc()
}

// Flush forces any pending write through, for teardown paths that want the
// last state persisted.
func (a *Autosaver) Flush() {
	a.debouncer.Flush()
}

// Discard drops the pending snapshot without persisting it. Autosave
// resumes on the next change.
func (a *Autosaver) Discard() {
	a.mu.Lock()
	a.snapshot = nil
	a.mu.Unlock()
	a.debouncer.Drop()
}

// Stop cancels any pending write without persisting.
func (a *Autosaver) Stop() {
	a.debouncer.Cancel()
}

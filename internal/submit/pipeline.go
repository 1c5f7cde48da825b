package submit

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/metrics"
	"recruitment-intake/internal/draft"
	"recruitment-intake/internal/form"
)

// Gateway is the slice of the backend client the pipeline needs.
type Gateway interface {
	Apply(ctx context.Context, body io.Reader, contentType string) (*backend.ApplyResult, error)
}

// Journal records accepted submissions. Optional; a nil journal skips it.
type Journal interface {
	Record(ctx context.Context, applicationID, fullName, email string) error
}

// Notifier confirms accepted submissions to the applicant. Best-effort.
type Notifier interface {
	SubmissionReceived(ctx context.Context, fullName, email, mobile string)
}

// Result is what a completed submission yields.
type Result struct {
	ApplicationID string `json:"applicationId"`
	Message       string `json:"message"`
}

// Pipeline drives one wizard's submissions. At most one submission is in
// flight at a time; a failure leaves the form untouched, a success resets
// the wizard and clears the draft.
type Pipeline struct {
	gateway Gateway
	drafts  draft.Store
	journal Journal
	notify  Notifier
	logger  logger.Logger

	mu       sync.Mutex
	inFlight bool
	epoch    uint64

	percent atomic.Int32
}

// NewPipeline wires a submission pipeline. drafts, journal and notify may be
// nil when the deployment lacks them.
func NewPipeline(gateway Gateway, drafts draft.Store, journal Journal, notify Notifier, log logger.Logger) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		drafts:  drafts,
		journal: journal,
		notify:  notify,
		logger:  log,
	}
}

// Progress returns the current upload percentage, 0-100.
func (p *Pipeline) Progress() int {
	return int(p.percent.Load())
}

// InFlight reports whether a submission is currently running.
func (p *Pipeline) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Abandon invalidates any submission still in flight: its result, when it
// eventually lands, is discarded. Used when the wizard is torn down or reset
// out from under a pending upload.
func (p *Pipeline) Abandon() {
	p.mu.Lock()
	p.epoch++
	p.mu.Unlock()
}

// Submit runs the full pipeline for the wizard's current form. It blocks
// until the backend answers or ctx is done.
func (p *Pipeline) Submit(ctx context.Context, w *form.Wizard) (*Result, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, errors.NewSubmissionInFlightError(w.ID())
	}
	p.inFlight = true
	epoch := p.epoch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	metrics.SubmissionsStarted.Inc()
	start := time.Now()
	p.percent.Store(0)

	f, _ := w.Snapshot()

	// The submit gate is stricter than the step gates and runs regardless of
	// which step the applicant is on.
	if blocked := form.SubmitCheck(f); blocked != nil {
		w.RedirectTo(blocked.Step, blocked.Errors)
		metrics.SubmissionsCompleted.WithLabelValues("blocked").Inc()
		return nil, errors.NewSubmissionBlockedError(int(blocked.Step), blocked.Errors[0])
	}

	body, contentType, err := Encode(f)
	if err != nil {
		metrics.SubmissionsCompleted.WithLabelValues("encode_error").Inc()
		return nil, errors.NewSubmissionFailedError(err)
	}

	total := int64(body.Len())
	reader := newProgressReader(body, total, &p.percent, func(pct int) {
		p.logger.Debug("upload progress", map[string]interface{}{
			"sessionId": w.ID(),
			"percent":   pct,
		})
	})

	applied, err := p.gateway.Apply(ctx, reader, contentType)
	if err != nil {
		// The form is preserved verbatim so the applicant can retry.
		metrics.SubmissionsCompleted.WithLabelValues("error").Inc()
		p.logger.Error("submission failed", map[string]interface{}{
			"sessionId": w.ID(),
			"error":     err.Error(),
		})
		return nil, err
	}

	metrics.UploadBytes.Add(float64(total))

	p.mu.Lock()
	stale := p.epoch != epoch
	p.mu.Unlock()
	if stale {
		// The wizard moved on while the upload was in flight; the result no
		// longer has an owner.
		metrics.SubmissionsCompleted.WithLabelValues("discarded").Inc()
		p.logger.Warn("discarding submission result for abandoned session", map[string]interface{}{
			"sessionId": w.ID(),
		})
		return nil, errors.NewStaleResponseError(epoch, epoch+1)
	}

	p.finish(ctx, w, f, applied)

	metrics.SubmissionsCompleted.WithLabelValues("ok").Inc()
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())

	return &Result{
		ApplicationID: applied.ApplicationID,
		Message:       applied.Message,
	}, nil
}

// finish applies the success effects: journal, notify, reset, draft discard.
func (p *Pipeline) finish(ctx context.Context, w *form.Wizard, f *form.Application, applied *backend.ApplyResult) {
	if p.journal != nil {
		if err := p.journal.Record(ctx, applied.ApplicationID, f.FullName, f.Email); err != nil {
			p.logger.Warn("journal write failed", map[string]interface{}{
				"applicationId": applied.ApplicationID,
				"error":         err.Error(),
			})
		}
	}

	if p.notify != nil {
		p.notify.SubmissionReceived(ctx, f.FullName, f.Email, f.MobileNumber)
	}

	w.Reset()

	if p.drafts != nil {
		if err := p.drafts.Discard(ctx, w.ID()); err != nil {
			p.logger.Warn("draft discard after submit failed", map[string]interface{}{
				"sessionId": w.ID(),
				"error":     err.Error(),
			})
		}
	}
}

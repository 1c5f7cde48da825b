// internal/submit/pipeline_test.go
package submit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"recruitment-intake/internal/backend"
	stderrors "recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/draft"
	"recruitment-intake/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	err     error
	result  *backend.ApplyResult
	release chan struct{} // when non-nil, Apply blocks until closed
}

func (g *fakeGateway) Apply(ctx context.Context, body io.Reader, contentType string) (*backend.ApplyResult, error) {
	g.mu.Lock()
	g.calls++
	release := g.release
	g.mu.Unlock()

	// Consume the body so upload progress advances like a real transport.
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	if g.result != nil {
		return g.result, nil
	}
	return &backend.ApplyResult{ApplicationID: "app-123", Message: "accepted"}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []string
}

func (j *fakeJournal) Record(_ context.Context, applicationID, fullName, email string) error {
	j.mu.Lock()
	j.entries = append(j.entries, applicationID)
	j.mu.Unlock()
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *fakeNotifier) SubmissionReceived(_ context.Context, fullName, email, mobile string) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func createSubmittableWizard() *form.Wizard {
	w := form.NewWizard("sess-1")
	w.Apply(func(a *form.Application) {
		a.FullName = "Asha Verma"
		a.Email = "asha@example.com"
		a.MobileNumber = "9876543210"
		a.DateOfBirth = "1994-03-12"
		a.Gender = "Female"
		a.Category = "General"
	})
	return w
}

// ==========================
// Pipeline
// ==========================

func TestPipeline_SuccessResetsAndClearsDraft(t *testing.T) {
	gateway := &fakeGateway{}
	drafts := draft.NewMemoryStore()
	journal := &fakeJournal{}
	notify := &fakeNotifier{}
	p := NewPipeline(gateway, drafts, journal, notify, logger.NewTestLogger(t))

	w := createSubmittableWizard()
	ctx := context.Background()
	require.NoError(t, drafts.Save(ctx, w.ID(), &draft.Draft{Form: w.Form(), Step: w.Step()}))

	result, err := p.Submit(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, "app-123", result.ApplicationID)

	// Wizard is blank and back at the first step.
	assert.Equal(t, form.StepPersonal, w.Step())
	assert.Empty(t, w.Form().FullName)

	// Draft gone, journal and notifier fired.
	saved, err := drafts.Load(ctx, w.ID())
	require.NoError(t, err)
	assert.Nil(t, saved)
	assert.Equal(t, []string{"app-123"}, journal.entries)
	assert.Equal(t, 1, notify.calls)

	assert.Equal(t, 100, p.Progress())
}

func TestPipeline_FailurePreservesForm(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection reset")}
	p := NewPipeline(gateway, nil, nil, nil, logger.NewTestLogger(t))

	w := createSubmittableWizard()
	w.GoTo(form.StepReview)

	_, err := p.Submit(context.Background(), w)
	require.Error(t, err)

	assert.Equal(t, "Asha Verma", w.Form().FullName, "form untouched after failure")
	assert.Equal(t, form.StepReview, w.Step(), "step untouched after failure")
	assert.False(t, p.InFlight())

	// Retry goes through.
	gateway.err = nil
	_, err = p.Submit(context.Background(), w)
	assert.NoError(t, err)
	assert.Equal(t, 2, gateway.callCount())
}

func TestPipeline_SubmitGateRedirects(t *testing.T) {
	gateway := &fakeGateway{}
	p := NewPipeline(gateway, nil, nil, nil, logger.NewTestLogger(t))

	w := form.NewWizard("sess-1")
	w.Apply(func(a *form.Application) {
		a.FullName = "Asha Verma"
		a.Email = "asha@example.com"
		a.MobileNumber = "9876543210"
		a.DateOfBirth = "1994-03-12"
		// Gender and Category left blank.
	})
	w.GoTo(form.StepReview)

	_, err := p.Submit(context.Background(), w)
	require.Error(t, err)
	stdErr := stderrors.AsStandard(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, stderrors.ErrCodeSubmissionBlocked, stdErr.Code)

	assert.Equal(t, form.StepWorkExperience, w.Step(), "gate failure redirects")
	assert.True(t, w.Validation().HasErrors())
	assert.Equal(t, 0, gateway.callCount(), "nothing sent when the gate fails")
}

func TestPipeline_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	gateway := &fakeGateway{release: release}
	p := NewPipeline(gateway, nil, nil, nil, logger.NewTestLogger(t))

	w := createSubmittableWizard()

	firstDone := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), w)
		firstDone <- err
	}()

	// Wait until the first submission is holding the flight slot.
	for !p.InFlight() {
		time.Sleep(time.Millisecond)
	}

	_, err := p.Submit(context.Background(), w)
	require.Error(t, err)
	stdErr := stderrors.AsStandard(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, stderrors.ErrCodeSubmissionInFlight, stdErr.Code)

	close(release)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, 1, gateway.callCount())

	// The slot is free again.
	_, err = p.Submit(context.Background(), w)
	assert.NoError(t, err)
}

func TestPipeline_AbandonedResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	gateway := &fakeGateway{}
	gateway.release = release
	journal := &fakeJournal{}
	p := NewPipeline(gateway, nil, journal, nil, logger.NewTestLogger(t))

	w := createSubmittableWizard()

	done := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), w)
		done <- err
	}()

	for !p.InFlight() {
		time.Sleep(time.Millisecond)
	}

	// The session moves on while the upload is pending.
	p.Abandon()
	close(release)

	err := <-done
	require.Error(t, err)
	stdErr := stderrors.AsStandard(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, stderrors.ErrCodeStaleResponse, stdErr.Code)

	assert.Empty(t, journal.entries, "discarded result must not reach the journal")
	assert.Equal(t, "Asha Verma", w.Form().FullName, "discarded result must not reset the wizard")
}

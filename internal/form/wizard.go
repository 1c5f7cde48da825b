package form

import (
	"sync"
)

// Direction is the navigation hint carried alongside step changes. It drives
// transition animation only and never affects behavior.
type Direction int

const (
	DirNone     Direction = 0
	DirForward  Direction = 1
	DirBackward Direction = -1
)

// Wizard tracks one applicant's walk through the form. Forward navigation is
// gated on the current step validating; backward and direct jumps are not.
type Wizard struct {
	mu sync.Mutex

	id         string
	form       *Application
	step       Step
	dir        Direction
	validation StepErrors
	onChange   func(*Application, Step)
}

// NewWizard starts a wizard at the first step with a blank form.
func NewWizard(id string) *Wizard {
	return &Wizard{
		id:   id,
		form: NewApplication(),
	}
}

// ID returns the wizard session id.
func (w *Wizard) ID() string {
	return w.id
}

// OnChange registers a hook invoked after every form or step mutation. The
// draft autosaver hangs off this.
func (w *Wizard) OnChange(fn func(*Application, Step)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Form returns the current form. Callers mutate it only through Apply.
// Anything that serializes concurrently with mutations uses Snapshot instead.
func (w *Wizard) Form() *Application {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Snapshot returns a copy of the form and the current step, detached from
// later mutations. Marshal paths use it so encoding never races Apply.
func (w *Wizard) Snapshot() (*Application, Step) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Clone(), w.step
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Direction returns the last navigation direction.
func (w *Wizard) Direction() Direction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Validation returns the most recent step validation outcome.
func (w *Wizard) Validation() StepErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validation
}

// Apply mutates the form under the wizard lock and fires the change hook.
// The hook sees a detached copy so it may hold or marshal it freely.
func (w *Wizard) Apply(mutate func(*Application)) {
	w.mu.Lock()
	mutate(w.form)
	form, step, hook := w.form.Clone(), w.step, w.onChange
	w.mu.Unlock()

	if hook != nil {
		hook(form, step)
	}
}

// Next validates the current step and advances when it passes. It returns
// the validation outcome; callers display the errors when HasErrors.
func (w *Wizard) Next() StepErrors {
	w.mu.Lock()
	errs := ValidateStep(w.step, w.form)
	w.validation = StepErrors{Step: w.step, Errors: errs}
	result := w.validation
	if len(errs) == 0 && w.step < StepCount-1 {
		w.step++
		w.dir = DirForward
	}
	form, step, hook := w.form.Clone(), w.step, w.onChange
	w.mu.Unlock()

	if hook != nil {
		hook(form, step)
	}
	return result
}

// Back moves to the previous step unconditionally.
func (w *Wizard) Back() {
	w.mu.Lock()
	if w.step > 0 {
		w.step--
		w.dir = DirBackward
	}
	form, step, hook := w.form.Clone(), w.step, w.onChange
	w.mu.Unlock()

	if hook != nil {
		hook(form, step)
	}
}

// GoTo jumps straight to a step, as the step rail allows. No validation gate;
// only forward motion via Next is gated.
func (w *Wizard) GoTo(s Step) {
	if !s.Valid() {
		return
	}
	w.mu.Lock()
	switch {
	case s > w.step:
		w.dir = DirForward
	case s < w.step:
		w.dir = DirBackward
	}
	w.step = s
	form, step, hook := w.form.Clone(), w.step, w.onChange
	w.mu.Unlock()

	if hook != nil {
		hook(form, step)
	}
}

// Restore replaces the wizard's form and step from a saved draft.
func (w *Wizard) Restore(f *Application, s Step) {
	if !s.Valid() {
		s = StepPersonal
	}
	w.mu.Lock()
	w.form = f
	w.step = s
	w.dir = DirNone
	w.validation = StepErrors{}
	w.mu.Unlock()
}

// Reset clears the wizard back to a blank form at the first step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	w.form = NewApplication()
	w.step = StepPersonal
	w.dir = DirNone
	w.validation = StepErrors{}
	w.mu.Unlock()
}

// RedirectTo moves to the step the submit gate named, without touching the
// form.
func (w *Wizard) RedirectTo(s Step, errs []string) {
	if !s.Valid() {
		return
	}
	w.mu.Lock()
	w.step = s
	w.dir = DirNone
	w.validation = StepErrors{Step: s, Errors: errs}
	w.mu.Unlock()
}

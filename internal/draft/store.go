// Package draft persists in-progress application forms so an applicant can
// leave and pick up where they stopped.
package draft

import (
	"context"
	"time"

	"recruitment-intake/internal/form"
)

// Draft is the saved wizard snapshot: the form plus the step the applicant
// was on.
type Draft struct {
	Form    *form.Application `json:"form"`
	Step    form.Step         `json:"step"`
	SavedAt time.Time         `json:"savedAt"`
}

// Store is the persistence port for drafts. Load returns (nil, nil) when no
// draft exists for the session.
type Store interface {
	Save(ctx context.Context, sessionID string, d *Draft) error
	Load(ctx context.Context, sessionID string) (*Draft, error)
	Discard(ctx context.Context, sessionID string) error
}

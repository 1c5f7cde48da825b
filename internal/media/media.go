// Package media captures the applicant's intro video: a short recording with
// a hard duration cap, finalized into a single artifact.
package media

import "context"

// State is the recording session lifecycle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateFinalizing:
		return "finalizing"
	}
	return "unknown"
}

// CaptureOptions selects the capture profile. LowBandwidth asks the device
// for a reduced 640x360 stream.
type CaptureOptions struct {
	LowBandwidth bool
	MimeType     string
	// Owner identifies who the capture belongs to. Devices that multiplex
	// streams, like PushHub, route by it.
	Owner string
}

// Device is the capture hardware port. Acquire may fail when the device is
// busy or permission is denied.
type Device interface {
	Acquire(ctx context.Context, opts CaptureOptions) (Stream, error)
}

// Stream is one acquired capture stream. Chunks closes when the device ends
// the stream on its own. Release must be safe to call more than once.
type Stream interface {
	Chunks() <-chan []byte
	MimeType() string
	Release()
}

// Artifact is a finalized recording.
type Artifact struct {
	FileName        string
	MimeType        string
	Data            []byte
	DurationSeconds int
}

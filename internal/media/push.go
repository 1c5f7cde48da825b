package media

import (
	"context"
	"fmt"
	"sync"

	"recruitment-intake/internal/common/errors"
)

// PushHub is a Device fed over the wire instead of local hardware: the
// client captures with its own recorder and posts chunks as they become
// available. Streams are keyed by the owner named in CaptureOptions and
// Push routes a chunk to that owner's live stream.
type PushHub struct {
	mu      sync.Mutex
	streams map[string]*pushStream
}

// NewPushHub creates an empty hub.
func NewPushHub() *PushHub {
	return &PushHub{streams: make(map[string]*pushStream)}
}

// Acquire opens a stream for opts.Owner. One live stream per owner.
func (h *PushHub) Acquire(_ context.Context, opts CaptureOptions) (Stream, error) {
	if opts.Owner == "" {
		return nil, fmt.Errorf("push capture requires an owner")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.streams[opts.Owner]; busy {
		return nil, fmt.Errorf("capture for %q is already active", opts.Owner)
	}

	mime := opts.MimeType
	if mime == "" {
		mime = "video/webm"
	}
	st := &pushStream{
		hub:   h,
		owner: opts.Owner,
		mime:  mime,
		ch:    make(chan []byte, 64),
	}
	h.streams[opts.Owner] = st
	return st, nil
}

// Push hands a chunk to the owner's live stream. Pushing with no stream
// open, or faster than the session drains, is an error the client should
// surface and retry after.
func (h *PushHub) Push(owner string, chunk []byte) error {
	h.mu.Lock()
	st := h.streams[owner]
	h.mu.Unlock()

	if st == nil {
		return errors.NewRecordingStateError("idle", "push")
	}
	select {
	case st.ch <- chunk:
		return nil
	default:
		return fmt.Errorf("capture buffer for %q is full", owner)
	}
}

// Active reports whether the owner has a live stream.
func (h *PushHub) Active(owner string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.streams[owner] != nil
}

func (h *PushHub) release(owner string, st *pushStream) {
	h.mu.Lock()
	if h.streams[owner] == st {
		delete(h.streams, owner)
	}
	h.mu.Unlock()
}

// pushStream leaves its channel open for its lifetime; Release only drops
// the routing entry, so a late Push fails cleanly instead of panicking.
type pushStream struct {
	hub   *PushHub
	owner string
	mime  string
	ch    chan []byte
	once  sync.Once
}

func (s *pushStream) Chunks() <-chan []byte { return s.ch }
func (s *pushStream) MimeType() string      { return s.mime }
func (s *pushStream) Release() {
	s.once.Do(func() { s.hub.release(s.owner, s) })
}

package media

import (
	"context"
	"sync"
	"time"

	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/metrics"
)

// Config holds the session limits. Ticks is injectable for tests; when nil
// the session runs its own ticker at TickInterval.
type Config struct {
	MaxSeconds   int
	TickInterval time.Duration
	Options      CaptureOptions
	Ticks        <-chan time.Time
}

// Session drives one recording through idle → recording → finalizing → idle.
// Stop is idempotent and every exit path releases the device.
type Session struct {
	mu sync.Mutex

	device Device
	cfg    Config
	logger logger.Logger

	state    State
	elapsed  int
	chunks   [][]byte
	stream   Stream
	stopOnce *sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	artifact *Artifact
}

// NewSession creates an idle session over the given device.
func NewSession(device Device, cfg Config, log logger.Logger) *Session {
	if cfg.MaxSeconds <= 0 || cfg.MaxSeconds > 60 {
		cfg.MaxSeconds = 60
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Session{
		device: device,
		cfg:    cfg,
		logger: log,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds recorded so far.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Artifact returns the finalized recording, or nil before the first
// completed take.
func (s *Session) Artifact() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// Start acquires the device and begins capturing. Only valid from idle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return errors.NewRecordingStateError(state.String(), "start")
	}
	s.mu.Unlock()

	stream, err := s.device.Acquire(ctx, s.cfg.Options)
	if err != nil {
		return errors.NewDeviceUnavailableError(err)
	}

	ticks := s.cfg.Ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(s.cfg.TickInterval)
		ticks = ticker.C
	}

	s.mu.Lock()
	s.state = StateRecording
	s.elapsed = 0
	s.chunks = nil
	s.stream = stream
	s.stopOnce = &sync.Once{}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	metrics.RecordingsActive.Inc()

	go func() {
		defer close(done)
		if ticker != nil {
			defer ticker.Stop()
		}
		s.run(stream, ticks)
	}()

	return nil
}

func (s *Session) run(stream Stream, ticks <-chan time.Time) {
	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				// Device ended the stream on its own.
				s.finalize(stream)
				return
			}
			if len(chunk) > 0 {
				s.mu.Lock()
				s.chunks = append(s.chunks, chunk)
				s.mu.Unlock()
			}
		case <-ticks:
			s.mu.Lock()
			s.elapsed++
			reached := s.elapsed >= s.cfg.MaxSeconds
			if reached {
				s.elapsed = s.cfg.MaxSeconds
			}
			s.mu.Unlock()
			if reached {
				s.logger.Info("recording limit reached, auto-stopping", map[string]interface{}{
					"limitSeconds": s.cfg.MaxSeconds,
				})
				s.finalize(stream)
				return
			}
		case <-s.stopCh:
			s.finalize(stream)
			return
		}
	}
}

// finalize drains buffered chunks into an artifact and releases the device.
func (s *Session) finalize(stream Stream) {
	s.mu.Lock()
	s.state = StateFinalizing
	s.mu.Unlock()

	// Collect anything the device flushed before the stop landed.
	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				goto assembled
			}
			if len(chunk) > 0 {
				s.mu.Lock()
				s.chunks = append(s.chunks, chunk)
				s.mu.Unlock()
			}
		default:
			goto assembled
		}
	}

assembled:
	stream.Release()

	s.mu.Lock()
	var size int
	for _, c := range s.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range s.chunks {
		data = append(data, c...)
	}
	s.artifact = &Artifact{
		FileName:        "intro.webm",
		MimeType:        stream.MimeType(),
		Data:            data,
		DurationSeconds: s.elapsed,
	}
	duration := s.elapsed
	s.chunks = nil
	s.stream = nil
	s.state = StateIdle
	s.mu.Unlock()

	metrics.RecordingsActive.Dec()
	metrics.RecordingDuration.Observe(float64(duration))
}

// Stop ends an in-flight recording. Calling it in any other state, or twice,
// is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != StateRecording || s.stopOnce == nil {
		s.mu.Unlock()
		return
	}
	once := s.stopOnce
	stopCh := s.stopCh
	done := s.done
	s.mu.Unlock()

	once.Do(func() { close(stopCh) })
	<-done
}

// Reset discards the last take and returns the session to idle, stopping
// first if a recording is in flight.
func (s *Session) Reset() {
	s.Stop()
	s.mu.Lock()
	s.artifact = nil
	s.elapsed = 0
	s.mu.Unlock()
}

// Close tears the session down; used on wizard teardown so no stream
// outlives its owner.
func (s *Session) Close() {
	s.Stop()
}

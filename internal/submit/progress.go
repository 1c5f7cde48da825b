package submit

import (
	"io"
	"math"
	"sync/atomic"
)

// progressReader reports whole-number upload percentages as the transport
// consumes the body.
type progressReader struct {
	inner   io.Reader
	total   int64
	loaded  int64
	percent *atomic.Int32
	onStep  func(percent int)
}

func newProgressReader(inner io.Reader, total int64, percent *atomic.Int32, onStep func(int)) *progressReader {
	return &progressReader{
		inner:   inner,
		total:   total,
		percent: percent,
		onStep:  onStep,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 && r.total > 0 {
		r.loaded += int64(n)
		pct := int32(math.Round(float64(r.loaded) / float64(r.total) * 100))
		if pct > 100 {
			pct = 100
		}
		if old := r.percent.Load(); pct != old {
			r.percent.Store(pct)
			if r.onStep != nil {
				r.onStep(int(pct))
			}
		}
	}
	return n, err
}

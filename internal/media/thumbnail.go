package media

import (
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/form"
)

// Thumbnailer extracts a still frame from a finalized recording. Thumbnail
// extraction is best-effort everywhere it is used: a failure costs the
// thumbnail, never the recording.
type Thumbnailer interface {
	Thumbnail(artifact *Artifact, width int) (*form.Attachment, error)
}

// NoopThumbnailer is used when no frame extractor is configured.
type NoopThumbnailer struct{}

func (NoopThumbnailer) Thumbnail(*Artifact, int) (*form.Attachment, error) {
	return nil, nil
}

// BestEffortThumbnail runs the thumbnailer and logs rather than propagates
// any failure.
func BestEffortThumbnail(th Thumbnailer, artifact *Artifact, width int, log logger.Logger) *form.Attachment {
	if th == nil || artifact == nil {
		return nil
	}
	thumb, err := th.Thumbnail(artifact, width)
	if err != nil {
		log.Warn("thumbnail extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return thumb
}

package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/form"
	"recruitment-intake/internal/media"
)

type recordingStatus struct {
	State    string `json:"state"`
	Elapsed  int    `json:"elapsed"`
	Recorded bool   `json:"recorded"`
	FileName string `json:"fileName,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

func statusOf(rec *media.Session) recordingStatus {
	st := recordingStatus{
		State:   rec.State().String(),
		Elapsed: rec.Elapsed(),
	}
	if artifact := rec.Artifact(); artifact != nil {
		st.Recorded = true
		st.FileName = artifact.FileName
		st.Duration = artifact.DurationSeconds
	}
	return st
}

func (s *Server) recordingStatus(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, statusOf(agent.Recording))
}

// recordingChunk accepts one raw capture chunk from the client's recorder
// and routes it into the live stream.
func (s *Server) recordingChunk(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	if s.deps.Capture == nil {
		fail(c, errors.NewValidationFailedError("chunk push is not supported by this deployment"))
		return
	}

	chunk, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, errors.NewValidationFailedError("unreadable chunk: "+err.Error()))
		return
	}
	if err := s.deps.Capture.Push(agent.Wizard.ID(), chunk); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOf(agent.Recording))
}

func (s *Server) recordingStart(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	if err := agent.Recording.Start(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOf(agent.Recording))
}

// recordingStop finalizes the take and attaches it to the form, with a
// best-effort thumbnail.
func (s *Server) recordingStop(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	agent.Recording.Stop()

	artifact := agent.Recording.Artifact()
	if artifact != nil {
		video := &form.Attachment{
			FileName:    artifact.FileName,
			ContentType: artifact.MimeType,
			Data:        artifact.Data,
		}
		thumb := media.BestEffortThumbnail(s.deps.Thumbnailer, artifact, s.thumbWidth, s.deps.Logger)

		if s.deps.Blobs != nil {
			key := agent.Wizard.ID() + "/introVideo/" + artifact.FileName
			if err := s.deps.Blobs.Put(c.Request.Context(), key, artifact.Data, artifact.MimeType); err != nil {
				fail(c, err)
				return
			}
		}

		agent.Wizard.Apply(func(f *form.Application) {
			f.IntroVideo = video
			f.IntroThumbnail = thumb
		})
	}

	c.JSON(http.StatusOK, statusOf(agent.Recording))
}

// recordingReset discards the previous take so the applicant can record
// again.
func (s *Server) recordingReset(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	agent.Recording.Reset()
	agent.Wizard.Apply(func(f *form.Application) {
		f.IntroVideo = nil
		f.IntroThumbnail = nil
	})
	c.JSON(http.StatusOK, statusOf(agent.Recording))
}

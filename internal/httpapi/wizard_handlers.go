package httpapi

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/form"
	"recruitment-intake/internal/intake"
)

type sessionState struct {
	SessionID  string            `json:"sessionId"`
	Step       int               `json:"step"`
	StepLabel  string            `json:"stepLabel"`
	Direction  int               `json:"direction"`
	Form       *form.Application `json:"form"`
	Validation form.StepErrors   `json:"validation"`
	// DraftAvailable signals a saved draft is waiting for the applicant to
	// restore or discard.
	DraftAvailable bool `json:"draftAvailable"`
}

func stateOf(agent *intake.Agent) sessionState {
	w := agent.Wizard
	f, step := w.Snapshot()
	return sessionState{
		SessionID:      w.ID(),
		Step:           int(step),
		StepLabel:      step.String(),
		Direction:      int(w.Direction()),
		Form:           f,
		Validation:     w.Validation(),
		DraftAvailable: agent.DraftPending(),
	}
}

func (s *Server) agent(c *gin.Context) (*intake.Agent, bool) {
	agent, err := s.deps.Manager.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return agent, true
}

func (s *Server) createSession(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	// An empty body is fine; the server generates an id.
	_ = c.ShouldBindJSON(&body)

	agent, err := s.deps.Manager.Create(c.Request.Context(), body.SessionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, stateOf(agent))
}

func (s *Server) getSession(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(agent))
}

func (s *Server) teardownSession(c *gin.Context) {
	s.deps.Manager.Teardown(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// updateForm replaces the form's data fields. Attachments are uploaded
// through the file endpoints and survive a form update.
func (s *Server) updateForm(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	var incoming form.Application
	if err := c.ShouldBindJSON(&incoming); err != nil {
		fail(c, errors.NewValidationFailedError("invalid form payload: "+err.Error()))
		return
	}

	agent.Wizard.Apply(func(f *form.Application) {
		photo, resume, video, thumb := f.Photo, f.Resume, f.IntroVideo, f.IntroThumbnail
		*f = incoming
		f.Photo, f.Resume, f.IntroVideo, f.IntroThumbnail = photo, resume, video, thumb
	})
	c.JSON(http.StatusOK, stateOf(agent))
}

func (s *Server) stepNext(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	outcome := agent.Wizard.Next()
	status := http.StatusOK
	if outcome.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, stateOf(agent))
}

func (s *Server) stepBack(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	agent.Wizard.Back()
	c.JSON(http.StatusOK, stateOf(agent))
}

func (s *Server) stepGoTo(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	var body struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.NewValidationFailedError("invalid step payload: "+err.Error()))
		return
	}

	agent.Wizard.GoTo(form.Step(body.Step))
	c.JSON(http.StatusOK, stateOf(agent))
}

// uploadFile attaches one of the binary fields. The bytes also land in the
// blob store when one is configured.
func (s *Server) uploadFile(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	field := c.Param("field")
	switch field {
	case "photo", "resume", "introVideo", "introThumbnail":
	default:
		fail(c, errors.NewValidationFailedError("unknown file field: "+field))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, errors.NewValidationFailedError("missing file part: "+err.Error()))
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, errors.NewValidationFailedError("unreadable file: "+err.Error()))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, errors.NewValidationFailedError("unreadable file: "+err.Error()))
		return
	}

	attachment := &form.Attachment{
		FileName:    filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	if s.deps.Blobs != nil {
		key := agent.Wizard.ID() + "/" + field + "/" + attachment.FileName
		if err := s.deps.Blobs.Put(c.Request.Context(), key, data, attachment.ContentType); err != nil {
			fail(c, err)
			return
		}
	}

	agent.Wizard.Apply(func(app *form.Application) {
		switch field {
		case "photo":
			app.Photo = attachment
		case "resume":
			app.Resume = attachment
		case "introVideo":
			app.IntroVideo = attachment
		case "introThumbnail":
			app.IntroThumbnail = attachment
		}
	})
	c.JSON(http.StatusOK, gin.H{
		"field":    field,
		"fileName": attachment.FileName,
		"size":     len(data),
	})
}

func (s *Server) restoreDraft(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	if err := s.deps.Manager.RestoreDraft(agent.Wizard.ID()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(agent))
}

func (s *Server) discardDraft(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	if err := s.deps.Manager.DiscardDraft(c.Request.Context(), agent.Wizard.ID()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) submitApplication(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}

	result, err := agent.Pipeline.Submit(c.Request.Context(), agent.Wizard)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) submitProgress(c *gin.Context) {
	agent, ok := s.agent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"inFlight": agent.Pipeline.InFlight(),
		"percent":  agent.Pipeline.Progress(),
	})
}

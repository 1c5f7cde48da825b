package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruitment-intake/internal/board"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/journal"
	"recruitment-intake/internal/session"
)

// sessionToken returns the caller's bearer token for forwarding to the
// backend, "" when anonymous.
func sessionToken(c *gin.Context) string {
	return session.FromContext(c).Token()
}

func (s *Server) listOpenings(c *gin.Context) {
	jobs, err := s.deps.Board.Openings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.deps.Board.Companies(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

func (s *Server) postJob(c *gin.Context) {
	var posting board.Posting
	if err := c.ShouldBindJSON(&posting); err != nil {
		fail(c, errors.NewValidationFailedError("invalid posting payload: "+err.Error()))
		return
	}

	if err := s.deps.Board.Post(c.Request.Context(), posting, sessionToken(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Job posted"})
}

// recentSubmissions lists the latest journaled applications. Deployments
// without a journal answer with an empty list.
func (s *Server) recentSubmissions(c *gin.Context) {
	if s.deps.Journal == nil {
		c.JSON(http.StatusOK, gin.H{"data": []journal.Entry{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := s.deps.Journal.Recent(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

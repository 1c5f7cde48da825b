package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/search"
)

func (s *Server) editCriteria(c *gin.Context) {
	var incoming search.Criteria
	if err := c.ShouldBindJSON(&incoming); err != nil {
		fail(c, errors.NewValidationFailedError("invalid criteria payload: "+err.Error()))
		return
	}

	v := s.view(c.Param("viewId"))
	v.Edit(func(cr *search.Criteria) { *cr = incoming })
	c.JSON(http.StatusOK, v.Criteria())
}

func (s *Server) applySearch(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	if err := v.Apply(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":  v.Rows(),
		"total": len(v.Results()),
	})
}

func (s *Server) clearSearch(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	v.Clear()
	c.JSON(http.StatusOK, v.Criteria())
}

func (s *Server) clearGeneralSearch(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	v.ClearGeneral()
	c.JSON(http.StatusOK, v.Criteria())
}

func (s *Server) searchRows(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	c.JSON(http.StatusOK, gin.H{
		"rows":    v.Rows(),
		"total":   len(v.Results()),
		"loading": v.Loading(),
	})
}

func (s *Server) columnValues(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	column := c.Param("column")
	c.JSON(http.StatusOK, gin.H{
		"values":  v.ColumnValues(column),
		"applied": v.ColumnFilter(column),
	})
}

func (s *Server) setColumnFilter(c *gin.Context) {
	var body struct {
		Values []string `json:"values"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.NewValidationFailedError("invalid filter payload: "+err.Error()))
		return
	}

	v := s.view(c.Param("viewId"))
	v.SetColumnFilter(c.Param("column"), body.Values)
	c.JSON(http.StatusOK, gin.H{"rows": v.Rows()})
}

func (s *Server) clearColumnFilter(c *gin.Context) {
	v := s.view(c.Param("viewId"))
	v.ClearColumnFilter(c.Param("column"))
	c.JSON(http.StatusOK, gin.H{"rows": v.Rows()})
}

// ==========================
// Stage sheet
// ==========================

func (s *Server) stageSheetRefresh(c *gin.Context) {
	sh := s.sheet(c.Param("jobId"))
	token := sessionToken(c)
	if err := sh.Refresh(c.Request.Context(), token); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": sh.Rows()})
}

func (s *Server) stageSheetRows(c *gin.Context) {
	sh := s.sheet(c.Param("jobId"))
	c.JSON(http.StatusOK, gin.H{"rows": sh.Rows()})
}

func (s *Server) stageSheetQuickFilters(c *gin.Context) {
	var body search.QuickFilters
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.NewValidationFailedError("invalid filter payload: "+err.Error()))
		return
	}

	sh := s.sheet(c.Param("jobId"))
	sh.SetQuickFilters(body)
	c.JSON(http.StatusOK, gin.H{"rows": sh.Rows()})
}

func (s *Server) stageSheetColumnFilter(c *gin.Context) {
	var body struct {
		Values []string `json:"values"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.NewValidationFailedError("invalid filter payload: "+err.Error()))
		return
	}

	sh := s.sheet(c.Param("jobId"))
	sh.SetColumnFilter(c.Param("column"), body.Values)
	c.JSON(http.StatusOK, gin.H{"rows": sh.Rows()})
}

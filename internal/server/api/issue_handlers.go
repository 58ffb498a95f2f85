package api

import (
	"net/http"

	"github.com/akash0382/ApniSec/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) listIssues(c *gin.Context) {
	list, err := s.issues.List(c.Request.Context(), userID(c), c.Query("type"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newIssueViews(list), "")
}

func (s *Server) getIssue(c *gin.Context) {
	issue, err := s.issues.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newIssueView(issue), "")
}

func (s *Server) createIssue(c *gin.Context) {
	var in services.CreateIssueInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	issue, err := s.issues.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, newIssueView(issue), "Issue created successfully")
}

func (s *Server) updateIssue(c *gin.Context) {
	var in services.UpdateIssueInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	issue, err := s.issues.Update(c.Request.Context(), c.Param("id"), userID(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, newIssueView(issue), "Issue updated successfully")
}

func (s *Server) deleteIssue(c *gin.Context) {
	if err := s.issues.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Issue deleted successfully")
}

func (s *Server) createEvidence(c *gin.Context) {
	up, err := s.issues.CreateEvidenceUpload(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, evidenceView{Key: up.Key, URL: up.URL}, "")
}

func (s *Server) getEvidence(c *gin.Context) {
	url, err := s.issues.EvidenceDownloadURL(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, evidenceView{URL: url}, "")
}

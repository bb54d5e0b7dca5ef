package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/model"
)

type createIdeaRequest struct {
	Title       string      `json:"title" binding:"required"`
	TargetDate  *model.Date `json:"target_date" binding:"required"`
	Description *string     `json:"description"`
}

func (s *Server) handleCreateIdea(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	idea, err := s.store.CreateIdea(c.Request.Context(), req.Title, *req.TargetDate, req.Description)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idea)
}

func (s *Server) handleGetIdea(c *gin.Context) {
	idea, err := s.store.GetIdea(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, idea)
}

// handleUpdateIdea distinguishes an absent key from an explicit null:
// {"description": null} clears the description, {} leaves it alone.
func (s *Server) handleUpdateIdea(c *gin.Context) {
	var patch model.IdeaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	idea, err := s.store.UpdateIdea(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, idea)
}

func (s *Server) handleToggleIdea(c *gin.Context) {
	idea, err := s.store.ToggleIdeaCompletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, idea)
}

func (s *Server) handleDeleteIdea(c *gin.Context) {
	if err := s.store.DeleteIdea(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
)

// templateResponse adds the derived average rating.
type templateResponse struct {
	model.Template
	Rating *float64 `json:"rating"`
}

func newTemplateResponse(t *model.Template) templateResponse {
	return templateResponse{Template: *t, Rating: t.Rating()}
}

type createTemplateRequest struct {
	Name     string  `json:"name" binding:"required"`
	Body     string  `json:"body" binding:"required"`
	Category *string `json:"category"`
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

type ratingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

func (s *Server) handleListTemplates(c *gin.Context) {
	templates, err := s.store.ListTemplates(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, newTemplateResponse(&templates[i]))
	}
	RespondOK(c, out)
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := s.store.CreateTemplate(c.Request.Context(), store.NewTemplate{
		Name:     req.Name,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTemplateResponse(t))
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	var patch model.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := s.store.UpdateTemplate(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, newTemplateResponse(t))
}

func (s *Server) handleSetTemplateFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := s.store.SetTemplateFavorite(c.Request.Context(), c.Param("id"), *req.Favorite)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, newTemplateResponse(t))
}

func (s *Server) handleRateTemplate(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := s.store.RateTemplate(c.Request.Context(), c.Param("id"), *req.Rating)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTemplateResponse(t))
}

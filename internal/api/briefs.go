package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/model"
	"github.com/nhle/contenthub/internal/store"
)

type updateBriefRequest struct {
	Content  model.BriefContent `json:"content"`
	Autosave bool               `json:"autosave"`
	Label    string             `json:"label"`
}

type restoreResponse struct {
	Brief        *model.Brief        `json:"brief"`
	RestoredFrom *model.BriefVersion `json:"restored_from"`
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// handleGetBrief returns the idea's brief, creating an empty one on first
// access.
func (s *Server) handleGetBrief(c *gin.Context) {
	brief, err := s.store.GetOrCreateBrief(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, brief)
}

func (s *Server) handleUpdateBrief(c *gin.Context) {
	var req updateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	brief, err := s.store.UpdateBrief(c.Request.Context(), c.Param("id"), req.Content, store.BriefWriteOptions{
		Autosave: req.Autosave,
		Label:    req.Label,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, brief)
}

func (s *Server) handleListBriefVersions(c *gin.Context) {
	limit := store.DefaultVersionLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			respondDomainError(c, model.Invalid("limit", "must be between 1 and 100"))
			return
		}
		limit = n
	}

	ideaID := c.Param("id")
	if _, err := s.store.GetIdea(c.Request.Context(), ideaID); err != nil {
		respondDomainError(c, err)
		return
	}

	versions, err := s.store.ListBriefVersions(c.Request.Context(), ideaID, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if versions == nil {
		versions = []model.BriefVersion{}
	}
	RespondOK(c, versions)
}

// handleRestoreBriefVersion applies an earlier version as the current brief
// and records the restore as a new version. A version of another idea is
// reported as not found.
func (s *Server) handleRestoreBriefVersion(c *gin.Context) {
	ctx := c.Request.Context()
	ideaID, versionID := c.Param("id"), c.Param("versionID")

	version, content, err := s.store.RestoreBriefVersion(ctx, versionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if version.IdeaID != ideaID {
		respondDomainError(c, model.NotFound("brief version", versionID))
		return
	}

	brief, err := s.store.UpdateBrief(ctx, ideaID, content, store.BriefWriteOptions{
		Autosave: true,
		Label:    model.LabelRestore,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, restoreResponse{Brief: brief, RestoredFrom: version})
}

// handlePresignUpload issues a signed upload form for a new attachment of
// the idea's brief. The client stores the returned key and URL in the
// brief's attachments once the upload succeeds.
func (s *Server) handlePresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := s.store.GetIdea(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	if s.uploads == nil {
		respondDomainError(c, &model.ConfigError{Component: "storage", Message: "uploads are not configured"})
		return
	}

	upload, err := s.uploads.PresignUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

package api

import (
	"net/http"

	"enrollment-core/internal/domain/conflict"
	reqdto "enrollment-core/internal/handler/dto/request"
	resdto "enrollment-core/internal/handler/dto/response"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConflictHandler struct {
	conflicts commands.ConflictCommands
	views     queries.ConflictQueries
}

func NewConflictHandler(conflicts commands.ConflictCommands, views queries.ConflictQueries) *ConflictHandler {
	return &ConflictHandler{
		conflicts: conflicts,
		views:     views,
	}
}

// @Summary Run conflict detection
// @Description Re-check active records against the current rules and record new findings; omit section_id to scan all sections
// @Tags conflicts
// @Accept json
// @Produce json
// @Param request body reqdto.DetectConflictsRequest true "Scan scope"
// @Success 200 {object} resdto.ScanResponse
// @Failure 404 {object} httperr.Response
// @Router /conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	var req reqdto.DetectConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	report, err := h.conflicts.Detect(c.Request.Context(), req.SectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromScanReport(report))
}

// @Summary List open conflicts for a section
// @Tags conflicts
// @Produce json
// @Param section_id query string true "Section ID"
// @Success 200 {array} resdto.ConflictResponse
// @Router /conflicts [get]
func (h *ConflictHandler) ListOpen(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Query("section_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID format"})
		return
	}

	views, err := h.views.ListOpenBySection(c.Request.Context(), sectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*resdto.ConflictResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, resdto.FromConflictView(v))
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Mark a conflict as under investigation
// @Tags conflicts
// @Produce json
// @Param id path string true "Conflict ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /conflicts/{id}/investigate [post]
func (h *ConflictHandler) Investigate(c *gin.Context) {
	reviewerID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	conflictID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conflict ID format"})
		return
	}

	if err := h.conflicts.Investigate(c.Request.Context(), conflictID, reviewerID, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Resolve a conflict
// @Description Apply a resolution strategy; drop strategies withdraw or deny the offending record
// @Tags conflicts
// @Accept json
// @Produce json
// @Param id path string true "Conflict ID"
// @Param request body reqdto.ResolveConflictRequest true "Resolution strategy"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /conflicts/{id}/resolve [post]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	resolverID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	conflictID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conflict ID format"})
		return
	}

	var req reqdto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	strategy := conflict.Strategy(req.Strategy)
	if err := h.conflicts.Resolve(c.Request.Context(), conflictID, strategy, resolverID, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

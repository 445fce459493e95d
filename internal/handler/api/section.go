package api

import (
	"net/http"

	reqdto "enrollment-core/internal/handler/dto/request"
	resdto "enrollment-core/internal/handler/dto/response"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SectionHandler struct {
	sections commands.SectionCommands
	waitlist commands.WaitlistCommands
	views    queries.SectionQueries
}

func NewSectionHandler(
	sections commands.SectionCommands,
	waitlist commands.WaitlistCommands,
	views queries.SectionQueries,
) *SectionHandler {
	return &SectionHandler{
		sections: sections,
		waitlist: waitlist,
		views:    views,
	}
}

// @Summary Get section utilization
// @Tags sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} resdto.UtilizationResponse
// @Failure 404 {object} httperr.Response
// @Router /sections/{id}/utilization [get]
func (h *SectionHandler) Utilization(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID format"})
		return
	}

	view, err := h.views.Utilization(c.Request.Context(), sectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUtilizationView(view))
}

// @Summary Change section capacity
// @Description Resize a section; shrinking below the enrolled count is rejected
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param request body reqdto.ChangeCapacityRequest true "New capacity"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /sections/{id}/capacity [patch]
func (h *SectionHandler) ChangeCapacity(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID format"})
		return
	}

	var req reqdto.ChangeCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.sections.ChangeCapacity(c.Request.Context(), sectionID, req.Capacity, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Process a section's waitlist
// @Description Expire lapsed offers and extend the next one; the background sweeper does this periodically
// @Tags sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} resdto.SweepResponse
// @Failure 404 {object} httperr.Response
// @Router /sections/{id}/process-waitlist [post]
func (h *SectionHandler) ProcessWaitlist(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID format"})
		return
	}

	report, err := h.waitlist.ProcessSection(c.Request.Context(), sectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSweepReport(report))
}

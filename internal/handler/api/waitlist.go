package api

import (
	"net/http"

	reqdto "enrollment-core/internal/handler/dto/request"
	resdto "enrollment-core/internal/handler/dto/response"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/pkg/patch"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlist commands.WaitlistCommands
	views    queries.WaitlistQueries
}

func NewWaitlistHandler(waitlist commands.WaitlistCommands, views queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{
		waitlist: waitlist,
		views:    views,
	}
}

// @Summary Join waitlist
// @Description Queue for a full section; priority tiers above zero require the registrar role
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body reqdto.JoinWaitlistRequest true "Join request"
// @Success 201 {object} resdto.JoinWaitlistResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	priority := patch.Coalesce(req.Priority, 0)
	if priority > 0 && middleware.GetActorRole(c) != middleware.RoleRegistrar {
		c.JSON(http.StatusForbidden, gin.H{"error": "Priority tiers require the registrar role"})
		return
	}

	result, err := h.waitlist.Join(c.Request.Context(), actorID, req.SectionID, priority, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromJoinResult(result))
}

// @Summary Get waitlist position
// @Description Current 1-based position and a promotion probability estimate
// @Tags waitlist
// @Produce json
// @Param section_id query string true "Section ID"
// @Success 200 {object} resdto.WaitlistPositionResponse
// @Failure 404 {object} httperr.Response
// @Router /waitlist/position [get]
func (h *WaitlistHandler) Position(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sectionID, err := uuid.Parse(c.Query("section_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section ID format"})
		return
	}

	view, err := h.views.Position(c.Request.Context(), actorID, sectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromWaitlistPosition(view))
}

// @Summary Respond to a promotion offer
// @Description Accept takes the reserved seat; decline passes it to the next candidate
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body reqdto.RespondOfferRequest true "Offer response"
// @Success 200 {object} resdto.DecisionResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /waitlist/respond [post]
func (h *WaitlistHandler) Respond(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.RespondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.waitlist.Respond(c.Request.Context(), actorID, req.SectionID, req.Accept(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		// Declined: the seat moves on to the next candidate.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEnrollmentResult(result))
}

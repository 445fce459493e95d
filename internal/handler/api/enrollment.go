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

type EnrollmentHandler struct {
	enrollments commands.EnrollmentCommands
	views       queries.EnrollmentQueries
}

func NewEnrollmentHandler(enrollments commands.EnrollmentCommands, views queries.EnrollmentQueries) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		views:       views,
	}
}

// @Summary Submit enrollment request
// @Description Request a seat in a section; the outcome is enrolled, waitlisted, or pending review
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitEnrollmentRequest true "Enrollment request"
// @Success 201 {object} resdto.DecisionResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /enrollments [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.SubmitEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.enrollments.SubmitRequest(c.Request.Context(), actorID, req.SectionID, req.Justification, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromEnrollmentResult(result))
}

// @Summary Approve enrollment request
// @Description Approve a pending request; the admission decision then runs as usual
// @Tags enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} resdto.DecisionResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /enrollments/{id}/approve [post]
func (h *EnrollmentHandler) Approve(c *gin.Context) {
	reviewerID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID format"})
		return
	}

	result, err := h.enrollments.Approve(c.Request.Context(), requestID, reviewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEnrollmentResult(result))
}

// @Summary Deny enrollment request
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param request body reqdto.DenyEnrollmentRequest true "Denial reason"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /enrollments/{id}/deny [post]
func (h *EnrollmentHandler) Deny(c *gin.Context) {
	reviewerID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID format"})
		return
	}

	var req reqdto.DenyEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.enrollments.Deny(c.Request.Context(), requestID, reviewerID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Withdraw from a section
// @Description Give up a held seat or leave the queue; a freed seat goes to the next candidate
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body reqdto.WithdrawRequest true "Withdrawal request"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.enrollments.Withdraw(c.Request.Context(), actorID, req.SectionID, req.Reason, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List own enrollments
// @Tags enrollments
// @Produce json
// @Success 200 {array} resdto.EnrollmentListResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items, err := h.views.ListByActor(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*resdto.EnrollmentListResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, resdto.FromEnrollmentListItem(item))
	}
	c.JSON(http.StatusOK, responses)
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/handler/httperr"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// respondError maps the shared error taxonomy onto HTTP statuses. Rate
// limiting is special-cased so the Retry-After header survives.
func respondError(c *gin.Context, err error) {
	var rl *commands.RateLimitedError
	if errors.As(err, &rl) {
		retryAfter := int(rl.Decision.RetryAfter(time.Now()).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "Too many requests",
			gin.H{"retry_after_seconds": retryAfter})
		return
	}

	switch {
	case errors.Is(err, errs.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errors.Is(err, errs.ErrAlreadyEnrolled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Already enrolled in this section", nil)
	case errors.Is(err, errs.ErrAlreadyWaitlisted):
		httperr.AbortWithError(c, http.StatusConflict, err, "Already waitlisted for this section", nil)
	case errors.Is(err, errs.ErrAtCapacity):
		httperr.AbortWithError(c, http.StatusConflict, err, "Section and waitlist are full", nil)
	case errors.Is(err, errs.ErrWaitlistAtCapacity):
		httperr.AbortWithError(c, http.StatusConflict, err, "Waitlist is full", nil)
	case errors.Is(err, errs.ErrNoActiveOffer):
		httperr.AbortWithError(c, http.StatusConflict, err, "No active offer to respond to", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Operation not allowed in current state", nil)
	case errors.Is(err, errs.ErrPrerequisiteNotMet):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Prerequisite not met", nil)
	case errors.Is(err, errs.ErrRestrictionViolated):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Enrollment restriction violated", nil)
	case errors.Is(err, section.ErrCapacityBelowEnrolled), errors.Is(err, section.ErrInvalidCapacity):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid capacity", nil)
	case errors.Is(err, errs.ErrStorageUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Storage temporarily unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

package handlers

import (
	"errors"
	"strconv"

	apierrors "github.com/emsteam/ems-api/internal/errors"
	"github.com/emsteam/ems-api/internal/middleware"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps a service error onto its HTTP response. Only the
// client-safe message is returned; anything unexpected is logged.
func respondError(c *gin.Context, err error) {
	msg := services.PublicMessage(err)

	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, msg)
	case errors.Is(err, services.ErrUnauthenticated):
		middleware.GetLogger(c).WithError(err).Warn("authentication rejected")
		apierrors.Unauthorized(c, msg)
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, msg)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, msg)
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, msg)
	case errors.Is(err, services.ErrUnavailable):
		apierrors.ServiceUnavailable(c, msg)
	default:
		middleware.GetLogger(c).WithError(err).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

// principal returns the caller set by RequireAuth, answering 401 when the
// route was mounted without it.
func principal(c *gin.Context) (services.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return p, ok
}

// parseIDParam reads a numeric path parameter, answering 400 otherwise.
func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into req. A field failing its binding
// tag answers with the error registered for it in fieldErrors, so missing
// fields read the same as when the service rejects them; any other failure
// is a malformed body.
func bindJSON(c *gin.Context, req interface{}, fieldErrors map[string]error) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if ferr, ok := fieldErrors[fe.Field()]; ok {
				respondError(c, ferr)
				return false
			}
		}
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

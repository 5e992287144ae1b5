// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is treated as a bad request so internal
// wrapping details never leak as 500s.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrAssetNotFound),
		errors.Is(err, services.ErrLicenseNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrAssetAlreadyRegistered),
		errors.Is(err, services.ErrLicenseAlreadyExists),
		errors.Is(err, services.ErrExclusiveAlreadyIssued),
		errors.Is(err, services.ErrActiveLicensesExist):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		utils.PaymentRequiredResponse(c, err.Error())
	case errors.Is(err, services.ErrInvariantViolated):
		utils.InternalErrorResponse(c, err.Error())
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

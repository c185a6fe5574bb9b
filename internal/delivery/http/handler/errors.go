package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freight-dispatch/internal/usecase/dispatch"
	appErrors "freight-dispatch/pkg/errors"
	"freight-dispatch/pkg/utils"
)

// respondError maps domain errors onto HTTP. Availability conflicts come
// back as 409 with the overlapping loads attached so the UI can offer an
// override; everything else keys off the AppError code.
func respondError(c *gin.Context, err error) {
	var conflictErr *dispatch.ConflictError
	if errors.As(err, &conflictErr) {
		utils.ErrorResponseWithCode(c, http.StatusConflict, appErrors.CodeConflict,
			conflictErr.Error(), gin.H{"conflicts": conflictErr.Conflicts})
		return
	}

	code := appErrors.Code(err)
	switch code {
	case appErrors.CodeNotFound:
		utils.ErrorResponseWithCode(c, http.StatusNotFound, code, err.Error(), nil)
	case appErrors.CodeValidation, appErrors.CodeMissingRequiredPayload:
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, code, err.Error(), nil)
	case appErrors.CodeInvalidTransition:
		utils.ErrorResponseWithCode(c, http.StatusConflict, code, err.Error(), nil)
	case appErrors.CodeStorageConflict:
		utils.ErrorResponseWithCode(c, http.StatusConflict, code, err.Error(), nil)
	case appErrors.CodeUnauthorized:
		utils.ErrorResponseWithCode(c, http.StatusUnauthorized, code, err.Error(), nil)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

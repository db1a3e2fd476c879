package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

// errorResponse is the single error shape every endpoint returns. Details
// carries validation specifics and nothing else; internal failures surface
// only a generic message.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ErrorHandler renders errors raised outside handlers (the body limit,
// routing misses, method mismatches) into the same envelope, so no response
// ever falls back to echo's default `{"message": ...}` body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: message})
}

func respondError(c echo.Context, err error) error {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: verr.Details,
		})
	}

	switch {
	case errors.Is(err, app.ErrInvalidJSON):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "body is not valid JSON"})
	case errors.Is(err, app.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed"})
	case errors.Is(err, app.ErrBatchForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, app.ErrBatchNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "batch not found"})
	case errors.Is(err, app.ErrArtifactNotAvailable):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "artifact not available"})
	case errors.Is(err, app.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "batch status does not allow reprocessing"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

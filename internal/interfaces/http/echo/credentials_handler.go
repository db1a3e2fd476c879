package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

type CredentialsHandler struct {
	issue app.IssueCredentials
}

func NewCredentialsHandler(issue app.IssueCredentials) *CredentialsHandler {
	return &CredentialsHandler{issue: issue}
}

func (h *CredentialsHandler) GetCredentials(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing identity"})
	}

	out, err := h.issue.Execute(c.Request().Context(), app.IssueCredentialsInput{
		UserID: identity.Subject,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

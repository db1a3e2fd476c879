package echo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

type BatchHandler struct {
	getStatus app.GetBatchStatus
	list      app.ListBatches
	download  app.DownloadArtifact
}

func NewBatchHandler(getStatus app.GetBatchStatus, list app.ListBatches, download app.DownloadArtifact) *BatchHandler {
	return &BatchHandler{
		getStatus: getStatus,
		list:      list,
		download:  download,
	}
}

func (h *BatchHandler) GetStatus(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing identity"})
	}

	out, err := h.getStatus.Execute(c.Request().Context(), app.GetBatchStatusInput{
		UserID:  identity.Subject,
		BatchID: c.Param("id"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BatchHandler) ListBatches(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing identity"})
	}

	in := app.ListBatchesInput{
		UserID:    identity.Subject,
		Status:    c.QueryParam("status"),
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{
				Error:   "validation failed",
				Details: []string{"limit must be an integer"},
			})
		}
		in.Limit = &limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{
				Error:   "validation failed",
				Details: []string{"offset must be an integer"},
			})
		}
		in.Offset = offset
	}

	out, err := h.list.Execute(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// Download redirects to a short-lived signed URL instead of proxying object
// bytes through the service.
func (h *BatchHandler) Download(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing identity"})
	}

	out, err := h.download.Execute(c.Request().Context(), app.DownloadArtifactInput{
		UserID:       identity.Subject,
		BatchID:      c.Param("id"),
		ArtifactType: c.Param("artifactType"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(http.StatusFound, out.URL)
}

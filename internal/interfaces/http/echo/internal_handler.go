package echo

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

// InternalHandler serves the endpoints the compute tier calls back on.
// Both sit behind the shared-secret middleware.
type InternalHandler struct {
	reprocess app.ReprocessBatch
	publish   app.PublishCompletionEvent
}

func NewInternalHandler(reprocess app.ReprocessBatch, publish app.PublishCompletionEvent) *InternalHandler {
	return &InternalHandler{reprocess: reprocess, publish: publish}
}

func (h *InternalHandler) Reprocess(c echo.Context) error {
	out, err := h.reprocess.Execute(c.Request().Context(), app.ReprocessBatchInput{
		BatchID: c.Param("id"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InternalHandler) PublishEvent(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not read body"})
	}

	out, err := h.publish.Execute(c.Request().Context(), app.PublishCompletionEventInput{
		Payload: payload,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

package echo

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

type UploadHandler struct {
	ingest app.IngestBatch
}

func NewUploadHandler(ingest app.IngestBatch) *UploadHandler {
	return &UploadHandler{ingest: ingest}
}

// Upload accepts one audio part, one metadata part and any number of image
// parts, and hands them to the ingest use case. The user id comes from the
// authenticated identity only; nothing in the body can override it.
func (h *UploadHandler) Upload(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing identity"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "body must be multipart/form-data"})
	}

	audioFiles := form.File["audio"]
	if len(audioFiles) != 1 {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: []string{"exactly one audio part is required"},
		})
	}

	metadata, err := metadataPart(form)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: []string{"exactly one metadata part is required"},
		})
	}

	audio, err := readPart(audioFiles[0])
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not read audio part"})
	}

	images := make([]app.IngestImage, 0, len(form.File["images"]))
	for _, header := range form.File["images"] {
		data, err := readPart(header)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not read image part"})
		}
		images = append(images, app.IngestImage{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	out, err := h.ingest.Execute(c.Request().Context(), app.IngestInput{
		UserID:           identity.Subject,
		AudioFilename:    audioFiles[0].Filename,
		AudioContentType: audioFiles[0].Header.Get("Content-Type"),
		Audio:            audio,
		Metadata:         metadata,
		Images:           images,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusAccepted, out)
}

// metadataPart accepts the metadata JSON either as a file part or as a
// plain form field named "metadata", but exactly one of the two.
func metadataPart(form *multipart.Form) ([]byte, error) {
	files := form.File["metadata"]
	values := form.Value["metadata"]

	switch {
	case len(files) == 1 && len(values) == 0:
		return readPart(files[0])
	case len(files) == 0 && len(values) == 1:
		return []byte(values[0]), nil
	default:
		return nil, echo.ErrBadRequest
	}
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
	"github.com/hrterry/STImage-WebAPP/pkg/json"
)

func (h *HTTPHandlers) GetImage(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "imageFilename")

	file, err := h.DatasetUseCase.GetImage(r.Context(), name)
	switch {
	case errors.Is(err, entity.ErrFileNotFound):
		json.WriteDetail(w, http.StatusNotFound, "Image not found.")
		return
	case err != nil:
		internalError(w, r, err.Error(), err)
		return
	}

	w.Header().Set("Content-Type", file.Metadata.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, bytes.NewReader(file.Data)); err != nil {
		slog.WarnContext(r.Context(), "write image", "name", name, "error", err)
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hrterry/STImage-WebAPP/internal/usecases"
	"github.com/hrterry/STImage-WebAPP/pkg/json"
	"github.com/hrterry/STImage-WebAPP/pkg/reqmeta"
)

const defaultMaxUploadMemory = 32 << 20

type HTTPHandlers struct {
	DatasetUseCase *usecases.DatasetUseCase
	// MaxUploadMemory is how much of a multipart body is held in memory
	// before parts spill to temporary files.
	MaxUploadMemory int64
}

type Option func(*HTTPHandlers)

func WithMaxUploadMemory(n int64) Option {
	return func(h *HTTPHandlers) {
		if n > 0 {
			h.MaxUploadMemory = n
		}
	}
}

func NewHTTPHandlers(datasetUseCase *usecases.DatasetUseCase, options ...Option) *HTTPHandlers {
	h := &HTTPHandlers{
		DatasetUseCase:  datasetUseCase,
		MaxUploadMemory: defaultMaxUploadMemory,
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

func (h *HTTPHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	json.WriteDetail(w, http.StatusNotFound, "Not Found")
}

func (h *HTTPHandlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	json.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// pathParam returns the decoded value of a route parameter. chi matches
// against RawPath only when it is set; otherwise the value is already
// decoded and must not be unescaped again.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}

func internalError(w http.ResponseWriter, r *http.Request, detail string, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"request_id", reqmeta.RequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	json.WriteDetail(w, http.StatusInternalServerError, detail)
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hrterry/STImage-WebAPP/internal/transport/http/handlers"
)

func NewRouter(
	httpHandlers *handlers.HTTPHandlers,
) http.Handler {
	r := chi.NewRouter()

	r.NotFound(httpHandlers.NotFound)
	r.MethodNotAllowed(httpHandlers.MethodNotAllowed)

	r.Post("/upload", httpHandlers.Upload)
	r.Post("/upload/", httpHandlers.Upload)
	r.Get("/process/{h5adFilename}", httpHandlers.ProcessDataset)
	r.Get("/images/{imageFilename}", httpHandlers.GetImage)
	r.Get("/expression/{h5adFilename}/{geneName}", httpHandlers.GetExpression)

	return r
}

package mw

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hrterry/STImage-WebAPP/pkg/json"
	"github.com/hrterry/STImage-WebAPP/pkg/reqmeta"
)

// Recover turns a handler panic into a 500 whose detail is the panic text.
// When the response has already started the connection is aborted instead.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"request_id", reqmeta.RequestID(r.Context()),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			if ww.Status() != 0 {
				panic(http.ErrAbortHandler)
			}
			json.WriteDetail(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}()

		next.ServeHTTP(ww, r)
	})
}

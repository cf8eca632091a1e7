package mw

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hrterry/STImage-WebAPP/pkg/reqmeta"
)

const (
	HeaderXRequestID = "X-Request-ID"
)

func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(HeaderXRequestID, requestID)

		method := r.Method
		url := r.URL.String()

		metadata := reqmeta.NewRequestMetadata(requestID, reqmeta.WithHTTPMetadata(reqmeta.HTTPMetadata{
			Method: &method,
			URL:    &url,
		}))

		ctx := reqmeta.NewContext(r.Context(), metadata)

		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

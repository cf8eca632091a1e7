package mw_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrterry/STImage-WebAPP/pkg/http_server/mw"
	"github.com/hrterry/STImage-WebAPP/pkg/reqmeta"
)

func TestRequestMetadata_GeneratesID(t *testing.T) {
	var seen string
	h := mw.RequestMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqmeta.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/b.png", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(mw.HeaderXRequestID))
}

func TestRequestMetadata_KeepsClientID(t *testing.T) {
	var md *reqmeta.RequestMetadata
	h := mw.RequestMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		md = reqmeta.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload/", nil)
	req.Header.Set(mw.HeaderXRequestID, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, md)
	require.Equal(t, "req-42", md.RequestID)
	require.Equal(t, http.MethodPost, *md.Method)
	require.Equal(t, "/upload/", *md.URL)
}

func TestRecover(t *testing.T) {
	h := mw.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"detail":"boom"}`, rec.Body.String())
}

func TestRecover_AfterResponseStarted(t *testing.T) {
	h := mw.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "partial", rec.Body.String())
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestAccessLogPassesThrough(t *testing.T) {
	h := mw.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	h := mw.CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/process/a.h5ad", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

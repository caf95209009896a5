package errors

import (
	"net/http"
	"testing"

	"github.com/dalemusser/linkard/internal/testutil"
	"go.uber.org/zap"
)

func TestRecover_RendersInternalPage(t *testing.T) {
	testutil.MustBootTemplates(t)

	h := NewHandler()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	wrapped := h.Recover(zap.NewNop())(panicking)

	req := testutil.WithCSRFToken(testutil.NewRequest(http.MethodGet, "/dashboard"))
	rec := testutil.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertContains(t, "Something went wrong on our end")
}

func TestRecover_PassesThroughWithoutPanic(t *testing.T) {
	testutil.MustBootTemplates(t)

	h := NewHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := h.Recover(zap.NewNop())(next)

	req := testutil.NewRequest(http.MethodGet, "/healthz")
	rec := testutil.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusNoContent)
}

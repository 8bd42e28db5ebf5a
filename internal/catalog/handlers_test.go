package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(q Querier) http.Handler {
	h := &Handler{Svc: &Service{Q: q}}
	r := chi.NewRouter()
	r.Get("/api/v1/items", h.Items)
	r.Get("/api/v1/items/{id}", h.ItemDetail)
	return r
}

func TestItemsHandler(t *testing.T) {
	router := newTestRouter(&countingQuerier{items: []Item{{ID: "i1", Title: "Course", Kind: KindCourse}}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/items?kind=course", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Course")
}

func TestItemsHandlerUnknownKind(t *testing.T) {
	router := newTestRouter(&countingQuerier{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/items?kind=bundle", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestItemDetailHandler(t *testing.T) {
	router := newTestRouter(&countingQuerier{items: []Item{{ID: "i1", Title: "Course"}}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/items/i1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/items/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "NOT_FOUND")
}

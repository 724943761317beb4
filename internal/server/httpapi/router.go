package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the API plus /metrics.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.metrics.Middleware(), h.logRequests)

	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/stories", h.ListStories).Methods(http.MethodGet)

	r.Handle("/stories", h.RequireAuth(http.HandlerFunc(h.CreateStory))).Methods(http.MethodPost)
	r.Handle("/stories/{id}", h.RequireAuth(http.HandlerFunc(h.UpdateStory))).Methods(http.MethodPatch)
	r.Handle("/users/{username}", h.RequireAuth(http.HandlerFunc(h.GetUser))).Methods(http.MethodGet)
	r.Handle("/users/{username}/favorites/{id}", h.RequireAuth(http.HandlerFunc(h.AddFavorite))).Methods(http.MethodPost)
	r.Handle("/users/{username}/favorites/{id}", h.RequireAuth(http.HandlerFunc(h.RemoveFavorite))).Methods(http.MethodDelete)

	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

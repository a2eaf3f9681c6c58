package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devverse/devverse/server/internal/http/handlers"
	"github.com/devverse/devverse/server/internal/http/middleware"
)

func newRouter(h *handlers.Handler, authMw *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LogRequest)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()

	// Public auth endpoints
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/github", h.GitHubAuthorize).Methods(http.MethodGet)
	api.HandleFunc("/auth/github/callback", h.GitHubCallback).Methods(http.MethodPost)

	// Public content endpoints
	api.HandleFunc("/users/{username}", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)

	// Authenticated endpoints
	requireAuth := func(fn http.HandlerFunc) http.Handler {
		return authMw.RequireAuth(fn)
	}
	api.Handle("/auth/verify", requireAuth(h.Verify)).Methods(http.MethodGet)
	api.Handle("/users/me/techs", requireAuth(h.SetTechStack)).Methods(http.MethodPut)
	api.Handle("/users/{username}/follow", requireAuth(h.Follow)).Methods(http.MethodPost)
	api.Handle("/users/{username}/follow", requireAuth(h.Unfollow)).Methods(http.MethodDelete)
	api.Handle("/posts", requireAuth(h.CreatePost)).Methods(http.MethodPost)

	return r
}

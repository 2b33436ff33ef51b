package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tunefolio/tunefolio/internal/handler"
	"github.com/tunefolio/tunefolio/internal/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	favoritesHandler *handler.FavoritesHandler
	userHandler      *handler.UserHandler
	sessions         *middleware.SessionMiddleware
}

func NewRouter(authHandler *handler.AuthHandler, favoritesHandler *handler.FavoritesHandler, userHandler *handler.UserHandler, sessions *middleware.SessionMiddleware) *Router {
	return &Router{
		authHandler:      authHandler,
		favoritesHandler: favoritesHandler,
		userHandler:      userHandler,
		sessions:         sessions,
	}
}

func (r *Router) Setup() http.Handler {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Authorization flow
	mux.HandleFunc("GET /login", r.authHandler.Login)
	mux.HandleFunc("GET /callback", r.authHandler.Callback)
	mux.HandleFunc("POST /logout", r.authHandler.Logout)

	// Favorites (session required)
	mux.Handle("GET /favorites", r.sessions.RequireSession(http.HandlerFunc(r.favoritesHandler.Sync)))
	mux.Handle("GET /favorites/artists", r.sessions.RequireSession(http.HandlerFunc(r.favoritesHandler.Artists)))
	mux.Handle("GET /favorites/tracks", r.sessions.RequireSession(http.HandlerFunc(r.favoritesHandler.Tracks)))

	// Administrative user routes
	mux.HandleFunc("POST /register", r.userHandler.Register)
	mux.HandleFunc("GET /users", r.userHandler.List)
	mux.HandleFunc("PUT /users/{id}", r.userHandler.Update)
	mux.HandleFunc("DELETE /users/{id}", r.userHandler.Delete)

	return middleware.PrometheusMiddleware(mux)
}

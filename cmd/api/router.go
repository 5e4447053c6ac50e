package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"userAccounts/internal/config"
	handlers "userAccounts/internal/handler"
	"userAccounts/internal/middleware"
)

func newRouter(h *handlers.Handlers, cfg *config.Config, log logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Route not found", http.StatusNotFound)
	})

	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	users := router.PathPrefix("/api/v1/users").Subrouter()
	users.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	users.HandleFunc("/refresh-token", h.RefreshToken).Methods(http.MethodPost)

	// secured routes
	auth := middleware.AuthMiddleware(h.AuthService)
	users.Handle("/logout", auth(http.HandlerFunc(h.Logout))).Methods(http.MethodPost)
	users.Handle("/change-password", auth(http.HandlerFunc(h.ChangePassword))).Methods(http.MethodPost)
	users.Handle("/current-user", auth(http.HandlerFunc(h.GetCurrentUser))).Methods(http.MethodGet)
	users.Handle("/update-account", auth(http.HandlerFunc(h.UpdateAccountDetails))).Methods(http.MethodPatch)
	users.Handle("/avatar", auth(http.HandlerFunc(h.UpdateAvatar))).Methods(http.MethodPatch)
	users.Handle("/cover-image", auth(http.HandlerFunc(h.UpdateCoverImage))).Methods(http.MethodPatch)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.Chain(router, c.Handler, middleware.LoggingMiddleware(log))
}

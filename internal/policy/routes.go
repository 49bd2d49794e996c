package policy

import (
	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/privacy", handler.GetPolicy).Methods("GET")
	api.HandleFunc("/privacy", handler.UpdatePolicy).Methods("PUT")
	api.HandleFunc("/members/{id}", handler.GetMember).Methods("GET")
}

package requests

import (
	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/requests").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.CreateRequest).Methods("POST")
	api.HandleFunc("", handler.GetRequests).Methods("GET")
	api.HandleFunc("/{id}/transition", handler.TransitionRequest).Methods("POST")
}

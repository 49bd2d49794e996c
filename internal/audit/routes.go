package audit

import (
	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/events").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/ws", handler.Stream).Methods("GET")
}

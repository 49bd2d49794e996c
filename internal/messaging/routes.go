package messaging

import (
	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messages").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.SubmitMessage).Methods("POST")
	api.HandleFunc("", handler.GetThread).Methods("GET")
}

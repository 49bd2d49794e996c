package recognition

import (
	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/transfers").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/evaluate", handler.EvaluateTransfer).Methods("POST")
	api.HandleFunc("/tiers", handler.GetTiers).Methods("GET")
}

// internal/requests/handlers.go

package requests

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/utils"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// TransitionRequestDTO carries the receiver's decision.
type TransitionRequestDTO struct {
	NewStatus string `json:"new_status" validate:"required,oneof=accepted rejected blocked"`
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	senderID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.Create(r.Context(), senderID, &dto)
	if err != nil {
		if err == policy.ErrMemberNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Receiver not found")
			return
		}
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusCreated, req)
}

func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction != "" && direction != "incoming" && direction != "outgoing" {
		utils.RespondWithError(w, http.StatusBadRequest, "direction must be incoming or outgoing")
		return
	}

	kind := Kind(strings.ToLower(r.URL.Query().Get("kind")))
	if kind != "" && !kind.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "kind must be contact or mentorship")
		return
	}

	result, err := h.service.List(r.Context(), memberID, direction, kind)
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, result)
}

func (h *Handler) TransitionRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	requestID := vars["id"]

	var dto TransitionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.Transition(r.Context(), requestID, actorID, Status(dto.NewStatus))
	if err != nil {
		if err == ErrRequestNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Request not found")
			return
		}
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, req)
}

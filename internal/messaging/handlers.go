// internal/messaging/handlers.go

package messaging

import (
	"encoding/json"
	"net/http"

	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SubmitMessageDTO is the message submission payload.
type SubmitMessageDTO struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=4000"`
}

func (h *Handler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto SubmitMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Submit(r.Context(), senderID, dto.ReceiverID, dto.Content)
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	status := http.StatusCreated
	if !result.Stored {
		status = http.StatusForbidden
	}
	utils.RespondWithJSON(w, status, result)
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	other := r.URL.Query().Get("with")
	if other == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "with query parameter is required")
		return
	}

	messages, err := h.service.Thread(r.Context(), memberID, other)
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, messages)
}

// internal/policy/handlers.go

package policy

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/common/utils"
)

type Handler struct {
	directory Directory
}

func NewHandler(directory Directory) *Handler {
	return &Handler{directory: directory}
}

// UpdatePolicyDTO is the owner-submitted privacy settings payload.
type UpdatePolicyDTO struct {
	AllowDirectMessages     bool     `json:"allow_dms"`
	AllowConnectionRequests bool     `json:"allow_connection_requests"`
	DailyRequestLimit       int      `json:"daily_request_limit" validate:"min=0,max=100"`
	VisibleToRoles          []string `json:"visible_to_roles" validate:"dive,oneof=single intentional_partner married_love_model"`
}

// GetPolicy returns the authenticated member's privacy settings.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	p, err := h.directory.GetPolicy(r.Context(), memberID)
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

// UpdatePolicy replaces the authenticated member's privacy settings.
// Only the owning member can mutate their policy.
func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto UpdatePolicyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &PrivacyPolicy{
		MemberID:                memberID,
		AllowDirectMessages:     dto.AllowDirectMessages,
		AllowConnectionRequests: dto.AllowConnectionRequests,
		DailyRequestLimit:       dto.DailyRequestLimit,
	}
	for _, r := range dto.VisibleToRoles {
		role, err := ParseRole(r)
		if err != nil {
			utils.RespondWithFault(w, err)
			return
		}
		p.VisibleToRoles = append(p.VisibleToRoles, role)
	}

	if err := h.directory.UpdatePolicy(r.Context(), p); err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

// GetMember returns a member profile, subject to the subject's visibility
// policy.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	subject, err := h.directory.GetMember(r.Context(), vars["id"])
	if err == ErrMemberNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	if viewerID != subject.ID {
		viewer, err := h.directory.GetMember(r.Context(), viewerID)
		if err != nil {
			utils.RespondWithFault(w, err)
			return
		}

		subjectPolicy, err := h.directory.GetPolicy(r.Context(), subject.ID)
		if err != nil {
			utils.RespondWithFault(w, err)
			return
		}

		if !subjectPolicy.CanView(viewer.Role) {
			utils.RespondWithFault(w, faults.New(faults.PolicyDenied, "not-visible"))
			return
		}
	}

	utils.RespondWithData(w, http.StatusOK, subject)
}

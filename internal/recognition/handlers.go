// internal/recognition/handlers.go

package recognition

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/theloveculture/tlc-backend/internal/audit"
	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/common/utils"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

type Handler struct {
	directory          Directory
	ledger             LedgerExecutor
	emitter            *audit.Emitter
	platformAccountRef string
}

// Directory is the slice of the member store the resolver needs.
type Directory interface {
	GetMember(ctx context.Context, id string) (*policy.Member, error)
}

func NewHandler(directory Directory, ledger LedgerExecutor, emitter *audit.Emitter, platformAccountRef string) *Handler {
	return &Handler{
		directory:          directory,
		ledger:             ledger,
		emitter:            emitter,
		platformAccountRef: platformAccountRef,
	}
}

// EvaluateTransferDTO is the transfer evaluation payload.
type EvaluateTransferDTO struct {
	SenderID   string `json:"sender_id" validate:"required"`
	ReceiverID string `json:"receiver_id" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

// EvaluateTransferResponse mirrors the decision plus the allocation on success.
type EvaluateTransferResponse struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	RecipientShare int64  `json:"recipient_share,omitempty"`
	PlatformShare  int64  `json:"platform_share,omitempty"`
}

// EvaluateTransfer decides a proposed transfer and, when allowed, hands the
// allocation to the ledger executor.
func (h *Handler) EvaluateTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto EvaluateTransferDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The declared sender must be the acting member.
	if dto.SenderID != actorID {
		utils.RespondWithFault(w, faults.New(faults.Unauthorized, faults.ReasonInvalidActor))
		return
	}

	sender, err := h.directory.GetMember(r.Context(), dto.SenderID)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	receiver, err := h.directory.GetMember(r.Context(), dto.ReceiverID)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	decision := Evaluate(*sender, *receiver)
	recordEvaluation(decision, dto.Amount)

	if !decision.Allowed {
		h.emitter.Emit(r.Context(), audit.EventTransferEvaluated, false, decision.Reason, dto.SenderID, dto.ReceiverID)
		utils.RespondWithData(w, http.StatusOK, EvaluateTransferResponse{
			Allowed: false,
			Reason:  decision.Reason,
		})
		return
	}

	allocation, err := Allocate(dto.Amount, h.platformAccountRef)
	if err != nil {
		utils.RespondWithFault(w, err)
		return
	}

	intent := TransferIntent{
		SenderID:   dto.SenderID,
		ReceiverID: dto.ReceiverID,
		Amount:     dto.Amount,
	}
	if err := h.ledger.Execute(r.Context(), intent, allocation); err != nil {
		h.emitter.Emit(r.Context(), audit.EventTransferEvaluated, false, "ledger-unavailable", dto.SenderID, dto.ReceiverID)
		utils.RespondWithFault(w, faults.Dependency(err))
		return
	}

	h.emitter.Emit(r.Context(), audit.EventTransferEvaluated, true, "", dto.SenderID, dto.ReceiverID)
	utils.RespondWithData(w, http.StatusOK, EvaluateTransferResponse{
		Allowed:        true,
		RecipientShare: allocation.RecipientShare,
		PlatformShare:  allocation.PlatformShare,
	})
}

// GetTiers returns the fixed recognition ladder.
func (h *Handler) GetTiers(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithData(w, http.StatusOK, Tiers)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	if err == policy.ErrMemberNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Member not found")
		return
	}
	utils.RespondWithFault(w, err)
}

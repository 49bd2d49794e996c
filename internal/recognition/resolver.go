// internal/recognition/resolver.go
// Pure decision logic for recognition token transfers. No side effects;
// persistence of the resulting ledger movement belongs to an external
// collaborator.

package recognition

import (
	"context"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

const (
	recipientShareNumerator   = 6
	recipientShareDenominator = 10
)

// Evaluate decides whether a transfer between the two members is permitted.
// Rules are evaluated in order and the first failure wins; the returned
// reason always names the first rule that failed.
func Evaluate(sender, receiver policy.Member) Decision {
	// 1. The aggregate community account is not a valid recipient.
	if receiver.IsCommunity() {
		return Decision{Allowed: false, Reason: faults.ReasonCommunityRecipient}
	}

	// 2. Singles and Intentional Partners recognize upward only.
	if sender.Role == policy.RoleSingle || sender.Role == policy.RoleIntentionalPartner {
		if receiver.Role != policy.RoleMarriedLoveModel {
			return Decision{Allowed: false, Reason: faults.ReasonWrongTier}
		}
	}

	// 3. Love Models support Intentional Partners, or Singles who opted in.
	if sender.Role == policy.RoleMarriedLoveModel {
		switch receiver.Role {
		case policy.RoleIntentionalPartner:
			// allowed
		case policy.RoleSingle:
			if !receiver.Receptive {
				return Decision{Allowed: false, Reason: faults.ReasonNotReceptive}
			}
		default:
			return Decision{Allowed: false, Reason: faults.ReasonWrongTier}
		}
	}

	// 4. Self-transfer, matched on the canonical member id.
	if sender.ID == receiver.ID {
		return Decision{Allowed: false, Reason: faults.ReasonSelfTransfer}
	}

	return Decision{Allowed: true}
}

// Allocate computes the structured split for an allowed transfer. The floor
// on the recipient share guarantees RecipientShare + PlatformShare == amount
// with no rounding leakage.
func Allocate(amount int64, platformAccountRef string) (AllocationResult, error) {
	if amount <= 0 {
		return AllocationResult{}, faults.New(faults.Validation, faults.ReasonInvalidAmount)
	}

	recipient := amount * recipientShareNumerator / recipientShareDenominator
	return AllocationResult{
		RecipientShare:     recipient,
		PlatformShare:      amount - recipient,
		PlatformAccountRef: platformAccountRef,
	}, nil
}

// LedgerExecutor performs the actual balance movement for an authorized
// transfer. The engine computes and authorizes the split, never mutates
// balances itself.
type LedgerExecutor interface {
	Execute(ctx context.Context, intent TransferIntent, allocation AllocationResult) error
}

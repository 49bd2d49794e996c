// internal/recognition/models.go

package recognition

// TransferIntent is a proposed token transfer. It exists only for the
// duration of a decision and is never persisted by the engine.
type TransferIntent struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Amount     int64  `json:"amount"`
}

// AllocationResult is the computed 60/40 split of an allowed transfer.
// Execution of the balance movement belongs to the external ledger.
type AllocationResult struct {
	RecipientShare     int64  `json:"recipient_share"`
	PlatformShare      int64  `json:"platform_share"`
	PlatformAccountRef string `json:"platform_account_ref"`
}

// Tier is a named, fixed token amount presented as a UI shortcut. The
// resolver accepts any positive amount; the ladder is not a constraint.
type Tier struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Tiers is the fixed recognition ladder.
var Tiers = []Tier{
	{Name: "rising", Label: "Rising Love Model", Amount: 1000},
	{Name: "special", Label: "Special Love Model", Amount: 10000},
	{Name: "exceptional", Label: "Exceptional Love Model", Amount: 50000},
}

// Decision is the outcome of an eligibility evaluation. Reason is set only
// on denial and carries a stable machine-readable code.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

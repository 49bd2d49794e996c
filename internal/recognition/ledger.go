// internal/recognition/ledger.go
// Ledger executor implementations. The real balance movement is owned by an
// external payment system; the log executor is the development stand-in.

package recognition

import (
	"context"
	"log"
)

type logLedger struct{}

// NewLogLedger returns an executor that records authorized allocations to the
// application log without moving any balances.
func NewLogLedger() LedgerExecutor {
	return logLedger{}
}

func (logLedger) Execute(ctx context.Context, intent TransferIntent, allocation AllocationResult) error {
	log.Printf("ledger: authorized transfer %s -> %s amount=%d recipient=%d platform=%d (%s)",
		intent.SenderID, intent.ReceiverID, intent.Amount,
		allocation.RecipientShare, allocation.PlatformShare, allocation.PlatformAccountRef)
	return nil
}

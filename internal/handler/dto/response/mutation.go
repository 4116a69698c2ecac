package response

import (
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type MutationResponse struct {
	Kind           string      `json:"kind"`
	Reference      *uuid.UUID  `json:"reference,omitempty"`
	BalanceAfter   *int64      `json:"balanceAfter,omitempty"`
	LedgerEntryIDs []uuid.UUID `json:"ledgerEntryIds,omitempty"`
	Recipients     []uuid.UUID `json:"recipients,omitempty"`
	Warning        *string     `json:"warning,omitempty"`
	Replayed       bool        `json:"replayed"`
}

func FromMutationResult(r *commands.MutationResult) *MutationResponse {
	resp := &MutationResponse{
		Kind:           string(r.Kind),
		BalanceAfter:   r.BalanceAfter,
		LedgerEntryIDs: r.LedgerEntryIDs,
		Recipients:     r.Recipients,
		Warning:        r.Warning,
		Replayed:       r.IsReplayed,
	}
	if r.Reference != uuid.Nil {
		ref := r.Reference
		resp.Reference = &ref
	}
	return resp
}

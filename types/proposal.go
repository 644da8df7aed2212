package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidProposalStatus = errors.New("invalid proposal status transition")

// ProposalStatus tracks a transaction proposal from draft to a terminal
// outcome.
type ProposalStatus string

const (
	// ProposalStatusDraft is a proposal still collecting signatures.
	ProposalStatusDraft ProposalStatus = "draft"
	// ProposalStatusPending is a proposal whose signature threshold has been
	// reached; it is waiting on nonce order and chain submission.
	ProposalStatusPending ProposalStatus = "pending"
	// ProposalStatusExecuted is a proposal confirmed executed on chain.
	ProposalStatusExecuted ProposalStatus = "executed"
	// ProposalStatusFailed is a proposal whose execution reverted on chain.
	ProposalStatusFailed ProposalStatus = "failed"
	// ProposalStatusCancelled is a proposal explicitly withdrawn before
	// execution.
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalStatusExecuted || s == ProposalStatusFailed || s == ProposalStatusCancelled
}

// TransactionProposal is one entry in a wallet's transaction queue. The nonce
// is assigned once at creation and never changes; signatures accumulate keyed
// by signer.
type TransactionProposal struct {
	ID       string
	WalletID string
	Nonce    uint64
	Payload

	Signatures  map[common.Address]CollectedSignature
	Status      ProposalStatus
	ChainTxHash string
	FailReason  string
	CreatedBy   string
	CreatedAt   time.Time
}

// wireProposal is the JSON shape proposals are exchanged in: the payload's
// wire fields flattened alongside the queue metadata.
type wireProposal struct {
	ID       string `json:"proposalId"`
	WalletID string `json:"walletId"`
	Nonce    uint64 `json:"nonce"`
	wirePayload
	Signatures  map[common.Address]CollectedSignature `json:"signatures,omitempty"`
	Status      ProposalStatus                        `json:"status"`
	ChainTxHash string                                `json:"chainTxHash,omitempty"`
	FailReason  string                                `json:"failReason,omitempty"`
	CreatedBy   string                                `json:"createdBy,omitempty"`
	CreatedAt   time.Time                             `json:"createdAt"`
}

// MarshalJSON encodes the proposal in its flat wire shape. Embedding promotes
// the payload's marshaller, which on its own would drop the queue metadata,
// so the proposal carries its own.
func (p TransactionProposal) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireProposal{
		ID:          p.ID,
		WalletID:    p.WalletID,
		Nonce:       p.Nonce,
		wirePayload: p.Payload.wire(),
		Signatures:  p.Signatures,
		Status:      p.Status,
		ChainTxHash: p.ChainTxHash,
		FailReason:  p.FailReason,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	})
}

// UnmarshalJSON decodes the flat wire shape back into a proposal.
func (p *TransactionProposal) UnmarshalJSON(data []byte) error {
	var w wireProposal
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var payload Payload
	if err := payload.fromWire(w.wirePayload); err != nil {
		return err
	}

	*p = TransactionProposal{
		ID:          w.ID,
		WalletID:    w.WalletID,
		Nonce:       w.Nonce,
		Payload:     payload,
		Signatures:  w.Signatures,
		Status:      w.Status,
		ChainTxHash: w.ChainTxHash,
		FailReason:  w.FailReason,
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
	}

	return nil
}

// proposalTransitions lists the permitted status transitions.
var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusDraft:   {ProposalStatusPending, ProposalStatusCancelled},
	ProposalStatusPending: {ProposalStatusExecuted, ProposalStatusFailed, ProposalStatusCancelled},
}

// TransitionTo moves the proposal to the given status. Re-applying the current
// status is a no-op, so reconciliation against chain state stays idempotent.
func (p *TransactionProposal) TransitionTo(status ProposalStatus) error {
	if p.Status == status {
		return nil
	}
	if p.Status.Terminal() {
		return fmt.Errorf("%w: proposal %s is terminal (%s)", ErrInvalidProposalStatus, p.ID, p.Status)
	}

	for _, next := range proposalTransitions[p.Status] {
		if next == status {
			p.Status = status
			return nil
		}
	}

	return fmt.Errorf("%w: %s to %s", ErrInvalidProposalStatus, p.Status, status)
}

// SignatureFrom returns the recorded signature for a signer, if any.
func (p *TransactionProposal) SignatureFrom(signer common.Address) (CollectedSignature, bool) {
	sig, ok := p.Signatures[signer]
	return sig, ok
}

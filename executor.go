package safekit

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofoftom/safekit/sdk"
	"github.com/proofoftom/safekit/types"
)

// ErrNotReady is returned when a proposal is not currently executable. It is a
// retryable condition: the threshold may still be collecting, or a
// smaller-nonce proposal is ahead in the queue.
var ErrNotReady = errors.New("proposal is not ready for execution")

// Executor drives fully-signed proposals through chain submission and
// reconciles mined receipts back into the ledger.
type Executor struct {
	ledger      *Ledger
	coordinator *Coordinator
	client      sdk.ChainClient
}

// NewExecutor creates an Executor over a ledger and chain client.
func NewExecutor(ledger *Ledger, coordinator *Coordinator, client sdk.ChainClient) *Executor {
	return &Executor{ledger: ledger, coordinator: coordinator, client: client}
}

// Execute submits a proposal's execTransaction call to the chain.
//
// Readiness is re-validated here, immediately before the packed blob is
// built: a CanExecute observed earlier may have been invalidated by a
// competing smaller-nonce proposal or an owner-set change. A not-ready result
// at this point is ErrNotReady, to be retried, never treated as fatal.
func (e *Executor) Execute(ctx context.Context, proposalID string) (common.Hash, error) {
	ok, err := e.ledger.CanExecute(proposalID)
	if err != nil {
		return common.Hash{}, err
	}
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrNotReady, proposalID)
	}

	packed, err := e.coordinator.Pack(proposalID)
	if err != nil {
		// Pack re-checks under the wallet lock; a race between CanExecute
		// and Pack surfaces here as a retryable condition.
		var insufficient *InsufficientSignaturesError
		var outOfOrder *NonceOutOfOrderError
		if errors.As(err, &insufficient) || errors.As(err, &outOfOrder) {
			return common.Hash{}, fmt.Errorf("%w: %s", ErrNotReady, err)
		}

		return common.Hash{}, err
	}

	proposal, err := e.ledger.Proposal(proposalID)
	if err != nil {
		return common.Hash{}, err
	}
	wallet, err := e.ledger.Wallet(proposal.WalletID)
	if err != nil {
		return common.Hash{}, err
	}
	if wallet.Address == nil {
		return common.Hash{}, NewInvalidPayloadError("wallet has no deployed address")
	}

	data, err := EncodeExecTransaction(proposal.Payload, packed)
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := e.client.SubmitRawTransaction(ctx, *wallet.Address, nil, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit execution: %w", err)
	}

	if err := e.ledger.MarkSubmitted(ctx, proposalID, txHash.Hex()); err != nil {
		return txHash, err
	}

	sdk.LoggerFrom(ctx).Infof("proposal %s submitted as %s", proposalID, txHash.Hex())

	return txHash, nil
}

// Reconcile reads the receipt of a submitted proposal and applies the
// terminal outcome: Executed on success (including any confirmed
// configuration change), Failed on revert. Safe to call repeatedly; a
// proposal already terminal is left untouched.
func (e *Executor) Reconcile(ctx context.Context, proposalID string) error {
	proposal, err := e.ledger.Proposal(proposalID)
	if err != nil {
		return err
	}
	if proposal.Status.Terminal() {
		return nil
	}
	if proposal.ChainTxHash == "" {
		return fmt.Errorf("proposal %s has no submitted transaction", proposalID)
	}

	receipt, err := e.client.GetReceipt(ctx, common.HexToHash(proposal.ChainTxHash))
	if err != nil {
		return fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt.Status != sdk.ReceiptStatusSuccess {
		return e.ledger.MarkTerminal(ctx, proposalID, types.ProposalStatusFailed, "transaction reverted")
	}

	// An executed owner-management call must be reflected in the local owner
	// list, which is authoritative for prevOwner resolution. It is applied
	// before the terminal transition: once the proposal is terminal this
	// method short-circuits, so a failed application has to stay retryable.
	change, err := DecodeConfigChange(proposal.Data)
	if err != nil {
		return err
	}
	if change != nil {
		if err := e.ledger.ApplyConfirmedChange(ctx, proposal.WalletID, *change); err != nil {
			return err
		}
	}

	return e.ledger.MarkTerminal(ctx, proposalID, types.ProposalStatusExecuted, "")
}

package safekit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofoftom/safekit/sdk"
	"github.com/proofoftom/safekit/types"
)

// Ledger owns the per-wallet transaction queues: it assigns strictly
// increasing nonces, stores proposals and their collected signatures, and
// enforces sequential-execution eligibility.
//
// All wallet and proposal records live in an arena keyed by wallet id. Every
// mutation of a wallet's queue goes through that wallet's lock, so two
// concurrent proposals can never receive the same nonce.
type Ledger struct {
	mu      sync.RWMutex
	wallets map[string]*walletRecord
	index   map[string]*walletRecord // proposal id -> owning wallet record
}

// walletRecord groups a wallet with its proposal queue under one lock.
type walletRecord struct {
	mu        sync.Mutex
	wallet    *types.Wallet
	proposals []*types.TransactionProposal
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		wallets: make(map[string]*walletRecord),
		index:   make(map[string]*walletRecord),
	}
}

// RegisterWallet adds a wallet to the ledger. The wallet must be valid and its
// id unused.
func (l *Ledger) RegisterWallet(wallet *types.Wallet) error {
	if err := wallet.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.wallets[wallet.ID]; ok {
		return fmt.Errorf("wallet %s already registered", wallet.ID)
	}
	l.wallets[wallet.ID] = &walletRecord{wallet: wallet}

	return nil
}

// Wallet returns a registered wallet.
func (l *Ledger) Wallet(id string) (*types.Wallet, error) {
	rec, err := l.record(id)
	if err != nil {
		return nil, err
	}

	return rec.wallet, nil
}

func (l *Ledger) record(walletID string) (*walletRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.wallets[walletID]
	if !ok {
		return nil, NewWalletNotFoundError(walletID)
	}

	return rec, nil
}

func (l *Ledger) recordFor(proposalID string) (*walletRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.index[proposalID]
	if !ok {
		return nil, NewProposalNotFoundError(proposalID)
	}

	return rec, nil
}

// Propose appends a new draft proposal to the wallet's queue, assigning the
// next nonce. Payload validation happens before the nonce is taken, so a
// malformed payload never burns a sequence number.
func (l *Ledger) Propose(ctx context.Context, walletID string, payload types.Payload, createdBy string) (*types.TransactionProposal, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	rec, err := l.record(walletID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	var nonce uint64
	for _, p := range rec.proposals {
		if p.Nonce >= nonce {
			nonce = p.Nonce + 1
		}
	}

	proposal := &types.TransactionProposal{
		ID:         fmt.Sprintf("%s-%d", walletID, nonce),
		WalletID:   walletID,
		Nonce:      nonce,
		Payload:    payload,
		Signatures: make(map[common.Address]types.CollectedSignature),
		Status:     types.ProposalStatusDraft,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	rec.proposals = append(rec.proposals, proposal)

	l.mu.Lock()
	l.index[proposal.ID] = rec
	l.mu.Unlock()

	sdk.LoggerFrom(ctx).Infof("proposal %s created with nonce %d", proposal.ID, nonce)

	return proposal, nil
}

// validatePayload rejects statically malformed payloads before any state or
// chain interaction.
func validatePayload(payload types.Payload) error {
	if !payload.Operation.Valid() {
		return NewInvalidPayloadError(fmt.Sprintf("operation must be 0 or 1, got %d", payload.Operation))
	}
	if payload.Value != nil && payload.Value.Sign() < 0 {
		return NewInvalidPayloadError("value must not be negative")
	}
	if payload.Value != nil && payload.Value.BitLen() > 256 {
		return NewInvalidPayloadError("value does not fit in uint256")
	}
	if n := len(payload.Data); n > 0 && n < SelectorLength {
		return NewInvalidPayloadError(fmt.Sprintf("calldata of %d bytes is shorter than a selector", n))
	}

	return nil
}

// Proposal returns a proposal by id.
func (l *Ledger) Proposal(id string) (*types.TransactionProposal, error) {
	rec, err := l.recordFor(id)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.find(id), nil
}

// Proposals returns the wallet's queue in nonce order.
func (l *Ledger) Proposals(walletID string) ([]*types.TransactionProposal, error) {
	rec, err := l.record(walletID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]*types.TransactionProposal, len(rec.proposals))
	copy(out, rec.proposals)

	return out, nil
}

// find locates a proposal in the record's queue. Caller holds rec.mu.
func (r *walletRecord) find(id string) *types.TransactionProposal {
	for _, p := range r.proposals {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// nextNonce returns the smallest nonce among non-terminal proposals. Caller
// holds rec.mu. The boolean is false when nothing is pending.
func (r *walletRecord) nextNonce() (uint64, bool) {
	var next uint64
	found := false
	for _, p := range r.proposals {
		if p.Status.Terminal() {
			continue
		}
		if !found || p.Nonce < next {
			next = p.Nonce
			found = true
		}
	}

	return next, found
}

// countValidSignatures counts signatures from addresses that are currently
// owners. Signatures from since-removed owners do not count. Caller holds
// rec.mu.
func (r *walletRecord) countValidSignatures(p *types.TransactionProposal) int {
	count := 0
	for signer := range p.Signatures {
		if r.wallet.Owners.Contains(signer) {
			count++
		}
	}

	return count
}

// IsNextExecutable reports whether no other non-terminal proposal of the same
// wallet has a smaller nonce.
func (l *Ledger) IsNextExecutable(proposalID string) (bool, error) {
	rec, err := l.recordFor(proposalID)
	if err != nil {
		return false, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	p := rec.find(proposalID)
	next, ok := rec.nextNonce()

	return ok && p.Nonce == next, nil
}

// CanExecute reports whether the proposal has reached the wallet's current
// threshold with currently-valid signatures, is the next nonce in sequence,
// and has not already reached a terminal status.
//
// The answer is a point-in-time read: submission paths must re-check
// immediately before building the packed signature blob.
func (l *Ledger) CanExecute(proposalID string) (bool, error) {
	rec, err := l.recordFor(proposalID)
	if err != nil {
		return false, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.canExecute(rec.find(proposalID)), nil
}

// canExecute is the lock-held form of CanExecute.
func (r *walletRecord) canExecute(p *types.TransactionProposal) bool {
	if p.Status.Terminal() {
		return false
	}
	if r.countValidSignatures(p) < int(r.wallet.Threshold) {
		return false
	}

	next, ok := r.nextNonce()

	return ok && p.Nonce == next
}

// MarkSubmitted records the chain transaction hash of a submission attempt.
// A dropped transaction may be retried with a new hash; the latest one wins.
func (l *Ledger) MarkSubmitted(ctx context.Context, proposalID string, txHash string) error {
	rec, err := l.recordFor(proposalID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	p := rec.find(proposalID)
	if p.Status.Terminal() {
		return fmt.Errorf("%w: proposal %s is terminal (%s)", types.ErrInvalidProposalStatus, p.ID, p.Status)
	}

	if p.ChainTxHash != "" && p.ChainTxHash != txHash {
		sdk.LoggerFrom(ctx).Warnf("proposal %s resubmitted: %s replaces %s", p.ID, txHash, p.ChainTxHash)
	}
	p.ChainTxHash = txHash

	return nil
}

// MarkTerminal transitions the proposal to a terminal outcome. Re-applying the
// same outcome is a no-op, so reconciliation can run repeatedly.
func (l *Ledger) MarkTerminal(ctx context.Context, proposalID string, outcome types.ProposalStatus, reason string) error {
	if !outcome.Terminal() {
		return fmt.Errorf("%w: %s is not a terminal status", types.ErrInvalidProposalStatus, outcome)
	}

	rec, err := l.recordFor(proposalID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	p := rec.find(proposalID)
	if err := p.TransitionTo(outcome); err != nil {
		return err
	}
	if reason != "" {
		p.FailReason = reason
	}

	sdk.LoggerFrom(ctx).Infof("proposal %s marked %s", p.ID, outcome)

	return nil
}

// ApplyConfirmedChange updates a registered wallet's owner list and threshold
// to reflect a configuration change that has been confirmed executed on
// chain. The update runs under the wallet's lock, so concurrent signature
// submissions and executability checks always observe a consistent owner set.
// It is idempotent: re-applying a change the list already reflects is a no-op.
//
// Callers must only invoke this after independent on-chain confirmation.
// Locally proposed but unexecuted changes never touch the owner list.
func (l *Ledger) ApplyConfirmedChange(ctx context.Context, walletID string, change types.ConfigurationChange) error {
	rec, err := l.record(walletID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := applyConfirmedChange(rec.wallet, change); err != nil {
		return err
	}

	sdk.LoggerFrom(ctx).Infof("wallet %s applied %s, threshold now %d",
		walletID, change.Kind, rec.wallet.Threshold)

	return nil
}

// Cancel explicitly withdraws a draft or pending proposal.
func (l *Ledger) Cancel(ctx context.Context, proposalID string) error {
	return l.MarkTerminal(ctx, proposalID, types.ProposalStatusCancelled, "")
}

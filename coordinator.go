package safekit

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofoftom/safekit/sdk"
	"github.com/proofoftom/safekit/types"
)

// SubmitResult reports what a signature submission did.
type SubmitResult string

const (
	// SubmitAccepted means the signature was recorded.
	SubmitAccepted SubmitResult = "accepted"
	// SubmitAlreadyPresent means the signer already had a recorded signature
	// and nothing changed.
	SubmitAlreadyPresent SubmitResult = "already_present"
)

// Coordinator validates and collects signatures against ledger proposals and
// produces the packed blob the wallet contract's execution call expects.
type Coordinator struct {
	ledger *Ledger
}

// NewCoordinator creates a Coordinator over a ledger.
func NewCoordinator(ledger *Ledger) *Coordinator {
	return &Coordinator{ledger: ledger}
}

// NormalizeVerificationByte maps a raw ECDSA recovery id to the value the
// wallet contract uses to mark an eth_sign style signature: 27 becomes 31 and
// 28 becomes 32 (0 and 1 are lifted to 27/28 first).
//
// This mapping is applied exactly once, here at collection time. Packing never
// touches v again: applying the offset twice silently produces a signature
// the contract cannot recover.
func NormalizeVerificationByte(sig types.Signature) types.Signature {
	if sig.V <= 1 {
		sig.V += types.SignatureVOffset
	}
	if sig.V == 27 || sig.V == 28 {
		sig.V += types.SignatureVEthSignOffset
	}

	return sig
}

// Submit records a signer's signature on a proposal.
//
// The signer's authorization is re-read from the wallet's current owner list
// under the wallet lock, not from any cached copy, because configuration
// changes can land concurrently. Submission is idempotent per signer: a second
// signature from the same address leaves state untouched and reports
// AlreadyPresent. The wallet must be deployed; without an address there is no
// signing hash to check the signature against.
func (c *Coordinator) Submit(ctx context.Context, proposalID string, signer common.Address, rawSignature []byte) (SubmitResult, error) {
	rec, err := c.ledger.recordFor(proposalID)
	if err != nil {
		return "", err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.wallet.Owners.Contains(signer) {
		return "", NewUnauthorizedSignerError(signer)
	}

	p := rec.find(proposalID)
	if p.Status.Terminal() {
		return "", fmt.Errorf("%w: proposal %s is terminal (%s)", types.ErrInvalidProposalStatus, p.ID, p.Status)
	}

	if _, ok := p.Signatures[signer]; ok {
		return SubmitAlreadyPresent, nil
	}

	sig, err := types.NewSignatureFromBytes(rawSignature)
	if err != nil {
		return "", NewMalformedSignatureError(signer, err.Error())
	}

	// Recovery check: the signature must actually belong to the signer that
	// submitted it, for this proposal's signing hash. An undeployed wallet
	// has no signing hash yet, so submission is rejected rather than storing
	// a signature nothing can verify.
	hash, err := ProposalHash(rec.wallet, p)
	if err != nil {
		return "", err
	}
	recovered, err := sig.Recover(hash)
	if err != nil {
		return "", NewMalformedSignatureError(signer, err.Error())
	}
	if recovered != signer {
		return "", NewMalformedSignatureError(signer,
			fmt.Sprintf("signature recovers to %s", recovered.Hex()))
	}

	p.Signatures[signer] = types.CollectedSignature{
		Signer:      signer,
		Signature:   NormalizeVerificationByte(sig),
		CollectedAt: time.Now().UTC(),
	}

	if p.Status == types.ProposalStatusDraft &&
		rec.countValidSignatures(p) >= int(rec.wallet.Threshold) {
		if err := p.TransitionTo(types.ProposalStatusPending); err != nil {
			return "", err
		}
		sdk.LoggerFrom(ctx).Infof("proposal %s reached threshold %d", p.ID, rec.wallet.Threshold)
	}

	return SubmitAccepted, nil
}

// Pack produces the packed signature blob for execution: each collected
// 65-byte signature concatenated in ascending numeric order of signer
// address. The contract walks the blob recovering each signer and requires
// strictly increasing addresses, so ordering is part of the wire format.
//
// Pack fails if the proposal is not currently executable; callers observing
// that error should treat it as "not yet ready" and retry, not as fatal.
func (c *Coordinator) Pack(proposalID string) ([]byte, error) {
	rec, err := c.ledger.recordFor(proposalID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	p := rec.find(proposalID)
	if p.Status.Terminal() {
		return nil, fmt.Errorf("%w: proposal %s is terminal (%s)", types.ErrInvalidProposalStatus, p.ID, p.Status)
	}
	if have := rec.countValidSignatures(p); have < int(rec.wallet.Threshold) {
		return nil, NewInsufficientSignaturesError(have, int(rec.wallet.Threshold))
	}
	if next, ok := rec.nextNonce(); !ok || p.Nonce != next {
		return nil, NewNonceOutOfOrderError(p.Nonce, next)
	}

	collected := make([]types.CollectedSignature, 0, len(p.Signatures))
	for signer, sig := range p.Signatures {
		if !rec.wallet.Owners.Contains(signer) {
			continue
		}
		collected = append(collected, sig)
	}

	// Addresses are big-endian 160-bit values, so byte order is numeric
	// order.
	slices.SortFunc(collected, func(a, b types.CollectedSignature) int {
		return bytes.Compare(a.Signer.Bytes(), b.Signer.Bytes())
	})

	packed := make([]byte, 0, len(collected)*types.SignatureBytesLength)
	for _, sig := range collected {
		b := sig.Signature.ToBytes()
		if len(b) != types.SignatureBytesLength {
			return nil, NewMalformedSignatureError(sig.Signer,
				fmt.Sprintf("stored signature is %d bytes", len(b)))
		}
		packed = append(packed, b...)
	}

	return packed, nil
}

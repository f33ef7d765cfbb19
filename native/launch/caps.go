package launch

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Capability tokens are unforgeable proof-of-role values passed explicitly
// into every privileged operation. The engine validates them by equality
// against identifiers fixed when the engine or listing was created; issuance
// and rotation live outside the core. A nil or mismatched token fails with
// ErrNotAuthorized before any state is touched.

// AdminCap authorizes protocol-wide operations such as listing creation and
// pause toggles.
type AdminCap struct {
	ID [32]byte
}

// CouncilCap authorizes lifecycle transitions (activate, finalize, cancel,
// complete) for one specific listing.
type CouncilCap struct {
	ID        [32]byte
	ListingID [32]byte
}

// OperatorCap authorizes fund-release operations (raise-fee collection and
// tranche release) for one specific listing.
type OperatorCap struct {
	ID        [32]byte
	ListingID [32]byte
}

// RouteCap authorizes revenue injection into one specific listing's reward
// vault.
type RouteCap struct {
	ID        [32]byte
	ListingID [32]byte
}

func deriveCapID(listingID [32]byte, role string, nonce uint64) [32]byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	digest := ethcrypto.Keccak256(listingID[:], []byte(role), buf[:])
	var out [32]byte
	copy(out[:], digest)
	return out
}

func (e *Engine) authorizeAdmin(cap *AdminCap) error {
	if cap == nil || e.adminCapID == ([32]byte{}) || cap.ID != e.adminCapID {
		return ErrNotAuthorized
	}
	return nil
}

func authorizeCouncil(l *Listing, cap *CouncilCap) error {
	if cap == nil || l == nil || cap.ListingID != l.ID || cap.ID != l.CouncilCapID {
		return ErrNotAuthorized
	}
	return nil
}

func authorizeOperator(l *Listing, cap *OperatorCap) error {
	if cap == nil || l == nil || cap.ListingID != l.ID || cap.ID != l.OperatorCapID {
		return ErrNotAuthorized
	}
	return nil
}

func authorizeRoute(l *Listing, cap *RouteCap) error {
	if cap == nil || l == nil || cap.ListingID != l.ID || cap.ID != l.RouteCapID {
		return ErrNotAuthorized
	}
	return nil
}

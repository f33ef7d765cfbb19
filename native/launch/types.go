package launch

import (
	"fmt"
	"math/big"
)

// moduleName identifies the launch module in protocol-wide pause toggles.
const moduleName = "launch"

// ListingStatus represents the lifecycle states of a crowdfunding listing.
type ListingStatus uint8

const (
	// ListingStatusDraft marks listings that have been created but do not
	// accept deposits yet.
	ListingStatusDraft ListingStatus = iota
	// ListingStatusActive marks listings open for backer deposits.
	ListingStatusActive
	// ListingStatusFinalized marks listings whose vesting schedule has been
	// fixed. Cancellation is unreachable from here on.
	ListingStatusFinalized
	// ListingStatusCompleted marks listings that released every tranche.
	ListingStatusCompleted
	// ListingStatusCancelled marks listings cancelled before finalization.
	// Cancelled listings accept no capital-flow operations except refunds.
	ListingStatusCancelled
)

// Valid reports whether the status value is within the supported range.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusActive, ListingStatusFinalized,
		ListingStatusCompleted, ListingStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the canonical lowercase name of the status.
func (s ListingStatus) String() string {
	switch s {
	case ListingStatusDraft:
		return "draft"
	case ListingStatusActive:
		return "active"
	case ListingStatusFinalized:
		return "finalized"
	case ListingStatusCompleted:
		return "completed"
	case ListingStatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// DepositRecord captures a single backer deposit. Records are append-only and
// creation-ordered; shares are minted 1:1 with principal.
type DepositRecord struct {
	ID        uint64
	Backer    [20]byte
	Amount    *big.Int
	Shares    *big.Int
	CreatedAt int64
	Refunded  bool
}

// Clone returns a deep copy of the deposit record.
func (d *DepositRecord) Clone() *DepositRecord {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Amount = copyBigInt(d.Amount)
	clone.Shares = copyBigInt(d.Shares)
	return &clone
}

// Tranche is one scheduled, time-gated release of vested principal to the
// listing operator. Tranches are keyed by explicit index so ready tranches may
// be released out of order while double release of one index stays impossible.
type Tranche struct {
	UnlockAt   int64
	Amount     *big.Int
	Released   bool
	ReleasedAt int64
}

// Clone returns a deep copy of the tranche.
func (t *Tranche) Clone() *Tranche {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Amount = copyBigInt(t.Amount)
	return &clone
}

// SupporterPass is the transferable record of one deposit's entitlement. The
// pass number and original backer are an immutable audit trail; transfers are
// a pure custody concern and never touch the fields below. The checkpoint is
// the global reward index observed at mint or last claim.
type SupporterPass struct {
	ListingID      [32]byte
	PassNumber     uint64
	OriginalBacker [20]byte
	DepositID      uint64
	Shares         *big.Int
	Checkpoint     *big.Int
	TotalClaimed   *big.Int
	MintedAt       int64
}

// Clone returns a deep copy of the pass so custody layers can hand out
// snapshots without exposing the stored instance.
func (p *SupporterPass) Clone() *SupporterPass {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Shares = copyBigInt(p.Shares)
	clone.Checkpoint = copyBigInt(p.Checkpoint)
	clone.TotalClaimed = copyBigInt(p.TotalClaimed)
	return &clone
}

// Listing aggregates the lifecycle state, static configuration and the two
// ledgers of a single campaign. The vaults persist independently of the
// lifecycle state so claims and refunds stay possible after cancellation or
// completion.
type Listing struct {
	ID               [32]byte
	Issuer           [20]byte
	ReleaseRecipient [20]byte
	Validator        [20]byte
	RouteBps         uint32
	Status           ListingStatus
	Paused           bool
	CouncilCapID     [32]byte
	OperatorCapID    [32]byte
	RouteCapID       [32]byte
	NextPassNumber   uint64
	CreatedAt        int64
	UpdatedAt        int64
	Capital          *CapitalVault
	Rewards          *RewardVault
}

// Clone returns a deep copy of the listing including both vaults.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Capital = l.Capital.Clone()
	clone.Rewards = l.Rewards.Clone()
	return &clone
}

// SanitizeListing validates the supplied listing and returns a cloned instance
// with non-nil vaults. The original value is not mutated.
func SanitizeListing(l *Listing) (*Listing, error) {
	if l == nil {
		return nil, fmt.Errorf("launch: nil listing")
	}
	clone := l.Clone()
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("launch: invalid listing status: %d", clone.Status)
	}
	if clone.RouteBps > feeBpsDenominator {
		return nil, fmt.Errorf("launch: route bps out of range: %d", clone.RouteBps)
	}
	if clone.Issuer == ([20]byte{}) {
		return nil, fmt.Errorf("launch: issuer required")
	}
	if clone.ReleaseRecipient == ([20]byte{}) {
		return nil, fmt.Errorf("launch: release recipient required")
	}
	if clone.Capital == nil {
		clone.Capital = NewCapitalVault()
	}
	if clone.Rewards == nil {
		clone.Rewards = NewRewardVault()
	}
	return clone, nil
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

package launch

import (
	"fmt"
	"math/big"

	"launchpool/core/types"
)

// Storage abstracts the subset of state manager functionality required by the
// launch ledger.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

var (
	listingPrefix   = []byte("launch/listing/")
	listingIndexKey = []byte("launch/listing/index")
	passPrefix      = []byte("launch/pass/")
	accountPrefix   = []byte("launch/account/")
)

func listingKey(id [32]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", listingPrefix, id))
}

func passKey(listingID [32]byte, passNumber uint64) []byte {
	return []byte(fmt.Sprintf("%s%x/%d", passPrefix, listingID, passNumber))
}

func accountKey(addr []byte) []byte {
	return []byte(fmt.Sprintf("%s%x", accountPrefix, addr))
}

type storedDeposit struct {
	ID        uint64
	Backer    [20]byte
	Amount    *big.Int
	Shares    *big.Int
	CreatedAt uint64
	Refunded  bool
}

type storedTranche struct {
	UnlockAt   uint64
	Amount     *big.Int
	Released   bool
	ReleasedAt uint64
}

type storedCapitalVault struct {
	TotalPrincipal *big.Int
	TotalShares    *big.Int
	ReleasedTotal  *big.Int
	RefundedTotal  *big.Int
	FeeAmount      *big.Int
	Deposits       []storedDeposit
	Schedule       []storedTranche
	ReleasedCount  uint32
	FeeCollected   bool
	Cancelled      bool
}

type storedRewardVault struct {
	TotalShares    *big.Int
	GlobalIndex    *big.Int
	TotalDeposited *big.Int
}

type storedListing struct {
	ID               [32]byte
	Issuer           [20]byte
	ReleaseRecipient [20]byte
	Validator        [20]byte
	RouteBps         uint32
	Status           uint8
	Paused           bool
	CouncilCapID     [32]byte
	OperatorCapID    [32]byte
	RouteCapID       [32]byte
	NextPassNumber   uint64
	CreatedAt        uint64
	UpdatedAt        uint64
	Capital          storedCapitalVault
	Rewards          storedRewardVault
}

type storedPass struct {
	ListingID      [32]byte
	PassNumber     uint64
	OriginalBacker [20]byte
	DepositID      uint64
	Shares         *big.Int
	Checkpoint     *big.Int
	TotalClaimed   *big.Int
	MintedAt       uint64
}

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

func clampUnix(ts int64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func toStoredListing(l *Listing) storedListing {
	stored := storedListing{
		ID:               l.ID,
		Issuer:           l.Issuer,
		ReleaseRecipient: l.ReleaseRecipient,
		Validator:        l.Validator,
		RouteBps:         l.RouteBps,
		Status:           uint8(l.Status),
		Paused:           l.Paused,
		CouncilCapID:     l.CouncilCapID,
		OperatorCapID:    l.OperatorCapID,
		RouteCapID:       l.RouteCapID,
		NextPassNumber:   l.NextPassNumber,
		CreatedAt:        clampUnix(l.CreatedAt),
		UpdatedAt:        clampUnix(l.UpdatedAt),
	}
	capital := l.Capital
	if capital == nil {
		capital = NewCapitalVault()
	}
	stored.Capital = storedCapitalVault{
		TotalPrincipal: copyBigInt(capital.TotalPrincipal),
		TotalShares:    copyBigInt(capital.TotalShares),
		ReleasedTotal:  copyBigInt(capital.ReleasedTotal),
		RefundedTotal:  copyBigInt(capital.RefundedTotal),
		FeeAmount:      copyBigInt(capital.FeeAmount),
		ReleasedCount:  capital.ReleasedCount,
		FeeCollected:   capital.FeeCollected,
		Cancelled:      capital.Cancelled,
	}
	for _, d := range capital.Deposits {
		stored.Capital.Deposits = append(stored.Capital.Deposits, storedDeposit{
			ID:        d.ID,
			Backer:    d.Backer,
			Amount:    copyBigInt(d.Amount),
			Shares:    copyBigInt(d.Shares),
			CreatedAt: clampUnix(d.CreatedAt),
			Refunded:  d.Refunded,
		})
	}
	for _, t := range capital.Schedule {
		stored.Capital.Schedule = append(stored.Capital.Schedule, storedTranche{
			UnlockAt:   clampUnix(t.UnlockAt),
			Amount:     copyBigInt(t.Amount),
			Released:   t.Released,
			ReleasedAt: clampUnix(t.ReleasedAt),
		})
	}
	rewards := l.Rewards
	if rewards == nil {
		rewards = NewRewardVault()
	}
	stored.Rewards = storedRewardVault{
		TotalShares:    copyBigInt(rewards.TotalShares),
		GlobalIndex:    copyBigInt(rewards.GlobalIndex),
		TotalDeposited: copyBigInt(rewards.TotalDeposited),
	}
	return stored
}

func fromStoredListing(stored storedListing) *Listing {
	listing := &Listing{
		ID:               stored.ID,
		Issuer:           stored.Issuer,
		ReleaseRecipient: stored.ReleaseRecipient,
		Validator:        stored.Validator,
		RouteBps:         stored.RouteBps,
		Status:           ListingStatus(stored.Status),
		Paused:           stored.Paused,
		CouncilCapID:     stored.CouncilCapID,
		OperatorCapID:    stored.OperatorCapID,
		RouteCapID:       stored.RouteCapID,
		NextPassNumber:   stored.NextPassNumber,
		CreatedAt:        int64(stored.CreatedAt),
		UpdatedAt:        int64(stored.UpdatedAt),
		Capital: &CapitalVault{
			TotalPrincipal: copyBigInt(stored.Capital.TotalPrincipal),
			TotalShares:    copyBigInt(stored.Capital.TotalShares),
			ReleasedTotal:  copyBigInt(stored.Capital.ReleasedTotal),
			RefundedTotal:  copyBigInt(stored.Capital.RefundedTotal),
			FeeAmount:      copyBigInt(stored.Capital.FeeAmount),
			ReleasedCount:  stored.Capital.ReleasedCount,
			FeeCollected:   stored.Capital.FeeCollected,
			Cancelled:      stored.Capital.Cancelled,
		},
		Rewards: &RewardVault{
			TotalShares:    copyBigInt(stored.Rewards.TotalShares),
			GlobalIndex:    copyBigInt(stored.Rewards.GlobalIndex),
			TotalDeposited: copyBigInt(stored.Rewards.TotalDeposited),
		},
	}
	for _, d := range stored.Capital.Deposits {
		listing.Capital.Deposits = append(listing.Capital.Deposits, &DepositRecord{
			ID:        d.ID,
			Backer:    d.Backer,
			Amount:    copyBigInt(d.Amount),
			Shares:    copyBigInt(d.Shares),
			CreatedAt: int64(d.CreatedAt),
			Refunded:  d.Refunded,
		})
	}
	for _, t := range stored.Capital.Schedule {
		listing.Capital.Schedule = append(listing.Capital.Schedule, &Tranche{
			UnlockAt:   int64(t.UnlockAt),
			Amount:     copyBigInt(t.Amount),
			Released:   t.Released,
			ReleasedAt: int64(t.ReleasedAt),
		})
	}
	return listing
}

// Store persists listings, passes and account balances through the generic
// key-value state manager. It implements the engine's state contract.
type Store struct {
	st Storage
}

// NewStore constructs a store bound to the provided storage backend.
func NewStore(st Storage) *Store {
	return &Store{st: st}
}

// ListingGet loads a listing by identifier.
func (s *Store) ListingGet(id [32]byte) (*Listing, bool, error) {
	var stored storedListing
	ok, err := s.st.KVGet(listingKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return fromStoredListing(stored), true, nil
}

// ListingPut persists a listing and maintains the creation-ordered index.
func (s *Store) ListingPut(l *Listing) error {
	if l == nil {
		return fmt.Errorf("launch: nil listing")
	}
	if err := s.st.KVPut(listingKey(l.ID), toStoredListing(l)); err != nil {
		return err
	}
	return s.st.KVAppend(listingIndexKey, l.ID[:])
}

// ListingIDs returns the identifiers of every persisted listing in creation
// order.
func (s *Store) ListingIDs() ([][32]byte, error) {
	var raw [][]byte
	if err := s.st.KVGetList(listingIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([][32]byte, 0, len(raw))
	for _, entry := range raw {
		if len(entry) != 32 {
			continue
		}
		var id [32]byte
		copy(id[:], entry)
		out = append(out, id)
	}
	return out, nil
}

// PassGet loads a stored pass by listing and sequence number.
func (s *Store) PassGet(listingID [32]byte, passNumber uint64) (*SupporterPass, bool, error) {
	var stored storedPass
	ok, err := s.st.KVGet(passKey(listingID, passNumber), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &SupporterPass{
		ListingID:      stored.ListingID,
		PassNumber:     stored.PassNumber,
		OriginalBacker: stored.OriginalBacker,
		DepositID:      stored.DepositID,
		Shares:         copyBigInt(stored.Shares),
		Checkpoint:     copyBigInt(stored.Checkpoint),
		TotalClaimed:   copyBigInt(stored.TotalClaimed),
		MintedAt:       int64(stored.MintedAt),
	}, true, nil
}

// PassPut persists a pass snapshot.
func (s *Store) PassPut(p *SupporterPass) error {
	if p == nil {
		return ErrNilPass
	}
	stored := storedPass{
		ListingID:      p.ListingID,
		PassNumber:     p.PassNumber,
		OriginalBacker: p.OriginalBacker,
		DepositID:      p.DepositID,
		Shares:         copyBigInt(p.Shares),
		Checkpoint:     copyBigInt(p.Checkpoint),
		TotalClaimed:   copyBigInt(p.TotalClaimed),
		MintedAt:       clampUnix(p.MintedAt),
	}
	return s.st.KVPut(passKey(p.ListingID, p.PassNumber), stored)
}

// PassDelete removes a consumed pass.
func (s *Store) PassDelete(listingID [32]byte, passNumber uint64) error {
	return s.st.KVDelete(passKey(listingID, passNumber))
}

// GetAccount loads the account stored for the supplied address. Unknown
// addresses yield a nil account, matching the engine's lazy initialisation.
func (s *Store) GetAccount(addr []byte) (*types.Account, error) {
	var stored storedAccount
	ok, err := s.st.KVGet(accountKey(addr), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &types.Account{Nonce: stored.Nonce, Balance: copyBigInt(stored.Balance)}, nil
}

// PutAccount persists the account for the supplied address.
func (s *Store) PutAccount(addr []byte, account *types.Account) error {
	if account == nil {
		return s.st.KVDelete(accountKey(addr))
	}
	stored := storedAccount{Nonce: account.Nonce, Balance: copyBigInt(account.Balance)}
	return s.st.KVPut(accountKey(addr), stored)
}

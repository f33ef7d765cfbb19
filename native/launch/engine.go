package launch

import (
	"errors"
	"math/big"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"launchpool/core/events"
	"launchpool/core/types"
	nativecommon "launchpool/native/common"
)

var (
	errNilState    = errors.New("launch engine: state not configured")
	errNilTreasury = errors.New("launch engine: treasury not configured")
)

// defaultMinDeposit is the protocol minimum for a single backer deposit,
// expressed in the smallest currency unit.
var defaultMinDeposit = big.NewInt(1)

// defaultRaiseFeeBps is the protocol raise fee carved out of gross principal
// at finalize time.
const defaultRaiseFeeBps uint32 = 250

type engineState interface {
	ListingGet(id [32]byte) (*Listing, bool, error)
	ListingPut(*Listing) error
	PassGet(listingID [32]byte, passNumber uint64) (*SupporterPass, bool, error)
	PassPut(*SupporterPass) error
	PassDelete(listingID [32]byte, passNumber uint64) error
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// StakingView is the narrow contract the engine consumes from the external
// staking-yield adapter: whether staking is enabled, how much of a listing's
// capital currently sits with the validator, and the fixed-ratio yield split.
type StakingView interface {
	Enabled() bool
	Staked(listingID [32]byte) *big.Int
	SplitRewards(amount *big.Int) (backerShare, treasuryShare *big.Int)
}

// TreasuryView is the narrow contract the engine consumes from the protocol
// fee vault.
type TreasuryView interface {
	Deposit(amount *big.Int) error
}

type launchEvent struct {
	evt *types.Event
}

func (e launchEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e launchEvent) Event() *types.Event { return e.evt }

// ListingCaps bundles the capability tokens minted alongside a listing. The
// engine hands them to the external issuance system exactly once; it never
// stores the tokens themselves, only their identifiers.
type ListingCaps struct {
	Council  *CouncilCap
	Operator *OperatorCap
	Route    *RouteCap
}

// Engine orchestrates the listing state machine and coordinates the capital
// and reward vaults with account balances. Every mutating operation validates
// all preconditions before touching state.
type Engine struct {
	state      engineState
	emitter    events.Emitter
	pauses     nativecommon.PauseView
	staking    StakingView
	treasury   TreasuryView
	nowFn      func() int64
	adminCapID [32]byte
	feeBps     uint32
	minDeposit *big.Int
}

// NewEngine constructs a launch engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:    events.NoopEmitter{},
		nowFn:      func() int64 { return time.Now().Unix() },
		feeBps:     defaultRaiseFeeBps,
		minDeposit: new(big.Int).Set(defaultMinDeposit),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses configures the protocol-wide pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetStaking configures the staking-yield adapter view.
func (e *Engine) SetStaking(s StakingView) { e.staking = s }

// SetTreasury configures the protocol fee vault.
func (e *Engine) SetTreasury(t TreasuryView) { e.treasury = t }

// SetAdminCap registers the protocol admin capability identifier.
func (e *Engine) SetAdminCap(id [32]byte) { e.adminCapID = id }

// SetRaiseFeeBps overrides the protocol raise fee.
func (e *Engine) SetRaiseFeeBps(bps uint32) error {
	if bps > feeBpsDenominator {
		return ErrInvalidAmount
	}
	e.feeBps = bps
	return nil
}

// SetMinDeposit overrides the protocol deposit minimum.
func (e *Engine) SetMinDeposit(minimum *big.Int) {
	if minimum == nil || minimum.Sign() <= 0 {
		e.minDeposit = new(big.Int).Set(defaultMinDeposit)
		return
	}
	e.minDeposit = new(big.Int).Set(minimum)
}

// SetNowFunc overrides the time source used for tranche readiness checks.
// Primarily intended for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(launchEvent{evt: evt})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// CapitalPoolAddress derives the account holding a listing's undisbursed
// principal.
func CapitalPoolAddress(listingID [32]byte) [20]byte {
	return poolAddress("launch/capital", listingID)
}

// RewardPoolAddress derives the account holding a listing's undistributed
// revenue.
func RewardPoolAddress(listingID [32]byte) [20]byte {
	return poolAddress("launch/rewards", listingID)
}

func poolAddress(domain string, listingID [32]byte) [20]byte {
	digest := ethcrypto.Keccak256([]byte(domain), listingID[:])
	var out [20]byte
	copy(out[:], digest[12:])
	return out
}

func (e *Engine) loadListing(id [32]byte) (*Listing, error) {
	if e.state == nil {
		return nil, errNilState
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (e *Engine) loadAccount(addr [20]byte) (*types.Account, error) {
	acc, err := e.state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = types.NewAccount()
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc, nil
}

// transfer moves amount between two accounts, failing with
// ErrInsufficientBalance before any mutation when the source cannot cover it.
func (e *Engine) transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	src, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if src.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	dst, err := e.loadAccount(to)
	if err != nil {
		return err
	}
	src.Balance = new(big.Int).Sub(src.Balance, amount)
	dst.Balance = new(big.Int).Add(dst.Balance, amount)
	if err := e.state.PutAccount(from[:], src); err != nil {
		return err
	}
	return e.state.PutAccount(to[:], dst)
}

// guardFundFlow rejects fund-moving operations while the module or the
// listing itself is paused. Claims and refunds deliberately bypass this.
func (e *Engine) guardFundFlow(l *Listing) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if l.Paused {
		return ErrPaused
	}
	return nil
}

// CreateListing registers a new draft listing and mints its capability
// tokens. The listing identifier is the keccak256 hash of issuer, release
// recipient and a caller-supplied nonce, giving deterministic IDs without
// storing the nonce.
func (e *Engine) CreateListing(cap *AdminCap, issuer, releaseRecipient, validator [20]byte, routeBps uint32, nonce uint64) (*Listing, *ListingCaps, error) {
	if err := e.authorizeAdmin(cap); err != nil {
		return nil, nil, err
	}
	if e.state == nil {
		return nil, nil, errNilState
	}
	var nonceBuf [8]byte
	for i := 0; i < 8; i++ {
		nonceBuf[7-i] = byte(nonce >> (8 * i))
	}
	digest := ethcrypto.Keccak256(issuer[:], releaseRecipient[:], nonceBuf[:])
	var id [32]byte
	copy(id[:], digest)

	if _, ok, err := e.state.ListingGet(id); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, nil, ErrListingExists
	}

	now := e.now()
	listing := &Listing{
		ID:               id,
		Issuer:           issuer,
		ReleaseRecipient: releaseRecipient,
		Validator:        validator,
		RouteBps:         routeBps,
		Status:           ListingStatusDraft,
		CouncilCapID:     deriveCapID(id, "council", nonce),
		OperatorCapID:    deriveCapID(id, "operator", nonce),
		RouteCapID:       deriveCapID(id, "route", nonce),
		NextPassNumber:   1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	sanitized, err := SanitizeListing(listing)
	if err != nil {
		return nil, nil, err
	}
	if err := e.state.ListingPut(sanitized); err != nil {
		return nil, nil, err
	}
	caps := &ListingCaps{
		Council:  &CouncilCap{ID: sanitized.CouncilCapID, ListingID: id},
		Operator: &OperatorCap{ID: sanitized.OperatorCapID, ListingID: id},
		Route:    &RouteCap{ID: sanitized.RouteCapID, ListingID: id},
	}
	e.emit(NewListingEvent(EventTypeListingCreated, sanitized))
	return sanitized.Clone(), caps, nil
}

// Activate transitions a draft listing into the active state, opening it for
// deposits.
func (e *Engine) Activate(cap *CouncilCap, listingID [32]byte) error {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return err
	}
	if err := authorizeCouncil(listing, cap); err != nil {
		return err
	}
	if listing.Status != ListingStatusDraft {
		return ErrNotDraft
	}
	listing.Status = ListingStatusActive
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	e.emit(NewListingEvent(EventTypeListingActivated, listing))
	return nil
}

// SetListingPaused toggles the listing-level pause flag. The flag gates
// deposits and fund-release operations only; claims stay live.
func (e *Engine) SetListingPaused(cap *AdminCap, listingID [32]byte, paused bool) error {
	if err := e.authorizeAdmin(cap); err != nil {
		return err
	}
	listing, err := e.loadListing(listingID)
	if err != nil {
		return err
	}
	if listing.Paused == paused {
		return nil
	}
	listing.Paused = paused
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	eventType := EventTypeListingResumed
	if paused {
		eventType = EventTypeListingPaused
	}
	e.emit(NewListingEvent(eventType, listing))
	return nil
}

// Deposit accepts backer principal, mints shares 1:1, registers them with the
// reward vault and mints a supporter pass checkpointed at the current global
// index. The share registration and checkpoint happen in the same unit of
// work, which is what guarantees the late-joiner property.
func (e *Engine) Deposit(listingID [32]byte, backer [20]byte, amount *big.Int) (*SupporterPass, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := e.guardFundFlow(listing); err != nil {
		return nil, err
	}
	if listing.Status != ListingStatusActive {
		return nil, ErrNotActive
	}
	now := e.now()
	record, err := listing.Capital.Deposit(backer, amount, e.minDeposit, now)
	if err != nil {
		return nil, err
	}
	if err := listing.Rewards.RegisterShares(record.Shares); err != nil {
		return nil, err
	}
	pass := &SupporterPass{
		ListingID:      listingID,
		PassNumber:     listing.NextPassNumber,
		OriginalBacker: backer,
		DepositID:      record.ID,
		Shares:         copyBigInt(record.Shares),
		Checkpoint:     copyBigInt(listing.Rewards.GlobalIndex),
		TotalClaimed:   big.NewInt(0),
		MintedAt:       now,
	}
	listing.NextPassNumber++
	listing.UpdatedAt = now

	if err := e.transfer(backer, CapitalPoolAddress(listingID), amount); err != nil {
		return nil, err
	}
	if err := e.state.PassPut(pass); err != nil {
		return nil, err
	}
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewDepositEvent(listing, pass))
	return pass.Clone(), nil
}

// Finalize fixes the vesting schedule and moves the listing into the
// finalized state. Cancellation becomes unreachable.
func (e *Engine) Finalize(cap *CouncilCap, listingID [32]byte) ([]*Tranche, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCouncil(listing, cap); err != nil {
		return nil, err
	}
	if listing.Status != ListingStatusActive {
		return nil, ErrNotActive
	}
	schedule, err := listing.Capital.FinalizeSchedule(e.now(), e.feeBps)
	if err != nil {
		return nil, err
	}
	listing.Status = ListingStatusFinalized
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewListingEvent(EventTypeFinalized, listing))
	return schedule, nil
}

// CollectRaiseFee moves the raise fee fixed at finalize time from the capital
// pool into the protocol treasury. Legal exactly once, independent of tranche
// release order.
func (e *Engine) CollectRaiseFee(cap *OperatorCap, listingID [32]byte) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOperator(listing, cap); err != nil {
		return nil, err
	}
	if err := e.guardFundFlow(listing); err != nil {
		return nil, err
	}
	if e.treasury == nil {
		return nil, errNilTreasury
	}
	fee, err := listing.Capital.CollectRaiseFee()
	if err != nil {
		return nil, err
	}
	if fee.Sign() > 0 {
		pool := CapitalPoolAddress(listingID)
		src, err := e.loadAccount(pool)
		if err != nil {
			return nil, err
		}
		if src.Balance.Cmp(fee) < 0 {
			return nil, ErrInsufficientBalance
		}
		src.Balance = new(big.Int).Sub(src.Balance, fee)
		if err := e.state.PutAccount(pool[:], src); err != nil {
			return nil, err
		}
		if err := e.treasury.Deposit(fee); err != nil {
			return nil, err
		}
	}
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewFeeCollectedEvent(listing, fee))
	return fee, nil
}

// ReleaseTranche pays one ready tranche to the release recipient. Any ready
// index may be targeted directly; double release of one index fails.
func (e *Engine) ReleaseTranche(cap *OperatorCap, listingID [32]byte, index int) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOperator(listing, cap); err != nil {
		return nil, err
	}
	if err := e.guardFundFlow(listing); err != nil {
		return nil, err
	}
	amount, err := listing.Capital.ReleaseTrancheAt(index, e.now())
	if err != nil {
		return nil, err
	}
	if err := e.transfer(CapitalPoolAddress(listingID), listing.ReleaseRecipient, amount); err != nil {
		return nil, err
	}
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewTrancheReleasedEvent(listing, index, amount))
	return amount, nil
}

// RewardRouting reports how an injected reward was divided between the
// listing's backers and the protocol treasury.
type RewardRouting struct {
	BackerShare   *big.Int
	TreasuryShare *big.Int
}

// DepositRewards injects downstream revenue. The listing's routing basis
// points decide the backer share, which advances the global index and lands
// in the reward pool; the remainder goes to the protocol treasury.
func (e *Engine) DepositRewards(cap *RouteCap, listingID [32]byte, funder [20]byte, amount *big.Int) (*RewardRouting, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRoute(listing, cap); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	backerShare := bpsShare(amount, listing.RouteBps)
	treasuryShare := new(big.Int).Sub(amount, backerShare)
	if err := e.routeRewards(listing, funder, amount, backerShare, treasuryShare); err != nil {
		return nil, err
	}
	return &RewardRouting{BackerShare: backerShare, TreasuryShare: treasuryShare}, nil
}

// DepositYield injects staking yield through the external adapter's fixed
// split. Fails when staking is disabled.
func (e *Engine) DepositYield(cap *RouteCap, listingID [32]byte, funder [20]byte, amount *big.Int) (*RewardRouting, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRoute(listing, cap); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if e.staking == nil || !e.staking.Enabled() {
		return nil, ErrStakedCapital
	}
	backerShare, treasuryShare := e.staking.SplitRewards(amount)
	if err := e.routeRewards(listing, funder, amount, backerShare, treasuryShare); err != nil {
		return nil, err
	}
	return &RewardRouting{BackerShare: backerShare, TreasuryShare: treasuryShare}, nil
}

func (e *Engine) routeRewards(listing *Listing, funder [20]byte, amount, backerShare, treasuryShare *big.Int) error {
	if treasuryShare.Sign() > 0 && e.treasury == nil {
		return errNilTreasury
	}
	src, err := e.loadAccount(funder)
	if err != nil {
		return err
	}
	if src.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if backerShare.Sign() > 0 {
		if err := listing.Rewards.DepositRewards(backerShare); err != nil {
			return err
		}
	}
	if err := e.transfer(funder, RewardPoolAddress(listing.ID), backerShare); err != nil {
		return err
	}
	if treasuryShare.Sign() > 0 {
		src, err = e.loadAccount(funder)
		if err != nil {
			return err
		}
		src.Balance = new(big.Int).Sub(src.Balance, treasuryShare)
		if err := e.state.PutAccount(funder[:], src); err != nil {
			return err
		}
		if err := e.treasury.Deposit(treasuryShare); err != nil {
			return err
		}
	}
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	e.emit(NewRewardsDepositedEvent(listing, amount, treasuryShare))
	return nil
}

// Claim pays the accrued entitlement on a pass to the presented holder. Legal
// in any lifecycle state and under any pause: accrued entitlement is never
// frozen by operational pauses. The pass is mutated in place so custody
// wrappers only need a mutable reference, never exclusive possession.
func (e *Engine) Claim(listingID [32]byte, holder [20]byte, pass *SupporterPass) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if pass.ListingID != listingID {
		return nil, ErrWrongListing
	}
	amount, err := listing.Rewards.Claim(pass)
	if err != nil {
		return nil, err
	}
	if err := e.transfer(RewardPoolAddress(listingID), holder, amount); err != nil {
		return nil, err
	}
	if err := e.state.PassPut(pass); err != nil {
		return nil, err
	}
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewClaimedEvent(listing, pass, holder, amount))
	return amount, nil
}

// ClaimMany claims for a batch of passes held by one holder, skipping passes
// with nothing to claim. Returns the accumulated payout; zero for an empty
// batch.
func (e *Engine) ClaimMany(listingID [32]byte, holder [20]byte, passes []*SupporterPass) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	total := big.NewInt(0)
	claimable := make([]*SupporterPass, 0, len(passes))
	for _, pass := range passes {
		if pass == nil {
			continue
		}
		if pass.ListingID != listingID {
			return nil, ErrWrongListing
		}
		amount := listing.Rewards.CalculateClaimable(pass.Shares, pass.Checkpoint)
		if amount.Sign() == 0 {
			continue
		}
		claimable = append(claimable, pass)
		total = total.Add(total, amount)
	}
	if total.Sign() == 0 {
		return total, nil
	}
	// Pay out first: checkpoints must not advance on a failed transfer.
	if err := e.transfer(RewardPoolAddress(listingID), holder, total); err != nil {
		return nil, err
	}
	for _, pass := range claimable {
		if _, err := listing.Rewards.Claim(pass); err != nil {
			return nil, err
		}
		if err := e.state.PassPut(pass); err != nil {
			return nil, err
		}
	}
	e.emit(NewClaimedManyEvent(listing, holder, total))
	return total, nil
}

// Claimable reports the current accrued entitlement of a pass without
// mutating anything.
func (e *Engine) Claimable(listingID [32]byte, pass *SupporterPass) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if pass.ListingID != listingID {
		return nil, ErrWrongListing
	}
	return listing.Rewards.CalculateClaimable(pass.Shares, pass.Checkpoint), nil
}

// CancelListing aborts an active listing before finalization. Fails while any
// capital is staked with the external validator; unstake must happen first.
func (e *Engine) CancelListing(cap *CouncilCap, listingID [32]byte) error {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return err
	}
	if err := authorizeCouncil(listing, cap); err != nil {
		return err
	}
	switch listing.Status {
	case ListingStatusActive:
	case ListingStatusFinalized, ListingStatusCompleted:
		return ErrCannotCancel
	case ListingStatusCancelled:
		return ErrCancelled
	default:
		return ErrNotActive
	}
	if e.staking != nil {
		if staked := e.staking.Staked(listingID); staked != nil && staked.Sign() > 0 {
			return ErrStakedCapital
		}
	}
	if err := listing.Capital.Cancel(); err != nil {
		return err
	}
	listing.Status = ListingStatusCancelled
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	e.emit(NewListingEvent(EventTypeCancelled, listing))
	return nil
}

// ClaimRefund pays the pro-rata refund for one deposit to the presented
// holder and consumes the pass. Legal only once the listing is cancelled;
// refund claims ignore pause flags the same way reward claims do.
func (e *Engine) ClaimRefund(listingID [32]byte, holder [20]byte, pass *SupporterPass) (*big.Int, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if pass.ListingID != listingID {
		return nil, ErrWrongListing
	}
	if listing.Status != ListingStatusCancelled {
		return nil, ErrNotCancelled
	}
	amount, err := listing.Capital.ClaimRefund(pass.DepositID)
	if err != nil {
		return nil, err
	}
	if err := e.transfer(CapitalPoolAddress(listingID), holder, amount); err != nil {
		return nil, err
	}
	if err := e.state.PassDelete(listingID, pass.PassNumber); err != nil {
		return nil, err
	}
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(NewRefundedEvent(listing, pass, holder, amount))
	return amount, nil
}

// Complete closes out a finalized listing once every tranche has been
// released.
func (e *Engine) Complete(cap *CouncilCap, listingID [32]byte) error {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return err
	}
	if err := authorizeCouncil(listing, cap); err != nil {
		return err
	}
	if listing.Status != ListingStatusFinalized {
		return ErrNotFinalized
	}
	if !listing.Capital.AllReleased() {
		return ErrTranchesPending
	}
	listing.Status = ListingStatusCompleted
	listing.UpdatedAt = e.now()
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	e.emit(NewListingEvent(EventTypeCompleted, listing))
	return nil
}

// GetListing returns a snapshot of the listing.
func (e *Engine) GetListing(listingID [32]byte) (*Listing, error) {
	listing, err := e.loadListing(listingID)
	if err != nil {
		return nil, err
	}
	return listing.Clone(), nil
}

// GetPass returns a snapshot of a stored pass.
func (e *Engine) GetPass(listingID [32]byte, passNumber uint64) (*SupporterPass, error) {
	if e.state == nil {
		return nil, errNilState
	}
	pass, ok, err := e.state.PassGet(listingID, passNumber)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPassNotFound
	}
	return pass.Clone(), nil
}

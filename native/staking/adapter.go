package staking

import (
	"errors"
	"math/big"
)

var (
	// ErrDisabled is returned when staking operations run while the adapter
	// is switched off.
	ErrDisabled = errors.New("staking: adapter disabled")
	// ErrInvalidAmount rejects zero or negative amounts.
	ErrInvalidAmount = errors.New("staking: amount must be positive")
	// ErrInsufficientStake marks withdrawals exceeding the staked balance.
	ErrInsufficientStake = errors.New("staking: insufficient staked balance")
	// ErrInvalidRatio rejects split ratios outside the basis-point range.
	ErrInvalidRatio = errors.New("staking: split ratio out of range")
)

const bpsDenominator = 10_000

// defaultBackerShareBps is the fixed portion of staking yield routed back to
// backers; the remainder goes to the protocol treasury.
const defaultBackerShareBps uint32 = 8_000

// Adapter books capital deposited to an external validator and performs the
// fixed-ratio yield split. It carries no distribution logic of its own; the
// launch engine consults it before cancellation and when routing yield.
type Adapter struct {
	enabled        bool
	validator      [20]byte
	backerShareBps uint32
	staked         map[[32]byte]*big.Int
	totalStaked    *big.Int
	store          Storage
}

// NewAdapter returns a disabled adapter with the default 80/20 yield split.
func NewAdapter() *Adapter {
	return &Adapter{
		backerShareBps: defaultBackerShareBps,
		staked:         make(map[[32]byte]*big.Int),
		totalStaked:    big.NewInt(0),
	}
}

// Enabled reports whether staking is switched on.
func (a *Adapter) Enabled() bool { return a.enabled }

// SetEnabled toggles the adapter.
func (a *Adapter) SetEnabled(enabled bool) { a.enabled = enabled }

// Validator returns the configured validator address.
func (a *Adapter) Validator() [20]byte { return a.validator }

// SetValidator rotates the validator address.
func (a *Adapter) SetValidator(validator [20]byte) { a.validator = validator }

// SetBackerShareBps overrides the fixed yield split.
func (a *Adapter) SetBackerShareBps(bps uint32) error {
	if bps > bpsDenominator {
		return ErrInvalidRatio
	}
	a.backerShareBps = bps
	return nil
}

// Deposit books capital staked with the validator on behalf of a listing.
func (a *Adapter) Deposit(listingID [32]byte, amount *big.Int) error {
	if !a.enabled {
		return ErrDisabled
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	current := a.staked[listingID]
	if current == nil {
		current = big.NewInt(0)
	}
	a.staked[listingID] = new(big.Int).Add(current, amount)
	a.totalStaked = new(big.Int).Add(a.totalStaked, amount)
	return a.persist()
}

// Withdraw books capital returned from the validator and returns the amount
// actually withdrawn.
func (a *Adapter) Withdraw(listingID [32]byte, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	current := a.staked[listingID]
	if current == nil || current.Cmp(amount) < 0 {
		return nil, ErrInsufficientStake
	}
	a.staked[listingID] = new(big.Int).Sub(current, amount)
	a.totalStaked = new(big.Int).Sub(a.totalStaked, amount)
	if err := a.persist(); err != nil {
		return nil, err
	}
	return new(big.Int).Set(amount), nil
}

// Staked returns the capital currently staked for a listing.
func (a *Adapter) Staked(listingID [32]byte) *big.Int {
	current := a.staked[listingID]
	if current == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(current)
}

// TotalStaked returns the capital staked across all listings.
func (a *Adapter) TotalStaked() *big.Int { return new(big.Int).Set(a.totalStaked) }

// SplitRewards divides a yield amount into the backer share and the treasury
// share at the fixed ratio. The backer share floors; the treasury share takes
// the remainder so the two always sum exactly to the input.
func (a *Adapter) SplitRewards(amount *big.Int) (*big.Int, *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	backer := new(big.Int).Mul(amount, big.NewInt(int64(a.backerShareBps)))
	backer = backer.Div(backer, big.NewInt(bpsDenominator))
	treasury := new(big.Int).Sub(amount, backer)
	return backer, treasury
}

package launch

import "math/big"

// RewardVault distributes injected revenue proportionally to share holders
// with O(1) bookkeeping per operation. It maintains a monotonically
// non-decreasing fixed-point global index (reward per share, scaled by
// indexPrecision); each pass stores the index observed at mint or last claim
// so newly accrued entitlement is shares * (index - checkpoint) / precision.
type RewardVault struct {
	TotalShares    *big.Int
	GlobalIndex    *big.Int
	TotalDeposited *big.Int
}

// NewRewardVault returns an empty reward vault.
func NewRewardVault() *RewardVault {
	return &RewardVault{
		TotalShares:    big.NewInt(0),
		GlobalIndex:    big.NewInt(0),
		TotalDeposited: big.NewInt(0),
	}
}

// Clone returns a deep copy of the vault.
func (v *RewardVault) Clone() *RewardVault {
	if v == nil {
		return nil
	}
	return &RewardVault{
		TotalShares:    copyBigInt(v.TotalShares),
		GlobalIndex:    copyBigInt(v.GlobalIndex),
		TotalDeposited: copyBigInt(v.TotalDeposited),
	}
}

// DepositRewards records injected revenue and advances the global index by
// amount * precision / totalShares. A deposit made while no shares are
// registered is recorded in the total-deposited counter but does not move the
// index: the funds would be unattributable. Callers that consider this an
// error must reject the deposit before calling in.
func (v *RewardVault) DepositRewards(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	v.TotalDeposited = new(big.Int).Add(v.TotalDeposited, amount)
	if v.TotalShares.Sign() == 0 {
		return nil
	}
	delta := new(big.Int).Mul(amount, indexPrecision)
	delta = delta.Div(delta, v.TotalShares)
	v.GlobalIndex = new(big.Int).Add(v.GlobalIndex, delta)
	return nil
}

// RegisterShares adds newly minted shares to the distribution base. The
// orchestrator calls this in the same unit of work that sets the new pass's
// checkpoint to the current index, which is what excludes a late joiner from
// revenue deposited before the pass existed.
func (v *RewardVault) RegisterShares(shares *big.Int) error {
	if shares == nil || shares.Sign() <= 0 {
		return ErrInvalidAmount
	}
	v.TotalShares = new(big.Int).Add(v.TotalShares, shares)
	return nil
}

// CalculateClaimable returns shares * (globalIndex - checkpoint) / precision.
// Checkpoints are only ever set to past-or-present snapshots of the index, so
// the delta can never be negative by construction; a stale or nil input still
// clamps to zero rather than underflowing.
func (v *RewardVault) CalculateClaimable(shares, checkpoint *big.Int) *big.Int {
	if shares == nil || shares.Sign() <= 0 {
		return big.NewInt(0)
	}
	if checkpoint == nil {
		checkpoint = big.NewInt(0)
	}
	delta := new(big.Int).Sub(v.GlobalIndex, checkpoint)
	if delta.Sign() <= 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(shares, delta)
	return out.Div(out, indexPrecision)
}

// Claim pays out the accrued entitlement recorded on the pass, advances its
// checkpoint to the current index and increments its cumulative counter. A
// zero claimable fails with ErrNothingToClaim, which is how double claims and
// no-revenue claims are rejected.
func (v *RewardVault) Claim(pass *SupporterPass) (*big.Int, error) {
	if pass == nil {
		return nil, ErrNilPass
	}
	amount := v.CalculateClaimable(pass.Shares, pass.Checkpoint)
	if amount.Sign() == 0 {
		return nil, ErrNothingToClaim
	}
	pass.Checkpoint = copyBigInt(v.GlobalIndex)
	pass.TotalClaimed = new(big.Int).Add(copyBigInt(pass.TotalClaimed), amount)
	return amount, nil
}

// ClaimMany claims for a batch of passes, skipping passes with nothing to
// claim instead of failing. An empty batch yields zero. Each pass's outcome
// depends only on its own checkpoint, so batch order is irrelevant.
func (v *RewardVault) ClaimMany(passes []*SupporterPass) (*big.Int, error) {
	total := big.NewInt(0)
	for _, pass := range passes {
		if pass == nil {
			continue
		}
		amount := v.CalculateClaimable(pass.Shares, pass.Checkpoint)
		if amount.Sign() == 0 {
			continue
		}
		pass.Checkpoint = copyBigInt(v.GlobalIndex)
		pass.TotalClaimed = new(big.Int).Add(copyBigInt(pass.TotalClaimed), amount)
		total = total.Add(total, amount)
	}
	return total, nil
}

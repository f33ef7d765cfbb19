package launch

import "math/big"

const (
	// feeBpsDenominator is the fixed denominator for basis-point math.
	feeBpsDenominator = 10_000
	// initialTrancheBps is the share of net principal unlocked immediately
	// when the schedule is finalized.
	initialTrancheBps = 2_000
	// monthlyTrancheCount is the number of equal follow-up tranches.
	monthlyTrancheCount = 12
	// trancheIntervalSeconds is the cadence between consecutive tranches.
	trancheIntervalSeconds = 30 * 24 * 60 * 60
)

// indexPrecision scales the reward-per-share global index. Rounding from the
// fixed-point division always floors in favour of the vault.
var indexPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// bpsShare returns floor(amount * bps / 10_000).
func bpsShare(amount *big.Int, bps uint32) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return share.Div(share, big.NewInt(feeBpsDenominator))
}

// buildSchedule constructs the immutable vesting schedule over the net
// principal: one initial tranche unlocking at start, releasing
// initialTrancheBps of net, followed by monthlyTrancheCount equal tranches 30
// days apart. The integer-division remainder is folded into the final tranche
// so the amounts sum exactly to net.
func buildSchedule(net *big.Int, start int64) []*Tranche {
	schedule := make([]*Tranche, 0, monthlyTrancheCount+1)
	initial := bpsShare(net, initialTrancheBps)
	schedule = append(schedule, &Tranche{UnlockAt: start, Amount: initial})

	remaining := new(big.Int).Sub(net, initial)
	per := new(big.Int).Div(remaining, big.NewInt(monthlyTrancheCount))
	distributed := big.NewInt(0)
	unlock := start
	for i := 0; i < monthlyTrancheCount; i++ {
		unlock += trancheIntervalSeconds
		amount := new(big.Int).Set(per)
		if i == monthlyTrancheCount-1 {
			amount = new(big.Int).Sub(remaining, distributed)
		}
		distributed = distributed.Add(distributed, amount)
		schedule = append(schedule, &Tranche{UnlockAt: unlock, Amount: amount})
	}
	return schedule
}

// prorataShare returns floor(shares * pool / totalShares). A zero totalShares
// yields zero rather than dividing by zero.
func prorataShare(shares, pool, totalShares *big.Int) *big.Int {
	if shares == nil || pool == nil || totalShares == nil {
		return big.NewInt(0)
	}
	if shares.Sign() <= 0 || pool.Sign() <= 0 || totalShares.Sign() <= 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(shares, pool)
	return out.Div(out, totalShares)
}

package launch

import (
	"fmt"
	"math/big"
)

// CapitalVault tracks the principal side of a listing: total principal,
// per-deposit share records, the vesting schedule once fixed, raise-fee
// bookkeeping and cancellation/refund accounting. Share price is 1:1 with
// principal for every deposit before finalize, which keeps the proportional
// math exact. Lifecycle gating (which operations are legal in which listing
// state) is enforced by the orchestrating engine, not by the vault.
type CapitalVault struct {
	TotalPrincipal *big.Int
	TotalShares    *big.Int
	ReleasedTotal  *big.Int
	RefundedTotal  *big.Int
	FeeAmount      *big.Int
	Deposits       []*DepositRecord
	Schedule       []*Tranche
	ReleasedCount  uint32
	FeeCollected   bool
	Cancelled      bool
}

// NewCapitalVault returns an empty vault with zeroed counters.
func NewCapitalVault() *CapitalVault {
	return &CapitalVault{
		TotalPrincipal: big.NewInt(0),
		TotalShares:    big.NewInt(0),
		ReleasedTotal:  big.NewInt(0),
		RefundedTotal:  big.NewInt(0),
		FeeAmount:      big.NewInt(0),
	}
}

// Clone returns a deep copy of the vault.
func (v *CapitalVault) Clone() *CapitalVault {
	if v == nil {
		return nil
	}
	clone := &CapitalVault{
		TotalPrincipal: copyBigInt(v.TotalPrincipal),
		TotalShares:    copyBigInt(v.TotalShares),
		ReleasedTotal:  copyBigInt(v.ReleasedTotal),
		RefundedTotal:  copyBigInt(v.RefundedTotal),
		FeeAmount:      copyBigInt(v.FeeAmount),
		ReleasedCount:  v.ReleasedCount,
		FeeCollected:   v.FeeCollected,
		Cancelled:      v.Cancelled,
	}
	if len(v.Deposits) > 0 {
		clone.Deposits = make([]*DepositRecord, len(v.Deposits))
		for i, d := range v.Deposits {
			clone.Deposits[i] = d.Clone()
		}
	}
	if len(v.Schedule) > 0 {
		clone.Schedule = make([]*Tranche, len(v.Schedule))
		for i, t := range v.Schedule {
			clone.Schedule[i] = t.Clone()
		}
	}
	return clone
}

// Finalized reports whether the vesting schedule has been fixed.
func (v *CapitalVault) Finalized() bool { return len(v.Schedule) > 0 }

// AllReleased reports whether every tranche has been released.
func (v *CapitalVault) AllReleased() bool {
	return v.Finalized() && int(v.ReleasedCount) == len(v.Schedule)
}

// Deposit appends a deposit record and mints shares 1:1 with principal. The
// amount must meet the supplied protocol minimum.
func (v *CapitalVault) Deposit(backer [20]byte, amount, minimum *big.Int, now int64) (*DepositRecord, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if minimum != nil && amount.Cmp(minimum) < 0 {
		return nil, ErrBelowMinimum
	}
	if v.Cancelled {
		return nil, ErrCancelled
	}
	if v.Finalized() {
		return nil, ErrScheduleFinalized
	}
	record := &DepositRecord{
		ID:        uint64(len(v.Deposits)) + 1,
		Backer:    backer,
		Amount:    new(big.Int).Set(amount),
		Shares:    new(big.Int).Set(amount),
		CreatedAt: now,
	}
	v.TotalPrincipal = new(big.Int).Add(v.TotalPrincipal, amount)
	v.TotalShares = new(big.Int).Add(v.TotalShares, amount)
	v.Deposits = append(v.Deposits, record)
	return record.Clone(), nil
}

// FinalizeSchedule fixes the vesting schedule exactly once. The raise fee is
// carved out of gross principal during schedule construction so collecting it
// later only moves funds and never recomputes tranche amounts. The schedule
// sums exactly to net principal.
func (v *CapitalVault) FinalizeSchedule(now int64, feeBps uint32) ([]*Tranche, error) {
	if v.Finalized() {
		return nil, ErrScheduleFinalized
	}
	if v.Cancelled {
		return nil, ErrCancelled
	}
	if v.TotalPrincipal.Sign() == 0 {
		return nil, ErrNoPrincipal
	}
	if feeBps > feeBpsDenominator {
		return nil, fmt.Errorf("launch: fee bps out of range: %d", feeBps)
	}
	v.FeeAmount = bpsShare(v.TotalPrincipal, feeBps)
	net := new(big.Int).Sub(v.TotalPrincipal, v.FeeAmount)
	v.Schedule = buildSchedule(net, now)
	out := make([]*Tranche, len(v.Schedule))
	for i, t := range v.Schedule {
		out[i] = t.Clone()
	}
	return out, nil
}

// CollectRaiseFee marks the fee collected and returns the amount fixed at
// finalize time. Legal exactly once, any time after finalize, independent of
// tranche release order.
func (v *CapitalVault) CollectRaiseFee() (*big.Int, error) {
	if !v.Finalized() {
		return nil, ErrNoSchedule
	}
	if v.FeeCollected {
		return nil, ErrFeeCollected
	}
	v.FeeCollected = true
	return copyBigInt(v.FeeAmount), nil
}

// ReleaseTrancheAt releases the tranche with the supplied index. Any ready
// tranche may be targeted directly; the vault only forbids double release of
// one index and releases ahead of the unlock time.
func (v *CapitalVault) ReleaseTrancheAt(index int, now int64) (*big.Int, error) {
	if !v.Finalized() {
		return nil, ErrNoSchedule
	}
	if v.Cancelled {
		return nil, ErrCancelled
	}
	if index < 0 || index >= len(v.Schedule) {
		return nil, ErrAllTranchesReleased
	}
	tranche := v.Schedule[index]
	if tranche.Released {
		return nil, ErrAlreadyReleased
	}
	if now < tranche.UnlockAt {
		return nil, ErrTrancheNotReady
	}
	tranche.Released = true
	tranche.ReleasedAt = now
	v.ReleasedCount++
	v.ReleasedTotal = new(big.Int).Add(v.ReleasedTotal, tranche.Amount)
	return copyBigInt(tranche.Amount), nil
}

// Cancel marks the vault cancelled. Legal only before the schedule is fixed;
// the engine additionally refuses cancellation while capital is staked with an
// external validator.
func (v *CapitalVault) Cancel() error {
	if v.Cancelled {
		return ErrCancelled
	}
	if v.Finalized() {
		return ErrCannotCancel
	}
	v.Cancelled = true
	return nil
}

// RemainingPrincipal returns the principal not yet released to the issuer,
// collected as fee, or refunded. This is the pool refunds are computed over.
func (v *CapitalVault) RemainingPrincipal() *big.Int {
	remaining := new(big.Int).Sub(v.TotalPrincipal, v.ReleasedTotal)
	remaining = remaining.Sub(remaining, v.RefundedTotal)
	if v.FeeCollected {
		remaining = remaining.Sub(remaining, v.FeeAmount)
	}
	if remaining.Sign() < 0 {
		return big.NewInt(0)
	}
	return remaining
}

// FindDeposit returns the deposit record with the supplied identifier.
func (v *CapitalVault) FindDeposit(id uint64) *DepositRecord {
	for _, d := range v.Deposits {
		if d != nil && d.ID == id {
			return d
		}
	}
	return nil
}

// ClaimRefund pays out the pro-rata portion of the unreleased principal for
// one deposit. Legal only once the vault is cancelled; each deposit can be
// refunded at most once. The refund floors in favour of the vault.
func (v *CapitalVault) ClaimRefund(depositID uint64) (*big.Int, error) {
	if !v.Cancelled {
		return nil, ErrNotCancelled
	}
	deposit := v.FindDeposit(depositID)
	if deposit == nil {
		return nil, ErrDepositNotFound
	}
	if deposit.Refunded {
		return nil, ErrAlreadyRefunded
	}
	unreleased := new(big.Int).Sub(v.TotalPrincipal, v.ReleasedTotal)
	if v.FeeCollected {
		unreleased = unreleased.Sub(unreleased, v.FeeAmount)
	}
	refund := prorataShare(deposit.Shares, unreleased, v.TotalShares)
	available := v.RemainingPrincipal()
	if refund.Cmp(available) > 0 {
		return nil, ErrInsufficientBalance
	}
	deposit.Refunded = true
	v.RefundedTotal = new(big.Int).Add(v.RefundedTotal, refund)
	return refund, nil
}

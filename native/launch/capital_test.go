package launch

import (
	"errors"
	"math/big"
	"testing"
)

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func TestDepositMintsSharesOneToOne(t *testing.T) {
	vault := NewCapitalVault()
	minimum := big.NewInt(10)

	if _, err := vault.Deposit(addr(1), nil, minimum, 100); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("nil amount: %v", err)
	}
	if _, err := vault.Deposit(addr(1), big.NewInt(0), minimum, 100); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := vault.Deposit(addr(1), big.NewInt(9), minimum, 100); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("sub-minimum amount: %v", err)
	}

	first, err := vault.Deposit(addr(1), big.NewInt(1_000), minimum, 100)
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("expected deposit id 1, got %d", first.ID)
	}
	if first.Shares.Cmp(first.Amount) != 0 {
		t.Fatalf("shares %s != amount %s", first.Shares, first.Amount)
	}
	second, err := vault.Deposit(addr(2), big.NewInt(3_000), minimum, 110)
	if err != nil {
		t.Fatalf("second deposit failed: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected deposit id 2, got %d", second.ID)
	}

	sum := big.NewInt(0)
	for _, d := range vault.Deposits {
		sum = sum.Add(sum, d.Shares)
	}
	if sum.Cmp(vault.TotalShares) != 0 {
		t.Fatalf("share conservation violated: %s != %s", sum, vault.TotalShares)
	}
	if vault.TotalPrincipal.Cmp(big.NewInt(4_000)) != 0 {
		t.Fatalf("total principal %s", vault.TotalPrincipal)
	}
}

func TestFinalizeScheduleRunsOnce(t *testing.T) {
	vault := NewCapitalVault()
	if _, err := vault.FinalizeSchedule(100, 250); !errors.Is(err, ErrNoPrincipal) {
		t.Fatalf("empty vault finalize: %v", err)
	}
	if _, err := vault.Deposit(addr(1), big.NewInt(10_000_000_000), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	schedule, err := vault.FinalizeSchedule(100, 250)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(schedule) != 13 {
		t.Fatalf("expected 13 tranches, got %d", len(schedule))
	}
	if _, err := vault.FinalizeSchedule(200, 250); !errors.Is(err, ErrScheduleFinalized) {
		t.Fatalf("second finalize: %v", err)
	}
	if _, err := vault.Deposit(addr(2), big.NewInt(1_000), nil, 150); !errors.Is(err, ErrScheduleFinalized) {
		t.Fatalf("deposit after finalize: %v", err)
	}

	net := new(big.Int).Sub(vault.TotalPrincipal, vault.FeeAmount)
	sum := big.NewInt(0)
	for _, tranche := range vault.Schedule {
		sum = sum.Add(sum, tranche.Amount)
	}
	if sum.Cmp(net) != 0 {
		t.Fatalf("schedule sums to %s, expected net %s", sum, net)
	}
}

func TestCollectRaiseFeeRunsOnce(t *testing.T) {
	vault := NewCapitalVault()
	if _, err := vault.CollectRaiseFee(); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("fee before finalize: %v", err)
	}
	if _, err := vault.Deposit(addr(1), big.NewInt(10_000), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := vault.FinalizeSchedule(100, 250); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	fee, err := vault.CollectRaiseFee()
	if err != nil {
		t.Fatalf("collect fee failed: %v", err)
	}
	if fee.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("expected fee 250, got %s", fee)
	}
	if _, err := vault.CollectRaiseFee(); !errors.Is(err, ErrFeeCollected) {
		t.Fatalf("second fee collection: %v", err)
	}
}

func TestReleaseTrancheGating(t *testing.T) {
	vault := NewCapitalVault()
	if _, err := vault.Deposit(addr(1), big.NewInt(13_000), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	start := int64(100)
	if _, err := vault.FinalizeSchedule(start, 0); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if _, err := vault.ReleaseTrancheAt(1, start); !errors.Is(err, ErrTrancheNotReady) {
		t.Fatalf("early release: %v", err)
	}
	if _, err := vault.ReleaseTrancheAt(13, start); !errors.Is(err, ErrAllTranchesReleased) {
		t.Fatalf("out-of-range index: %v", err)
	}
	if _, err := vault.ReleaseTrancheAt(-1, start); !errors.Is(err, ErrAllTranchesReleased) {
		t.Fatalf("negative index: %v", err)
	}

	// The initial tranche is ready immediately.
	amount, err := vault.ReleaseTrancheAt(0, start)
	if err != nil {
		t.Fatalf("initial release failed: %v", err)
	}
	if amount.Cmp(big.NewInt(2_600)) != 0 {
		t.Fatalf("initial tranche amount %s", amount)
	}
	if _, err := vault.ReleaseTrancheAt(0, start); !errors.Is(err, ErrAlreadyReleased) {
		t.Fatalf("double release: %v", err)
	}

	// Out-of-order release of a later ready tranche is permitted.
	later := start + 3*trancheIntervalSeconds
	if _, err := vault.ReleaseTrancheAt(3, later); err != nil {
		t.Fatalf("out-of-order release failed: %v", err)
	}
	if _, err := vault.ReleaseTrancheAt(1, later); err != nil {
		t.Fatalf("backfill release failed: %v", err)
	}
	if vault.ReleasedCount != 3 {
		t.Fatalf("released count %d", vault.ReleasedCount)
	}
	if int(vault.ReleasedCount) > len(vault.Schedule) {
		t.Fatalf("released count exceeds schedule length")
	}
}

func TestCancelOnlyBeforeFinalize(t *testing.T) {
	vault := NewCapitalVault()
	if _, err := vault.Deposit(addr(1), big.NewInt(1_000), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := vault.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := vault.Cancel(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("double cancel: %v", err)
	}

	finalized := NewCapitalVault()
	if _, err := finalized.Deposit(addr(1), big.NewInt(1_000), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := finalized.FinalizeSchedule(100, 0); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if err := finalized.Cancel(); !errors.Is(err, ErrCannotCancel) {
		t.Fatalf("cancel after finalize: %v", err)
	}
}

func TestRefundConservation(t *testing.T) {
	vault := NewCapitalVault()
	amounts := []int64{1_000, 3_000, 333}
	for i, amount := range amounts {
		if _, err := vault.Deposit(addr(byte(i+1)), big.NewInt(amount), nil, 50); err != nil {
			t.Fatalf("deposit %d failed: %v", i, err)
		}
	}
	if _, err := vault.ClaimRefund(1); !errors.Is(err, ErrNotCancelled) {
		t.Fatalf("refund before cancel: %v", err)
	}
	if err := vault.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := vault.ClaimRefund(99); !errors.Is(err, ErrDepositNotFound) {
		t.Fatalf("unknown deposit: %v", err)
	}

	total := big.NewInt(0)
	for id := uint64(1); id <= 3; id++ {
		refund, err := vault.ClaimRefund(id)
		if err != nil {
			t.Fatalf("refund %d failed: %v", id, err)
		}
		total = total.Add(total, refund)
	}
	// Refunds sum to unreleased principal within one unit of rounding per
	// deposit.
	diff := new(big.Int).Sub(vault.TotalPrincipal, total)
	if diff.Sign() < 0 || diff.Cmp(big.NewInt(3)) > 0 {
		t.Fatalf("refund conservation violated: total %s of %s", total, vault.TotalPrincipal)
	}
	if _, err := vault.ClaimRefund(1); !errors.Is(err, ErrAlreadyRefunded) {
		t.Fatalf("double refund: %v", err)
	}
}

func TestRefundProRataAfterNothingReleased(t *testing.T) {
	vault := NewCapitalVault()
	if _, err := vault.Deposit(addr(1), big.NewInt(750), nil, 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := vault.Deposit(addr(2), big.NewInt(250), nil, 60); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := vault.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	refund, err := vault.ClaimRefund(1)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refund.Cmp(big.NewInt(750)) != 0 {
		t.Fatalf("expected full pro-rata refund 750, got %s", refund)
	}
}

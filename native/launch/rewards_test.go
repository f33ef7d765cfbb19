package launch

import (
	"errors"
	"math/big"
	"testing"
)

func mintPass(vault *RewardVault, number uint64, shares int64) *SupporterPass {
	pass := &SupporterPass{
		PassNumber:   number,
		Shares:       big.NewInt(shares),
		Checkpoint:   new(big.Int).Set(vault.GlobalIndex),
		TotalClaimed: big.NewInt(0),
	}
	if err := vault.RegisterShares(pass.Shares); err != nil {
		panic(err)
	}
	return pass
}

func TestDepositRewardsAdvancesIndex(t *testing.T) {
	vault := NewRewardVault()
	if err := vault.DepositRewards(big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero reward: %v", err)
	}

	// No shares registered: the deposit is tracked but the index stays put.
	if err := vault.DepositRewards(big.NewInt(500)); err != nil {
		t.Fatalf("zero-share deposit failed: %v", err)
	}
	if vault.GlobalIndex.Sign() != 0 {
		t.Fatalf("index moved with no shares: %s", vault.GlobalIndex)
	}
	if vault.TotalDeposited.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("total deposited %s", vault.TotalDeposited)
	}

	pass := mintPass(vault, 1, 100)
	if err := vault.DepositRewards(big.NewInt(1_000)); err != nil {
		t.Fatalf("reward deposit failed: %v", err)
	}
	expected := new(big.Int).Mul(big.NewInt(1_000), indexPrecision)
	expected = expected.Div(expected, big.NewInt(100))
	if vault.GlobalIndex.Cmp(expected) != 0 {
		t.Fatalf("index %s, expected %s", vault.GlobalIndex, expected)
	}
	if got := vault.CalculateClaimable(pass.Shares, pass.Checkpoint); got.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("claimable %s, expected 1000", got)
	}
}

func TestLateJoinerAccruesNothingRetroactively(t *testing.T) {
	vault := NewRewardVault()
	early := mintPass(vault, 1, 400)
	if err := vault.DepositRewards(big.NewInt(10_000)); err != nil {
		t.Fatalf("reward deposit failed: %v", err)
	}
	late := mintPass(vault, 2, 400)

	if got := vault.CalculateClaimable(late.Shares, late.Checkpoint); got.Sign() != 0 {
		t.Fatalf("late joiner claimable %s immediately after mint", got)
	}
	if got := vault.CalculateClaimable(early.Shares, early.Checkpoint); got.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("early pass claimable %s, expected 10000", got)
	}

	// Revenue after the second mint splits across both.
	if err := vault.DepositRewards(big.NewInt(8_000)); err != nil {
		t.Fatalf("reward deposit failed: %v", err)
	}
	if got := vault.CalculateClaimable(late.Shares, late.Checkpoint); got.Cmp(big.NewInt(4_000)) != 0 {
		t.Fatalf("late joiner claimable %s, expected 4000", got)
	}
}

func TestClaimProportionality(t *testing.T) {
	vault := NewRewardVault()
	large := mintPass(vault, 1, 3_000)
	small := mintPass(vault, 2, 1_000)
	if err := vault.DepositRewards(big.NewInt(100_000)); err != nil {
		t.Fatalf("reward deposit failed: %v", err)
	}

	largeAmount, err := vault.Claim(large)
	if err != nil {
		t.Fatalf("large claim failed: %v", err)
	}
	smallAmount, err := vault.Claim(small)
	if err != nil {
		t.Fatalf("small claim failed: %v", err)
	}
	ratio := new(big.Int).Sub(largeAmount, new(big.Int).Mul(smallAmount, big.NewInt(3)))
	if ratio.CmpAbs(big.NewInt(3)) > 0 {
		t.Fatalf("proportionality violated: %s vs %s", largeAmount, smallAmount)
	}
}

func TestClaimTwiceFails(t *testing.T) {
	vault := NewRewardVault()
	pass := mintPass(vault, 1, 100)
	if err := vault.DepositRewards(big.NewInt(777)); err != nil {
		t.Fatalf("reward deposit failed: %v", err)
	}
	first, err := vault.Claim(pass)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if first.Sign() == 0 {
		t.Fatalf("first claim paid zero")
	}
	if pass.TotalClaimed.Cmp(first) != 0 {
		t.Fatalf("total claimed %s, expected %s", pass.TotalClaimed, first)
	}
	if _, err := vault.Claim(pass); !errors.Is(err, ErrNothingToClaim) {
		t.Fatalf("second claim: %v", err)
	}
	if _, err := vault.Claim(nil); !errors.Is(err, ErrNilPass) {
		t.Fatalf("nil pass claim: %v", err)
	}
}

func TestClaimManyMatchesIndividualClaims(t *testing.T) {
	build := func() (*RewardVault, []*SupporterPass) {
		vault := NewRewardVault()
		a := mintPass(vault, 1, 250)
		if err := vault.DepositRewards(big.NewInt(5_000)); err != nil {
			panic(err)
		}
		b := mintPass(vault, 2, 750)
		if err := vault.DepositRewards(big.NewInt(5_000)); err != nil {
			panic(err)
		}
		drained := mintPass(vault, 3, 100)
		drained.Checkpoint = new(big.Int).Set(vault.GlobalIndex)
		return vault, []*SupporterPass{a, b, drained}
	}

	individual, passes := build()
	expectedA, err := individual.Claim(passes[0])
	if err != nil {
		t.Fatalf("claim a failed: %v", err)
	}
	expectedB, err := individual.Claim(passes[1])
	if err != nil {
		t.Fatalf("claim b failed: %v", err)
	}
	expected := new(big.Int).Add(expectedA, expectedB)

	batched, batchPasses := build()
	total, err := batched.ClaimMany(batchPasses)
	if err != nil {
		t.Fatalf("batch claim failed: %v", err)
	}
	if total.Cmp(expected) != 0 {
		t.Fatalf("batch total %s, individual total %s", total, expected)
	}

	// The drained pass was skipped, not failed; a second run yields zero.
	again, err := batched.ClaimMany(batchPasses)
	if err != nil {
		t.Fatalf("repeat batch claim failed: %v", err)
	}
	if again.Sign() != 0 {
		t.Fatalf("repeat batch paid %s", again)
	}

	empty, err := batched.ClaimMany(nil)
	if err != nil {
		t.Fatalf("empty batch failed: %v", err)
	}
	if empty.Sign() != 0 {
		t.Fatalf("empty batch paid %s", empty)
	}
}

func TestCheckpointNeverExceedsIndex(t *testing.T) {
	vault := NewRewardVault()
	pass := mintPass(vault, 1, 10)
	for i := 0; i < 5; i++ {
		if err := vault.DepositRewards(big.NewInt(97)); err != nil {
			t.Fatalf("reward deposit failed: %v", err)
		}
		if _, err := vault.Claim(pass); err != nil {
			t.Fatalf("claim %d failed: %v", i, err)
		}
		if pass.Checkpoint.Cmp(vault.GlobalIndex) > 0 {
			t.Fatalf("checkpoint %s exceeds index %s", pass.Checkpoint, vault.GlobalIndex)
		}
	}
	if got := vault.CalculateClaimable(pass.Shares, new(big.Int).Add(vault.GlobalIndex, big.NewInt(1))); got.Sign() != 0 {
		t.Fatalf("stale checkpoint must clamp to zero, got %s", got)
	}
}

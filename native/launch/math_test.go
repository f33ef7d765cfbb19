package launch

import (
	"math/big"
	"testing"
)

func TestBuildScheduleExactSum(t *testing.T) {
	cases := []int64{1, 13, 100, 9_750_000_000, 10_000_000_000, 999_999_999_999}
	for _, net := range cases {
		schedule := buildSchedule(big.NewInt(net), 1_000)
		if len(schedule) != monthlyTrancheCount+1 {
			t.Fatalf("net %d: expected %d tranches, got %d", net, monthlyTrancheCount+1, len(schedule))
		}
		sum := big.NewInt(0)
		for _, tranche := range schedule {
			if tranche.Amount.Sign() < 0 {
				t.Fatalf("net %d: negative tranche amount %s", net, tranche.Amount)
			}
			sum = sum.Add(sum, tranche.Amount)
		}
		if sum.Cmp(big.NewInt(net)) != 0 {
			t.Fatalf("net %d: schedule sums to %s", net, sum)
		}
	}
}

func TestBuildScheduleShape(t *testing.T) {
	net := big.NewInt(10_000_000_000)
	start := int64(5_000)
	schedule := buildSchedule(net, start)

	initial := bpsShare(net, initialTrancheBps)
	if schedule[0].Amount.Cmp(initial) != 0 {
		t.Fatalf("initial tranche: expected %s, got %s", initial, schedule[0].Amount)
	}
	if schedule[0].UnlockAt != start {
		t.Fatalf("initial tranche unlocks at %d, expected %d", schedule[0].UnlockAt, start)
	}
	for i := 1; i < len(schedule); i++ {
		expected := start + int64(i)*trancheIntervalSeconds
		if schedule[i].UnlockAt != expected {
			t.Fatalf("tranche %d unlocks at %d, expected %d", i, schedule[i].UnlockAt, expected)
		}
	}
	// Equal monthly amounts except the final one, which absorbs the
	// integer-division remainder.
	for i := 1; i < len(schedule)-1; i++ {
		if schedule[i].Amount.Cmp(schedule[1].Amount) != 0 {
			t.Fatalf("tranche %d amount %s differs from %s", i, schedule[i].Amount, schedule[1].Amount)
		}
	}
	last := schedule[len(schedule)-1].Amount
	if last.Cmp(schedule[1].Amount) < 0 {
		t.Fatalf("final tranche %s smaller than monthly %s", last, schedule[1].Amount)
	}
}

func TestBpsShareFloors(t *testing.T) {
	if got := bpsShare(big.NewInt(10_000), 250); got.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("expected 250, got %s", got)
	}
	if got := bpsShare(big.NewInt(39), 250); got.Sign() != 0 {
		t.Fatalf("expected floor to zero, got %s", got)
	}
	if got := bpsShare(nil, 250); got.Sign() != 0 {
		t.Fatalf("nil amount should yield zero, got %s", got)
	}
	if got := bpsShare(big.NewInt(10_000), 0); got.Sign() != 0 {
		t.Fatalf("zero bps should yield zero, got %s", got)
	}
}

func TestProrataShare(t *testing.T) {
	got := prorataShare(big.NewInt(300), big.NewInt(1_000), big.NewInt(400))
	if got.Cmp(big.NewInt(750)) != 0 {
		t.Fatalf("expected 750, got %s", got)
	}
	if got := prorataShare(big.NewInt(1), big.NewInt(1), big.NewInt(0)); got.Sign() != 0 {
		t.Fatalf("zero total shares must yield zero, got %s", got)
	}
}

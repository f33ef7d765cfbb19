package treasury

import (
	"errors"
	"math/big"
	"testing"

	"launchpool/storage"
)

func TestDepositAccumulates(t *testing.T) {
	vault := NewVault()
	if err := vault.Deposit(nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("nil deposit: %v", err)
	}
	if err := vault.Deposit(big.NewInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative deposit: %v", err)
	}
	if err := vault.Deposit(big.NewInt(300)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := vault.Deposit(big.NewInt(200)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if vault.Balance().Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balance %s", vault.Balance())
	}
	if vault.TotalIn().Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("total in %s", vault.TotalIn())
	}
}

func TestWithdrawTracksRecipients(t *testing.T) {
	vault := NewVault()
	recipient := [20]byte{0x01}
	if err := vault.Withdraw(recipient, big.NewInt(1)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("withdraw from empty vault: %v", err)
	}
	if err := vault.Deposit(big.NewInt(1_000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := vault.Withdraw(recipient, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero withdraw: %v", err)
	}
	if err := vault.Withdraw(recipient, big.NewInt(400)); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if vault.Balance().Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("balance %s", vault.Balance())
	}
	if vault.TotalOut().Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("total out %s", vault.TotalOut())
	}
	audit := vault.Withdrawals()
	if len(audit) != 1 || audit[0].Recipient != recipient || audit[0].Amount.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("audit trail mismatch: %+v", audit)
	}

	// The returned slice is a snapshot; mutating it must not corrupt the vault.
	audit[0].Amount.SetInt64(1)
	if fresh := vault.Withdrawals(); fresh[0].Amount.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("audit trail aliased: %s", fresh[0].Amount)
	}
}

func TestVaultSurvivesRestart(t *testing.T) {
	kv := storage.NewKVStore(storage.NewMemDB())

	vault := NewVault()
	if err := vault.SetStorage(kv); err != nil {
		t.Fatalf("bind storage: %v", err)
	}
	if err := vault.Deposit(big.NewInt(700)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	recipient := [20]byte{0x0A}
	if err := vault.Withdraw(recipient, big.NewInt(200)); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	reopened := NewVault()
	if err := reopened.SetStorage(kv); err != nil {
		t.Fatalf("rebind storage: %v", err)
	}
	if reopened.Balance().Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balance %s after restart", reopened.Balance())
	}
	if reopened.TotalIn().Cmp(big.NewInt(700)) != 0 || reopened.TotalOut().Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("counters %s/%s after restart", reopened.TotalIn(), reopened.TotalOut())
	}
	audit := reopened.Withdrawals()
	if len(audit) != 1 || audit[0].Recipient != recipient || audit[0].Amount.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("audit trail lost: %+v", audit)
	}
}

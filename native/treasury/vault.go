package treasury

import (
	"errors"
	"math/big"
)

var (
	// ErrInvalidAmount rejects zero or negative amounts.
	ErrInvalidAmount = errors.New("treasury: amount must be positive")
	// ErrInsufficientBalance marks withdrawals exceeding the vault balance.
	ErrInsufficientBalance = errors.New("treasury: insufficient balance")
)

// Withdrawal records a single payout from the vault for auditability.
type Withdrawal struct {
	Recipient [20]byte
	Amount    *big.Int
}

// Vault is the protocol fee vault: a simple deposit/withdraw ledger with
// cumulative in/out counters. The launch engine deposits the raise fee and
// the treasury share of routed revenue here.
type Vault struct {
	balance     *big.Int
	totalIn     *big.Int
	totalOut    *big.Int
	withdrawals []Withdrawal
	store       Storage
}

// NewVault returns an empty vault.
func NewVault() *Vault {
	return &Vault{
		balance:  big.NewInt(0),
		totalIn:  big.NewInt(0),
		totalOut: big.NewInt(0),
	}
}

// Deposit credits the vault.
func (v *Vault) Deposit(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	v.balance = new(big.Int).Add(v.balance, amount)
	v.totalIn = new(big.Int).Add(v.totalIn, amount)
	return v.persist()
}

// Withdraw debits the vault in favour of the supplied recipient. The vault
// only books the movement; paying the recipient is the caller's concern.
func (v *Vault) Withdraw(recipient [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if v.balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	v.balance = new(big.Int).Sub(v.balance, amount)
	v.totalOut = new(big.Int).Add(v.totalOut, amount)
	v.withdrawals = append(v.withdrawals, Withdrawal{Recipient: recipient, Amount: new(big.Int).Set(amount)})
	return v.persist()
}

// Withdrawals returns the recorded payout history.
func (v *Vault) Withdrawals() []Withdrawal {
	out := make([]Withdrawal, len(v.withdrawals))
	for i, w := range v.withdrawals {
		out[i] = Withdrawal{Recipient: w.Recipient, Amount: new(big.Int).Set(w.Amount)}
	}
	return out
}

// Balance returns the current vault balance.
func (v *Vault) Balance() *big.Int { return new(big.Int).Set(v.balance) }

// TotalIn returns the cumulative deposits ever made.
func (v *Vault) TotalIn() *big.Int { return new(big.Int).Set(v.totalIn) }

// TotalOut returns the cumulative withdrawals ever made.
func (v *Vault) TotalOut() *big.Int { return new(big.Int).Set(v.totalOut) }

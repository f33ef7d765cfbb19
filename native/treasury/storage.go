package treasury

import "math/big"

// Storage abstracts the subset of state manager functionality the vault needs
// to survive restarts.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var vaultKey = []byte("treasury/vault")

type storedWithdrawal struct {
	Recipient [20]byte
	Amount    *big.Int
}

type storedVault struct {
	Balance     *big.Int
	TotalIn     *big.Int
	TotalOut    *big.Int
	Withdrawals []storedWithdrawal
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// SetStorage binds the vault to a persistence backend and restores the
// previously stored snapshot, if any. Later deposits and withdrawals are
// persisted through the same backend.
func (v *Vault) SetStorage(st Storage) error {
	v.store = st
	if st == nil {
		return nil
	}
	var stored storedVault
	ok, err := st.KVGet(vaultKey, &stored)
	if err != nil || !ok {
		return err
	}
	v.balance = copyBigInt(stored.Balance)
	v.totalIn = copyBigInt(stored.TotalIn)
	v.totalOut = copyBigInt(stored.TotalOut)
	v.withdrawals = v.withdrawals[:0]
	for _, w := range stored.Withdrawals {
		v.withdrawals = append(v.withdrawals, Withdrawal{Recipient: w.Recipient, Amount: copyBigInt(w.Amount)})
	}
	return nil
}

func (v *Vault) persist() error {
	if v.store == nil {
		return nil
	}
	stored := storedVault{
		Balance:  copyBigInt(v.balance),
		TotalIn:  copyBigInt(v.totalIn),
		TotalOut: copyBigInt(v.totalOut),
	}
	for _, w := range v.withdrawals {
		stored.Withdrawals = append(stored.Withdrawals, storedWithdrawal{Recipient: w.Recipient, Amount: copyBigInt(w.Amount)})
	}
	return v.store.KVPut(vaultKey, stored)
}

package staking

import "math/big"

// Storage abstracts the subset of state manager functionality the adapter
// needs to keep its staked book across restarts. Operational settings
// (enabled flag, validator, split ratio) are reapplied from configuration at
// boot and are not persisted.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var bookKey = []byte("staking/book")

type storedPosition struct {
	ListingID [32]byte
	Amount    *big.Int
}

type storedBook struct {
	TotalStaked *big.Int
	Positions   []storedPosition
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// SetStorage binds the adapter to a persistence backend and restores the
// previously stored book, if any.
func (a *Adapter) SetStorage(st Storage) error {
	a.store = st
	if st == nil {
		return nil
	}
	var stored storedBook
	ok, err := st.KVGet(bookKey, &stored)
	if err != nil || !ok {
		return err
	}
	a.totalStaked = copyBigInt(stored.TotalStaked)
	a.staked = make(map[[32]byte]*big.Int, len(stored.Positions))
	for _, p := range stored.Positions {
		a.staked[p.ListingID] = copyBigInt(p.Amount)
	}
	return nil
}

func (a *Adapter) persist() error {
	if a.store == nil {
		return nil
	}
	stored := storedBook{TotalStaked: copyBigInt(a.totalStaked)}
	for id, amount := range a.staked {
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		stored.Positions = append(stored.Positions, storedPosition{ListingID: id, Amount: copyBigInt(amount)})
	}
	return a.store.KVPut(bookKey, stored)
}

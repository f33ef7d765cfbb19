package storage

import "fmt"

// PauseSet persists the protocol-wide pause toggles consulted by the native
// engines. It satisfies the native/common.PauseView contract.
type PauseSet struct {
	kv *KVStore
}

// NewPauseSet wraps the supplied state manager.
func NewPauseSet(kv *KVStore) *PauseSet {
	return &PauseSet{kv: kv}
}

func pauseKey(module string) []byte {
	return []byte(fmt.Sprintf("system/pauses/%s", module))
}

// SetPaused toggles the pause flag for a module.
func (p *PauseSet) SetPaused(module string, paused bool) error {
	if module == "" {
		return fmt.Errorf("pauses: module name required")
	}
	return p.kv.KVPut(pauseKey(module), paused)
}

// IsPaused reports whether the module pause toggle is enabled. Read errors
// report unpaused, matching the best-effort semantics of the guard.
func (p *PauseSet) IsPaused(module string) bool {
	var paused bool
	ok, err := p.kv.KVGet(pauseKey(module), &paused)
	if err != nil || !ok {
		return false
	}
	return paused
}

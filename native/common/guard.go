package common

import "errors"

// ErrModulePaused is returned when a protocol-wide pause toggle blocks a
// gated operation.
var ErrModulePaused = errors.New("module paused")

// PauseView exposes the protocol-level pause toggles consulted by the native
// engines before executing fund-moving operations.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the operation when the supplied module is paused. A nil view
// or empty module name disables the check.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

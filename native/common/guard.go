package common

import (
	"errors"
	"strings"
)

// ErrModulePaused is returned by Guard when the module is switched off.
var ErrModulePaused = errors.New("module paused")

// ModuleBounty names the bounty module in pause switches.
const ModuleBounty = "bounty"

// PauseView reports whether a module is paused.
type PauseView interface {
	IsPaused(module string) bool
}

// PauseSet is a static PauseView built from configuration.
type PauseSet map[string]bool

// IsPaused implements PauseView.
func (p PauseSet) IsPaused(module string) bool {
	if p == nil {
		return false
	}
	return p[strings.ToLower(strings.TrimSpace(module))]
}

// Guard returns ErrModulePaused when p reports module as paused. A nil view
// or empty module name never blocks.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

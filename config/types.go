package config

import nativecommon "bountychain/native/common"

// Pauses toggles individual modules off without a redeploy.
type Pauses struct {
	Bounty bool `toml:"Bounty"`
}

// PauseSet converts the configured switches into the runtime pause view.
func (p Pauses) PauseSet() nativecommon.PauseSet {
	return nativecommon.PauseSet{nativecommon.ModuleBounty: p.Bounty}
}

package bounty

import (
	"errors"

	"bountychain/native/common"
)

// Failure kinds surfaced by the bounty engine. Call sites wrap these with
// context; callers classify with errors.Is.
var (
	ErrInvalidArgument          = errors.New("bounty: invalid argument")
	ErrNotOpenBounty            = errors.New("bounty: only open bounties can be joined")
	ErrParticipantAlreadyExists = errors.New("bounty: participant already exists")
	ErrParticipantDoesNotExist  = errors.New("bounty: participant does not exist")
	ErrArithmeticOverflow       = errors.New("bounty: arithmetic overflow")
	ErrArithmeticUnderflow      = errors.New("bounty: arithmetic underflow")
	ErrInsufficientShares       = errors.New("bounty: insufficient shares")
	ErrUnauthorized             = errors.New("bounty: unauthorized signer")
	ErrTransferFailed           = errors.New("bounty: custody transfer failed")
	ErrInvalidState             = errors.New("bounty: invalid state")

	ErrBountyNotFound = errors.New("bounty: bounty not found")
	ErrBountyExists   = errors.New("bounty: bounty already exists")
	ErrModulePaused   = common.ErrModulePaused

	errNilState = errors.New("bounty engine: state not configured")
)

// Kind returns a short stable label for the failure class of err, suitable
// for metrics and logs. Unknown errors map to "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotOpenBounty):
		return "not_open_bounty"
	case errors.Is(err, ErrParticipantAlreadyExists):
		return "participant_exists"
	case errors.Is(err, ErrParticipantDoesNotExist):
		return "participant_missing"
	case errors.Is(err, ErrArithmeticOverflow):
		return "overflow"
	case errors.Is(err, ErrArithmeticUnderflow):
		return "underflow"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrBountyNotFound):
		return "not_found"
	case errors.Is(err, ErrBountyExists):
		return "exists"
	case errors.Is(err, ErrModulePaused):
		return "paused"
	default:
		return "internal"
	}
}

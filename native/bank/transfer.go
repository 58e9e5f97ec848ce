package bank

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"
)

var (
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	ErrUnauthorized        = errors.New("bank: transfer not authorised by source owner")
	ErrBalanceOverflow     = errors.New("bank: balance overflow")
	errNilState            = errors.New("bank: state not configured")
)

// BalanceState is the storage surface the bank needs: one balance per
// (owner, mint) pair. Missing balances read as zero.
type BalanceState interface {
	TokenBalance(owner, mint common.PublicKey) (*uint256.Int, error)
	SetTokenBalance(owner, mint common.PublicKey, amount *uint256.Int) error
}

// Transfer moves amount of mint from one owner's balance to another. The
// authorizer must be the source owner: a human signer for user balances, or
// the program-derived identity for custody balances. Either the whole amount
// moves or nothing changes.
func Transfer(st BalanceState, from, to, mint, authorizer common.PublicKey, amount *uint256.Int) error {
	if st == nil {
		return errNilState
	}
	if authorizer != from {
		return fmt.Errorf("%w: source %s, authorizer %s", ErrUnauthorized, from.ToBase58(), authorizer.ToBase58())
	}
	amt := new(uint256.Int)
	if amount != nil {
		amt.Set(amount)
	}
	if amt.IsZero() {
		return nil
	}
	fromBal, err := st.TokenBalance(from, mint)
	if err != nil {
		return err
	}
	remaining, underflow := new(uint256.Int).SubOverflow(fromBal, amt)
	if underflow {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from.ToBase58(), fromBal.Dec(), amt.Dec())
	}
	if from == to {
		return nil
	}
	toBal, err := st.TokenBalance(to, mint)
	if err != nil {
		return err
	}
	credited, overflow := new(uint256.Int).AddOverflow(toBal, amt)
	if overflow {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to.ToBase58())
	}
	if err := st.SetTokenBalance(from, mint, remaining); err != nil {
		return err
	}
	return st.SetTokenBalance(to, mint, credited)
}

// Mint credits amount of mint to owner out of thin air. It backs genesis
// allocations and operator faucets.
func Mint(st BalanceState, to, mint common.PublicKey, amount *uint256.Int) error {
	if st == nil {
		return errNilState
	}
	if amount == nil || amount.IsZero() {
		return nil
	}
	bal, err := st.TokenBalance(to, mint)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to.ToBase58())
	}
	return st.SetTokenBalance(to, mint, next)
}

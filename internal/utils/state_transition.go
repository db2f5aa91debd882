package utils

import (
	"slices"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// QualifiedStatesToClaiming returns the qualified existing states to transition to "claiming"
func QualifiedStatesToClaiming() []types.WithdrawalState {
	return []types.WithdrawalState{types.WithdrawalPending}
}

// QualifiedStatesToClaimed returns the qualified existing states to transition to "claimed"
func QualifiedStatesToClaimed() []types.WithdrawalState {
	return []types.WithdrawalState{types.WithdrawalClaiming}
}

// QualifiedStatesToPending returns the states a failed claim can roll back from.
func QualifiedStatesToPending() []types.WithdrawalState {
	return []types.WithdrawalState{types.WithdrawalClaiming}
}

// List of states to be ignored for claiming as it means the claim already landed
var OutdatedStatesForClaim = []types.WithdrawalState{types.WithdrawalClaimed}

var txTransitions = map[types.TxState][]types.TxState{
	types.Building:  {types.Signed, types.Abandoned},
	types.Signed:    {types.Submitted, types.Building, types.Abandoned},
	types.Submitted: {types.Confirmed, types.Reverted, types.Abandoned},
}

// QualifiedTxStatesFrom returns the states a job in state from may move to.
// Only Signed may go back to Building, for the single nonce repair.
func QualifiedTxStatesFrom(from types.TxState) []types.TxState {
	return txTransitions[from]
}

// CanTransitionTx reports whether a job may move from one state to another.
func CanTransitionTx(from, to types.TxState) bool {
	return slices.Contains(QualifiedTxStatesFrom(from), to)
}

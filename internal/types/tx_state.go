package types

import "fmt"

// TxState is the lifecycle state of a transaction job.
type TxState string

const (
	Building  TxState = "building"
	Signed    TxState = "signed"
	Submitted TxState = "submitted"
	Confirmed TxState = "confirmed"
	Reverted  TxState = "reverted"
	Abandoned TxState = "abandoned"
)

func (s TxState) ToString() string {
	return string(s)
}

// IsTerminal reports whether no further transition can happen from s.
func (s TxState) IsTerminal() bool {
	switch s {
	case Confirmed, Reverted, Abandoned:
		return true
	default:
		return false
	}
}

func FromStringToTxState(s string) (TxState, error) {
	switch s {
	case "building":
		return Building, nil
	case "signed":
		return Signed, nil
	case "submitted":
		return Submitted, nil
	case "confirmed":
		return Confirmed, nil
	case "reverted":
		return Reverted, nil
	case "abandoned":
		return Abandoned, nil
	default:
		return "", fmt.Errorf("invalid tx state: %s", s)
	}
}

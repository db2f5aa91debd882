package types

import "math/big"

// Network is the single chain a process serves. It never changes after startup.
type Network struct {
	Name           string
	ChainID        *big.Int
	RpcURL         string
	NativeSymbol   string
	NativeDecimals uint8
}

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a positive integer in the smallest unit")
	ErrInvalidAddress = errors.New("invalid address")
)

// IsValidEvmAddress checks if the provided string is a 20 byte hex address,
// with or without the 0x prefix and in any letter case.
func IsValidEvmAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ParseAddress validates and decodes a hex address.
func ParseAddress(address string) (common.Address, error) {
	if !IsValidEvmAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}

// ParseAmount parses a positive base-10 integer amount that fits a uint256.
// Fractions, exponents, signs and hex are rejected, amounts are never
// floating point.
func ParseAmount(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
		return nil, ErrInvalidAmount
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() <= 0 || !FitsUint256(amount) {
		return nil, ErrInvalidAmount
	}
	return amount, nil
}

// ParseWithdrawalID parses a protocol-assigned withdrawal id, zero included.
func ParseWithdrawalID(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	id, ok := new(big.Int).SetString(raw, 10)
	if raw == "" || !ok || !FitsUint256(id) || strings.HasPrefix(raw, "+") {
		return nil, fmt.Errorf("invalid withdrawal id: %q", raw)
	}
	return id, nil
}

package registry

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

var uint256Type, _ = abi.NewType("uint256", "", nil)

// callValues are the intent-derived values a compiled call can bind.
type callValues struct {
	owner        common.Address
	amount       *big.Int
	withdrawalID *big.Int
	oneShare     *big.Int
}

// boundCall is a ContractCall compiled against its target contract.
type boundCall struct {
	to        common.Address
	signature string
	selector  []byte
	inputs    abi.Arguments
	args      []types.CallArg
	payable   bool
}

// compileCall parses the method signature of spec and checks that every
// declared argument kind agrees with the solidity type at its position.
func compileCall(spec types.ContractCall, defaultTarget common.Address) (*boundCall, error) {
	selector, err := abi.ParseSelector(spec.Method)
	if err != nil {
		return nil, fmt.Errorf("invalid method signature %q: %w", spec.Method, err)
	}
	if len(selector.Inputs) != len(spec.Args) {
		return nil, fmt.Errorf(
			"method %s declares %d inputs but %d args are bound",
			spec.Method, len(selector.Inputs), len(spec.Args),
		)
	}

	inputs := make(abi.Arguments, len(selector.Inputs))
	typeNames := make([]string, len(selector.Inputs))
	for i, in := range selector.Inputs {
		if err := checkArgType(spec.Args[i], in.Type); err != nil {
			return nil, fmt.Errorf("method %s input %d: %w", spec.Method, i, err)
		}
		ty, err := abi.NewType(in.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("method %s input %d: %w", spec.Method, i, err)
		}
		inputs[i] = abi.Argument{Type: ty}
		typeNames[i] = in.Type
	}

	target := defaultTarget
	if spec.Contract != "" {
		target = common.HexToAddress(spec.Contract)
	}

	signature := fmt.Sprintf("%s(%s)", selector.Name, strings.Join(typeNames, ","))
	return &boundCall{
		to:        target,
		signature: signature,
		selector:  crypto.Keccak256([]byte(signature))[:4],
		inputs:    inputs,
		args:      spec.Args,
		payable:   spec.Payable,
	}, nil
}

func checkArgType(arg types.CallArg, solidityType string) error {
	switch arg {
	case types.ArgOwner:
		if solidityType != "address" {
			return fmt.Errorf("owner must bind to address, got %s", solidityType)
		}
	case types.ArgAmount, types.ArgWithdrawalID, types.ArgOneShare:
		if solidityType != "uint256" {
			return fmt.Errorf("%s must bind to uint256, got %s", arg, solidityType)
		}
	default:
		return fmt.Errorf("unknown call arg %q", arg)
	}
	return nil
}

// encode returns the calldata and the native value to attach.
func (c *boundCall) encode(values callValues) (*TxCall, error) {
	packed := make([]interface{}, len(c.args))
	for i, arg := range c.args {
		switch arg {
		case types.ArgOwner:
			packed[i] = values.owner
		case types.ArgAmount:
			if values.amount == nil {
				return nil, fmt.Errorf("%s requires an amount", c.signature)
			}
			packed[i] = values.amount
		case types.ArgWithdrawalID:
			if values.withdrawalID == nil {
				return nil, fmt.Errorf("%s requires a withdrawal id", c.signature)
			}
			packed[i] = values.withdrawalID
		case types.ArgOneShare:
			packed[i] = values.oneShare
		}
	}

	encoded, err := c.inputs.Pack(packed...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", c.signature, err)
	}

	value := new(big.Int)
	if c.payable && values.amount != nil {
		value.Set(values.amount)
	}

	data := make([]byte, 0, len(c.selector)+len(encoded))
	data = append(data, c.selector...)
	data = append(data, encoded...)
	return &TxCall{To: c.to, Data: data, Value: value, Method: c.signature}, nil
}

// decodeUint256 reads a single uint256 return value.
func decodeUint256(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty return data")
	}
	unpacked, err := abi.Arguments{{Type: uint256Type}}.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack uint256: %w", err)
	}
	value, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected return type %T", unpacked[0])
	}
	return value, nil
}

// eventTopic returns topic0 of a canonical event signature.
func eventTopic(signature string) (common.Hash, error) {
	selector, err := abi.ParseSelector(signature)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid event signature %q: %w", signature, err)
	}
	typeNames := make([]string, len(selector.Inputs))
	for i, in := range selector.Inputs {
		typeNames[i] = in.Type
	}
	canonical := fmt.Sprintf("%s(%s)", selector.Name, strings.Join(typeNames, ","))
	return crypto.Keccak256Hash([]byte(canonical)), nil
}

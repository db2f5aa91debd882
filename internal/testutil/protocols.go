// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"github.com/lstlabs/lst-staking-service/internal/types"
)

const (
	AprMONAddress       = "0xb2f82D0f38dc453D596Ad40A37799446Cc89274A"
	GMONTokenAddress    = "0xaEef2f6B429Cb59C9B2D7bB2141ADa993E8571c3"
	GMONManagerAddress  = "0x2c9C959516e9AAEdB2C748224a41249202ca8BE7"
	ShMONAddress        = "0x3a98250F98Dd388C211206983453837C8365BDc1"
	RedeemRequestEvent  = "RedeemRequest(address,address,uint256,address,uint256)"
	ShMONUnbondingHours = 48
)

// AprMON is an instant-mode ERC-4626 style vault.
func AprMON() types.ProtocolDescriptor {
	return types.ProtocolDescriptor{
		Symbol:          "aprMON",
		Name:            "aPriori Monad LST",
		Description:     "aPriori is the leading MEV-powered liquid staking platform on Monad.",
		Token:           AprMONAddress,
		StakingContract: AprMONAddress,
		Decimals:        18,
		UnstakeMode:     types.Instant,
		Stake: types.ContractCall{
			Method:  "deposit(uint256,address)",
			Args:    []types.CallArg{types.ArgAmount, types.ArgOwner},
			Payable: true,
		},
		Unstake: types.ContractCall{
			Method: "redeem(uint256,address,address)",
			Args:   []types.CallArg{types.ArgAmount, types.ArgOwner, types.ArgOwner},
		},
		Balance: types.ContractCall{
			Method: "balanceOf(address)",
			Args:   []types.CallArg{types.ArgOwner},
		},
		ExchangeRate: &types.ContractCall{
			Method: "convertToAssets(uint256)",
			Args:   []types.CallArg{types.ArgOneShare},
		},
		RateDecimals: 18,
		Tvl: types.TvlSpec{
			Source: types.TvlDirect,
			Call:   &types.ContractCall{Method: "totalAssets()"},
		},
	}
}

// GMON stakes through a manager contract distinct from its token.
func GMON() types.ProtocolDescriptor {
	return types.ProtocolDescriptor{
		Symbol:          "gMON",
		Name:            "Magma Staked MON",
		Description:     "Magma distributes stake across validators through its stake manager.",
		Token:           GMONTokenAddress,
		StakingContract: GMONManagerAddress,
		Decimals:        18,
		UnstakeMode:     types.Instant,
		Stake: types.ContractCall{
			Method:  "depositMon()",
			Payable: true,
		},
		Unstake: types.ContractCall{
			Method: "withdrawMon(uint256)",
			Args:   []types.CallArg{types.ArgAmount},
		},
		Balance: types.ContractCall{
			Method: "balanceOf(address)",
			Args:   []types.CallArg{types.ArgOwner},
		},
		Tvl: types.TvlSpec{
			Source: types.TvlDirect,
			Call:   &types.ContractCall{Method: "calculateTVL()"},
		},
	}
}

// ShMON is a request-then-claim protocol whose TVL is supply times rate.
func ShMON() types.ProtocolDescriptor {
	return types.ProtocolDescriptor{
		Symbol:          "shMON",
		Name:            "shMonad",
		Description:     "shMONAD is a liquid staking token with delayed redemption.",
		Token:           ShMONAddress,
		StakingContract: ShMONAddress,
		Decimals:        18,
		UnstakeMode:     types.RequestThenClaim,
		Stake: types.ContractCall{
			Method:  "deposit(uint256,address)",
			Args:    []types.CallArg{types.ArgAmount, types.ArgOwner},
			Payable: true,
		},
		Unstake: types.ContractCall{
			Method: "requestRedeem(uint256,address,address)",
			Args:   []types.CallArg{types.ArgAmount, types.ArgOwner, types.ArgOwner},
		},
		Claim: &types.ContractCall{
			Method: "claimRedeem(uint256,address)",
			Args:   []types.CallArg{types.ArgWithdrawalID, types.ArgOwner},
		},
		Balance: types.ContractCall{
			Method: "balanceOf(address)",
			Args:   []types.CallArg{types.ArgOwner},
		},
		ExchangeRate: &types.ContractCall{
			Method: "convertToAssets(uint256)",
			Args:   []types.CallArg{types.ArgOneShare},
		},
		RateDecimals: 18,
		Tvl: types.TvlSpec{
			Source: types.TvlSupplyTimesRate,
			Supply: &types.ContractCall{Method: "totalSupply()"},
		},
		WithdrawalEvent: &types.WithdrawalEvent{
			Signature: RedeemRequestEvent,
			Indexed:   true,
			Position:  3,
		},
		UnbondingPeriodSeconds: ShMONUnbondingHours * 3600,
	}
}

// Descriptors returns the fixture protocols in registration order.
func Descriptors() []types.ProtocolDescriptor {
	return []types.ProtocolDescriptor{AprMON(), GMON(), ShMON()}
}

// Package contracts holds the fixed contract addresses and ABI fragments the
// swap flow depends on: the shared Permit2 allowance contract and the
// per-chain Universal Router deployments.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Permit2Addr is the canonical Permit2 deployment, shared across EVM chains.
var Permit2Addr = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")

// universalRouters maps chain ID to the Universal Router v2 deployment.
var universalRouters = map[uint64]common.Address{
	1:     common.HexToAddress("0x66a9893cC07D91D95644AEDD05D03f95e1dBA8Af"),
	10:    common.HexToAddress("0x851116D9223fabED8E56C0E6b8Ad0c31d98B7AD1"),
	8453:  common.HexToAddress("0x6fF5693b99212Da76ad316178A184AB56D299b43"),
	42161: common.HexToAddress("0xA51afAFe0263b40EdaEf0Df8781eA9aa03E381a3"),
}

// Routers returns the known Universal Router deployments merged with
// per-chain overrides (overrides win).
func Routers(overrides map[uint64]common.Address) map[uint64]common.Address {
	routers := make(map[uint64]common.Address, len(universalRouters)+len(overrides))
	for id, addr := range universalRouters {
		routers[id] = addr
	}
	for id, addr := range overrides {
		routers[id] = addr
	}
	return routers
}

const erc20JSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Permit2 fragment: the allowance read and the delegated approve only.
const permit2JSON = `[
	{"inputs":[{"name":"owner","type":"address"},{"name":"token","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"amount","type":"uint160"},{"name":"expiration","type":"uint48"},{"name":"nonce","type":"uint48"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"token","type":"address"},{"name":"spender","type":"address"},{"name":"amount","type":"uint160"},{"name":"expiration","type":"uint48"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	ERC20ABI   abi.ABI
	Permit2ABI abi.ABI
)

func init() {
	var err error
	ERC20ABI, err = abi.JSON(strings.NewReader(erc20JSON))
	if err != nil {
		panic(err)
	}
	Permit2ABI, err = abi.JSON(strings.NewReader(permit2JSON))
	if err != nil {
		panic(err)
	}
}

// Package allowance ensures the two on-chain approvals a Universal Router
// swap needs: the owner's ERC20 allowance to Permit2, and Permit2's
// delegated allowance (with expiration) to the router.
package allowance

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/contracts"
	"github.com/youke3399/youke-uniswap/tokens"
	"github.com/youke3399/youke-uniswap/wallet"
)

var (
	// MaxUint256 is granted on ERC20 approvals so the approval never has to
	// be repeated for this token.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// MaxUint160 is the widest amount Permit2 can record.
	MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
)

const (
	oneYear = 365 * 24 * time.Hour

	// A delegated allowance expiring within this window is renewed even if
	// the amount is still sufficient.
	expiryGrace = 60 * time.Second

	approveGasLimit = 100000
)

type Manager struct {
	clients chain.Clients
	signer  *wallet.Signer
	routers map[uint64]common.Address
}

func NewManager(clients chain.Clients, signer *wallet.Signer, routers map[uint64]common.Address) *Manager {
	return &Manager{
		clients: clients,
		signer:  signer,
		routers: routers,
	}
}

// EnsureAllowance makes both allowances cover required, submitting at most
// two approval transactions and blocking until each is mined. Native tokens
// need no approval. Every call re-reads both allowances from scratch, so a
// failed call can simply be retried.
func (m *Manager) EnsureAllowance(ctx context.Context, token tokens.Token, owner common.Address, required *big.Int) error {
	if token.IsNative() {
		return nil
	}

	backend, err := m.clients.For(token.ChainID)
	if err != nil {
		return err
	}
	router, ok := m.routers[token.ChainID]
	if !ok {
		return fmt.Errorf("no universal router known for chain %d", token.ChainID)
	}

	now := time.Now()

	// Step 1: the owner's ERC20 allowance to Permit2.
	current, err := m.erc20Allowance(ctx, backend, token.Address, owner)
	if err != nil {
		return fmt.Errorf("reading ERC20 allowance: %w", err)
	}

	if current.Cmp(required) < 0 {
		data, err := contracts.ERC20ABI.Pack("approve", contracts.Permit2Addr, MaxUint256)
		if err != nil {
			return fmt.Errorf("packing ERC20 approve: %w", err)
		}
		if err := m.sendApproval(ctx, backend, token.ChainID, token.Address, data); err != nil {
			return fmt.Errorf("approving ERC20 for Permit2: %w", err)
		}
	}

	// Step 2: Permit2's delegated allowance to the router.
	amount, expiration, err := m.permit2Allowance(ctx, backend, owner, token.Address, router)
	if err != nil {
		return fmt.Errorf("reading Permit2 allowance: %w", err)
	}

	if amount.Cmp(required) < 0 || expiration < now.Add(expiryGrace).Unix() {
		expiry := big.NewInt(now.Add(oneYear).Unix())
		data, err := contracts.Permit2ABI.Pack("approve", token.Address, router, MaxUint160, expiry)
		if err != nil {
			return fmt.Errorf("packing Permit2 approve: %w", err)
		}
		if err := m.sendApproval(ctx, backend, token.ChainID, contracts.Permit2Addr, data); err != nil {
			return fmt.Errorf("approving Permit2 for router: %w", err)
		}
	}

	return nil
}

func (m *Manager) erc20Allowance(ctx context.Context, backend chain.Backend, token, owner common.Address) (*big.Int, error) {
	data, err := contracts.ERC20ABI.Pack("allowance", owner, contracts.Permit2Addr)
	if err != nil {
		return nil, err
	}

	output, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(output) < 32 {
		return big.NewInt(0), nil
	}

	return new(big.Int).SetBytes(output[:32]), nil
}

// permit2Allowance reads Permit2's (amount, expiration) record for the
// router. The nonce in the return tuple is ignored.
func (m *Manager) permit2Allowance(ctx context.Context, backend chain.Backend, owner, token, spender common.Address) (*big.Int, int64, error) {
	data, err := contracts.Permit2ABI.Pack("allowance", owner, token, spender)
	if err != nil {
		return nil, 0, err
	}

	output, err := backend.CallContract(ctx, ethereum.CallMsg{To: &contracts.Permit2Addr, Data: data}, nil)
	if err != nil {
		return nil, 0, err
	}

	decoded, err := contracts.Permit2ABI.Unpack("allowance", output)
	if err != nil {
		return nil, 0, fmt.Errorf("unpacking Permit2 allowance: %w", err)
	}
	if len(decoded) < 2 {
		return nil, 0, fmt.Errorf("unexpected Permit2 allowance return")
	}

	amount, ok := decoded[0].(*big.Int)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected Permit2 amount type %T", decoded[0])
	}
	expiration, ok := decoded[1].(*big.Int)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected Permit2 expiration type %T", decoded[1])
	}

	return amount, expiration.Int64(), nil
}

func (m *Manager) sendApproval(ctx context.Context, backend chain.Backend, chainID uint64, to common.Address, data []byte) error {
	from := m.signer.Address()

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return fmt.Errorf("getting nonce: %w", err)
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("getting gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, big.NewInt(0), approveGasLimit, gasPrice, data)
	signedTx, err := m.signer.SignTx(tx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return err
	}

	if err := backend.SendTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("sending approve tx: %w", err)
	}

	log.Printf("Approve tx sent: %s", signedTx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, backend, signedTx)
	if err != nil {
		return fmt.Errorf("waiting for approve: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("approve tx %s reverted", signedTx.Hash().Hex())
	}

	return nil
}

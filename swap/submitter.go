package swap

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/wallet"
)

const swapGasLimit = 500000

// RouterSubmitter sends quote call payloads to the chain's Universal Router
// and blocks until the transaction is mined.
type RouterSubmitter struct {
	clients chain.Clients
	signer  *wallet.Signer
	routers map[uint64]common.Address
}

func NewRouterSubmitter(clients chain.Clients, signer *wallet.Signer, routers map[uint64]common.Address) *RouterSubmitter {
	return &RouterSubmitter{
		clients: clients,
		signer:  signer,
		routers: routers,
	}
}

func (r *RouterSubmitter) Submit(ctx context.Context, chainID uint64, calldata []byte, value *big.Int) (common.Hash, error) {
	backend, err := r.clients.For(chainID)
	if err != nil {
		return common.Hash{}, err
	}
	router, ok := r.routers[chainID]
	if !ok {
		return common.Hash{}, fmt.Errorf("no universal router known for chain %d", chainID)
	}
	if value == nil {
		value = big.NewInt(0)
	}

	from := r.signer.Address()

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, router, value, swapGasLimit, gasPrice, calldata)
	signedTx, err := r.signer.SignTx(tx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return common.Hash{}, err
	}

	if err := backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("sending swap tx: %w", err)
	}

	log.Printf("Swap tx sent: %s", signedTx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, backend, signedTx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("waiting for swap: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("swap tx %s reverted", signedTx.Hash().Hex())
	}

	return signedTx.Hash(), nil
}

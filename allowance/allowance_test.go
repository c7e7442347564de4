package allowance

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/contracts"
	"github.com/youke3399/youke-uniswap/tokens"
	"github.com/youke3399/youke-uniswap/wallet"
)

var (
	testRouter = common.HexToAddress("0x66a9893cC07D91D95644AEDD05D03f95e1dBA8Af")
	testOwner  = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

// fakeBackend simulates the ERC20 + Permit2 allowance state of one token.
type fakeBackend struct {
	mu sync.Mutex

	token common.Address

	erc20Allowance    *big.Int
	permit2Amount     *big.Int
	permit2Expiration int64

	failReads bool
	nonce     uint64
	sent      []*types.Transaction
	receipts  map[common.Hash]*types.Receipt
}

func newFakeBackend(token common.Address) *fakeBackend {
	return &fakeBackend{
		token:          token,
		erc20Allowance: big.NewInt(0),
		permit2Amount:  big.NewInt(0),
		receipts:       make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, fmt.Errorf("rpc unavailable")
	}
	switch *msg.To {
	case f.token:
		return common.LeftPadBytes(f.erc20Allowance.Bytes(), 32), nil
	case contracts.Permit2Addr:
		return contracts.Permit2ABI.Methods["allowance"].Outputs.Pack(
			f.permit2Amount, big.NewInt(f.permit2Expiration), big.NewInt(0))
	}
	return nil, fmt.Errorf("unexpected call to %s", msg.To.Hex())
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch *tx.To() {
	case f.token:
		args, err := contracts.ERC20ABI.Methods["approve"].Inputs.Unpack(tx.Data()[4:])
		if err != nil {
			return fmt.Errorf("decoding ERC20 approve: %w", err)
		}
		f.erc20Allowance = args[1].(*big.Int)
	case contracts.Permit2Addr:
		args, err := contracts.Permit2ABI.Methods["approve"].Inputs.Unpack(tx.Data()[4:])
		if err != nil {
			return fmt.Errorf("decoding Permit2 approve: %w", err)
		}
		f.permit2Amount = args[2].(*big.Int)
		f.permit2Expiration = args[3].(*big.Int).Int64()
	default:
		return fmt.Errorf("unexpected tx to %s", tx.To().Hex())
	}

	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	return nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.nonce
	f.nonce++
	return n, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (f *fakeBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeBackend) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestManager(t *testing.T, backend *fakeBackend) *Manager {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return NewManager(
		chain.Clients{1: backend},
		wallet.NewSigner(key),
		map[uint64]common.Address{1: testRouter},
	)
}

func testToken() tokens.Token {
	return tokens.New(1, "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6, "USDT", "Tether USD")
}

func TestEnsureAllowanceNative(t *testing.T) {
	backend := newFakeBackend(common.Address{})
	backend.failReads = true // must never reach the chain
	m := newTestManager(t, backend)

	eth := tokens.Native(1, 18, "ETH", "Ether")
	if err := m.EnsureAllowance(context.Background(), eth, testOwner, big.NewInt(1)); err != nil {
		t.Fatalf("native token should need no approval: %v", err)
	}
	if backend.sentCount() != 0 {
		t.Errorf("sent %d transactions, want 0", backend.sentCount())
	}
}

func TestEnsureAllowanceSufficient(t *testing.T) {
	usdt := testToken()
	backend := newFakeBackend(usdt.Address)
	backend.erc20Allowance = big.NewInt(200000000)
	backend.permit2Amount = big.NewInt(200000000)
	backend.permit2Expiration = time.Now().Add(24 * time.Hour).Unix()
	m := newTestManager(t, backend)

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 0 {
		t.Errorf("sent %d transactions, want 0", backend.sentCount())
	}
}

func TestEnsureAllowanceERC20Short(t *testing.T) {
	usdt := testToken()
	backend := newFakeBackend(usdt.Address)
	backend.erc20Allowance = big.NewInt(1) // below required
	backend.permit2Amount = big.NewInt(200000000)
	backend.permit2Expiration = time.Now().Add(24 * time.Hour).Unix()
	m := newTestManager(t, backend)

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 1 {
		t.Fatalf("sent %d transactions, want 1", backend.sentCount())
	}
	if backend.erc20Allowance.Cmp(MaxUint256) != 0 {
		t.Errorf("ERC20 approval = %s, want max uint256", backend.erc20Allowance)
	}

	// idempotent: the infinite approval covers every later call
	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 1 {
		t.Errorf("second call sent %d extra transactions, want 0", backend.sentCount()-1)
	}
}

func TestEnsureAllowancePermit2Expiring(t *testing.T) {
	usdt := testToken()
	backend := newFakeBackend(usdt.Address)
	backend.erc20Allowance = MaxUint256
	backend.permit2Amount = big.NewInt(200000000)
	backend.permit2Expiration = time.Now().Add(30 * time.Second).Unix() // inside the 60s grace
	m := newTestManager(t, backend)

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 1 {
		t.Fatalf("sent %d transactions, want 1", backend.sentCount())
	}
	if backend.permit2Amount.Cmp(MaxUint160) != 0 {
		t.Errorf("Permit2 approval = %s, want max uint160", backend.permit2Amount)
	}
	minExpiry := time.Now().Add(360 * 24 * time.Hour).Unix()
	if backend.permit2Expiration < minExpiry {
		t.Errorf("Permit2 expiration %d not roughly a year out", backend.permit2Expiration)
	}
}

func TestEnsureAllowanceBothShort(t *testing.T) {
	usdt := testToken()
	backend := newFakeBackend(usdt.Address)
	m := newTestManager(t, backend)

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 2 {
		t.Fatalf("sent %d transactions, want 2", backend.sentCount())
	}
	// ERC20 approval must land before the Permit2 approval
	if *backend.sent[0].To() != usdt.Address {
		t.Errorf("first tx went to %s, want token contract", backend.sent[0].To().Hex())
	}
	if *backend.sent[1].To() != contracts.Permit2Addr {
		t.Errorf("second tx went to %s, want Permit2", backend.sent[1].To().Hex())
	}

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(100000000)); err != nil {
		t.Fatal(err)
	}
	if backend.sentCount() != 2 {
		t.Errorf("repeat call issued extra transactions")
	}
}

func TestEnsureAllowanceReadError(t *testing.T) {
	usdt := testToken()
	backend := newFakeBackend(usdt.Address)
	backend.failReads = true
	m := newTestManager(t, backend)

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(1)); err == nil {
		t.Fatal("expected error when allowance read fails")
	}
	if backend.sentCount() != 0 {
		t.Errorf("sent %d transactions after failed read, want 0", backend.sentCount())
	}
}

func TestEnsureAllowanceUnknownRouter(t *testing.T) {
	usdt := tokens.New(324, "0x7821a81c0baa7f50a3063c0b51984d081658969d", 6, "USDT", "Tether USD")
	backend := newFakeBackend(usdt.Address)
	key, _ := crypto.GenerateKey()
	m := NewManager(chain.Clients{324: backend}, wallet.NewSigner(key), map[uint64]common.Address{1: testRouter})

	if err := m.EnsureAllowance(context.Background(), usdt, testOwner, big.NewInt(1)); err == nil {
		t.Fatal("expected error for chain without a known router")
	}
}

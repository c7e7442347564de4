package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"github.com/youke3399/youke-uniswap/allowance"
	"github.com/youke3399/youke-uniswap/apilog"
	"github.com/youke3399/youke-uniswap/balances"
	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/config"
	"github.com/youke3399/youke-uniswap/contracts"
	"github.com/youke3399/youke-uniswap/db"
	"github.com/youke3399/youke-uniswap/notify"
	"github.com/youke3399/youke-uniswap/quote"
	"github.com/youke3399/youke-uniswap/server"
	"github.com/youke3399/youke-uniswap/swap"
	"github.com/youke3399/youke-uniswap/wallet"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	signer, err := wallet.FromMnemonic(cfg.Mnemonic)
	if err != nil {
		log.Fatalf("Failed to derive wallet: %v", err)
	}
	log.Printf("Wallet address: %s", signer.Address().Hex())

	endpoints, err := cfg.Endpoints()
	if err != nil {
		log.Fatalf("Invalid RPC endpoints: %v", err)
	}
	clients, err := chain.Dial(endpoints)
	if err != nil {
		log.Fatalf("Failed to connect RPC clients: %v", err)
	}
	for chainID := range clients {
		log.Printf("Connected to chain %d RPC", chainID)
	}

	overrides, err := cfg.RouterOverrides()
	if err != nil {
		log.Fatalf("Invalid router overrides: %v", err)
	}
	routerAddrs := make(map[uint64]common.Address, len(overrides))
	for chainID, addr := range overrides {
		routerAddrs[chainID] = common.HexToAddress(addr)
	}
	routers := contracts.Routers(routerAddrs)

	quoteClient := quote.NewClient(cfg.QuoteAPIURL, quote.Defaults{
		Protocols: cfg.Protocols,
		MinSplits: cfg.MinSplits,
		Slippage:  cfg.Slippage,
	}, apilog.NewHTTPClient(store))

	var notifier *notify.Notifier
	if cfg.TelegramToken != "" {
		notifier, err = notify.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to create notifier: %v", err)
		}
		log.Println("Telegram notifications enabled")
	}

	session := swap.NewSession(cfg.ChainID)
	poller := balances.NewPoller(clients, session, signer.Address())

	orch := swap.New(swap.Options{
		Session:   session,
		Quotes:    quoteClient,
		Allowance: allowance.NewManager(clients, signer, routers),
		Submitter: swap.NewRouterSubmitter(clients, signer, routers),
		Recipient: signer.Address(),
		OnSettled: func(s swap.Settlement) {
			if _, err := store.InsertSwap(context.Background(), db.InsertSwapParams{
				ChainID:    int64(s.ChainID),
				FromSymbol: s.FromSymbol,
				ToSymbol:   s.ToSymbol,
				FromAmount: s.FromAmount,
				ToAmount:   s.ToAmount,
				TxHash:     s.TxHash.Hex(),
				Status:     "confirmed",
			}); err != nil {
				log.Printf("Failed to record swap: %v", err)
			}
			notifier.SwapSettled(s)
			poller.Refresh(context.Background())
		},
		OnSwapFailed: func(err error) {
			notifier.SwapFailed(err)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Run(ctx)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	srv := server.New(cfg, orch, store)
	if err := srv.Start(); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

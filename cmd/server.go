// Server = chain executors + quote engine + db/state + http reporter.
// All components are configured via environment variables (strings!).

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/aggregator"
	"github.com/unite-defi/fusion-go/aptosman"
	"github.com/unite-defi/fusion-go/chainman"
	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/etherman"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/pricefeed"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/reporter"
	"github.com/unite-defi/fusion-go/resolver"
	"github.com/unite-defi/fusion-go/state"
	"github.com/unite-defi/fusion-go/swap"
)

// Default params for the server. More often we don't recommend users to
// tweak those, so we list them here.
const (
	// how often PENDING swaps past their deadline get flipped to EXPIRED
	frequencyToSweepExpiredSwaps = 30 * time.Second
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type SwapServerConfig struct {
	// aggregator side
	OneInchBaseUrl string // empty = the public api
	OneInchApiKey  string

	// price reference side
	CoingeckoBaseUrl string // empty = the public api

	// off-chain collaborators
	ResolverUrl string
	BackendUrl  string

	// state side
	DbFilePath string

	// aptos side
	AptosHtlcModuleAddr string

	// http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080
}

// SwapServer holds the objects the swap service consists of.
type SwapServer struct {
	MyRegistry     *chains.Registry
	MyEtherman     *etherman.Etherman
	MyStateDb      *state.StateDB
	MyOrchestrator *swap.Orchestrator
	MyReporter     *reporter.HttpReporter
}

// NewSwapServer creates a new swap server.
// ctx cancels the background sweeps; the http reporter runs until killed.
func NewSwapServer(ssc *SwapServerConfig, ctx context.Context) (*SwapServer, error) {
	registry := chains.NewRegistry()

	// state db
	sqldb, err := sql.Open("sqlite3", ssc.DbFilePath)
	if err != nil {
		logger.Fatalf("failed to open db file: %v", err)
		return nil, err
	}
	myStateDb, err := state.NewStateDB(sqldb)
	if err != nil {
		logger.Fatalf("failed to create state db: %v", err)
		return nil, err
	}

	// chain executors
	myEtherman, err := etherman.NewEtherman(registry)
	if err != nil {
		logger.Fatalf("failed to create etherman: %v", err)
		return nil, err
	}

	// pricing; etherman doubles as the live EVM gas-fee source
	agg := aggregator.NewClient(ssc.OneInchBaseUrl, ssc.OneInchApiKey)
	prices := pricefeed.NewClient(ssc.CoingeckoBaseUrl)
	quoteEngine := quote.NewEngine(registry, agg, prices, myEtherman)
	aptosModuleAddr := ssc.AptosHtlcModuleAddr
	if aptosModuleAddr == "" {
		aptosModuleAddr = htlcContract(registry, "APTOS")
	}
	myAptosman, err := aptosman.NewAptosman(aptosModuleAddr)
	if err != nil {
		logger.Fatalf("failed to create aptosman: %v", err)
		return nil, err
	}
	executors := []htlc.Executor{
		myEtherman,
		myAptosman,
		&chainman.Sui{PackageID: htlcContract(registry, "SUI")},
		&chainman.Near{ContractID: htlcContract(registry, "NEAR")},
		&chainman.Cosmos{ContractAddress: htlcContract(registry, "COSMOS"), Denom: "uatom"},
		&chainman.Tron{ContractAddress: htlcContract(registry, "TRON")},
		&chainman.Stellar{ContractID: htlcContract(registry, "STELLAR")},
		&chainman.TON{ContractAddress: htlcContract(registry, "TON")},
		&chainman.Solana{},
	}

	// orchestrator
	remote := resolver.NewClient(ssc.ResolverUrl, ssc.BackendUrl)
	orchestrator, err := swap.NewOrchestrator(swap.Config{
		Registry:   registry,
		Quoter:     quoteEngine,
		Executors:  executors,
		Store:      myStateDb,
		Remote:     remote,
		Aggregator: agg,
		EVM:        myEtherman,
	})
	if err != nil {
		logger.Fatalf("failed to create orchestrator: %v", err)
		return nil, err
	}

	// background expiry sweep
	go orchestrator.RunExpiry(ctx, frequencyToSweepExpiredSwaps)

	// *** Setup a http server to report status ***
	httpServer := reporter.NewHttpReporter(
		ssc.HttpIp,
		ssc.HttpPort,
		orchestrator,
		registry,
		myStateDb,
	)
	go func() {
		if err := httpServer.Run(); err != nil {
			logger.Fatalf("http reporter stopped: %v", err)
		}
	}()

	// Give it some time to start the http server
	time.Sleep(1 * time.Second)

	return &SwapServer{
		MyRegistry:     registry,
		MyEtherman:     myEtherman,
		MyStateDb:      myStateDb,
		MyOrchestrator: orchestrator,
		MyReporter:     httpServer,
	}, nil
}

// Create, then start the swap server and wait.
// Press Ctrl-C to kill the server.
func StartSwapServerAndWait(ssc *SwapServerConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	server, err := NewSwapServer(ssc, ctx)
	if err != nil {
		logger.Fatalf("failed to create swap server: %v", err)
		return
	}
	defer server.MyStateDb.Close()

	sig := <-sigCh
	fmt.Printf("Received signal: %v, shutting down...\n", sig)
	cancel()
}

// htlcContract reads the deployed HTLC contract for a chain key, empty if
// the chain is unknown or nothing is deployed there yet.
func htlcContract(registry *chains.Registry, key string) string {
	d, err := registry.Describe(chains.NameRef(key))
	if err != nil {
		return ""
	}
	return d.HTLCContract
}

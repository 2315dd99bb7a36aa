package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cwallet/pkg/config"
	"cwallet/pkg/ledger"
	"cwallet/pkg/linking"
	"cwallet/pkg/rpc"
	"cwallet/pkg/server"
	"cwallet/pkg/store"
	"cwallet/pkg/tui"
	"cwallet/pkg/wallet"

	"github.com/joho/godotenv"
)

// Version should be set during build
var Version = "dev"

func main() {
	configFlag := flag.String("config", "", "Path to configuration file")
	serverFlag := flag.Bool("server", false, "Run headless with only the API server")
	portFlag := flag.Int("port", 0, "Override API server port")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("cwallet version %s\n", Version)
		os.Exit(0)
	}

	// A .env file is optional.
	_ = godotenv.Load()

	path, err := config.GetConfigPath(*configFlag)
	if err != nil {
		fmt.Printf("Error determining config path: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Error loading config from %s: %v\n", path, err)
		os.Exit(1)
	}
	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	kv, err := store.OpenPebble(cfg.DataDir)
	if err != nil {
		fmt.Printf("Error opening data store at %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}
	defer func() { _ = kv.Close() }()

	sessions := store.NewSessionStore(kv)
	profiles := store.NewProfileStore(kv)
	splitStore := store.NewSplitStore(kv)

	fetcher := rpc.NewClient(cfg.RPCURLs)
	orchestrator := wallet.NewOrchestrator(sessions, fetcher, linking.SystemLauncher{}, cfg.WalletLinks, cfg.InstallURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator.Bootstrap(ctx)
	go orchestrator.Poll(ctx, time.Duration(cfg.PollIntervalSeconds)*time.Second)

	splitLedger := ledger.NewLedger(splitStore, orchestrator)

	srv := server.NewServer(orchestrator, splitLedger, profiles)
	go func() {
		if err := srv.Start(cfg.Server.Host, cfg.Server.Port); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	if *serverFlag {
		fmt.Printf("Running in server mode on %s:%d...\n", cfg.Server.Host, cfg.Server.Port)
		select {} // Keep alive
	}

	tui.Start(orchestrator, splitLedger, profiles, Version)
}

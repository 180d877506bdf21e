package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/shell/config"
)

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cli)
	stop()

	if err != nil {
		log.Printf("❌ %s failed: %v", cli.Command, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cli Config) error {
	cfg, err := config.Load(cli.ConfigPath, cli.EnvFile)
	if err != nil {
		return err
	}

	logger := config.NewLogger(os.Stderr, cfg.Log)

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return commands[cli.Command](ctx, a, cli.Args, os.Stdout)
}

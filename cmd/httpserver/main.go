package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/openrsvp/rsvp-registry/cmd/flags"
	"github.com/openrsvp/rsvp-registry/httpserver"
	"github.com/openrsvp/rsvp-registry/interfaces"
	"github.com/openrsvp/rsvp-registry/ledger"
	"github.com/openrsvp/rsvp-registry/registry"
	"github.com/openrsvp/rsvp-registry/storage"
)

func main() {
	app := &cli.App{
		Name:  "rsvp-registry-server",
		Usage: "Serve the event registration ledger API",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.StoreFlag,
			flags.FundFlag,
		}, flags.CommonFlags...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	storeURI := cCtx.String(flags.StoreFlag.Name)
	logger.Info("Opening event store", "location", storeURI)
	store, err := storage.NewStoreFactory(logger).StoreFor(cCtx.Context, storeURI)
	if err != nil {
		logger.Error("Failed to open event store", "err", err)
		return err
	}
	defer store.Close()

	bank := ledger.NewMemoryLedger()
	if err := seedLedger(bank, cCtx.StringSlice(flags.FundFlag.Name)); err != nil {
		logger.Error("Failed to seed ledger", "err", err)
		return err
	}

	reg := registry.New(store, bank, logger)
	handler := httpserver.NewHandler(reg, logger)

	cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flags.ListenAddrFlag.Name))
	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")
	return nil
}

// seedLedger credits dev accounts from --fund entries of the form
// <hex-address>=<decimal-amount>.
func seedLedger(bank *ledger.MemoryLedger, entries []string) error {
	for _, entry := range entries {
		addrStr, amountStr, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("malformed fund entry %q, want <address>=<amount>", entry)
		}
		account, err := interfaces.NewIdentityFromHex(addrStr)
		if err != nil {
			return fmt.Errorf("fund entry %q: %w", entry, err)
		}
		amount, ok := new(big.Int).SetString(amountStr, 10)
		if !ok {
			return fmt.Errorf("fund entry %q: bad amount %q", entry, amountStr)
		}
		bank.Credit(account, interfaces.NativeAsset, amount)
	}
	return nil
}

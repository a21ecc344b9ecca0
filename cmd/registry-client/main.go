package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/openrsvp/rsvp-registry/api"
	"github.com/openrsvp/rsvp-registry/api/clients"
	"github.com/openrsvp/rsvp-registry/interfaces"
)

var serverAddrFlag = &cli.StringFlag{
	Name:    "server-addr",
	Value:   "http://127.0.0.1:8080",
	Usage:   "base URL of the registry API server",
	EnvVars: []string{"RSVP_SERVER_ADDR"},
}

var callerFlag = &cli.StringFlag{
	Name:     "caller",
	Required: true,
	Usage:    "caller identity as a hex address",
	EnvVars:  []string{"RSVP_CALLER"},
}

var eventIDFlag = &cli.Uint64Flag{
	Name:     "event-id",
	Required: true,
	Usage:    "event identifier",
}

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Drive the event registration ledger API",
		Flags: []cli.Flag{serverAddrFlag, callerFlag},
		Commands: []*cli.Command{
			{
				Name:  "create-event",
				Usage: "Create a new event owned by the caller",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "max-capacity", Usage: "informational capacity bound"},
					&cli.StringFlag{Name: "deposit", Value: "0", Usage: "required deposit, decimal"},
					&cli.StringFlag{Name: "name", Required: true, Usage: "event name, at most 32 bytes"},
				},
				Action: runCreateEvent,
			},
			{
				Name:  "register",
				Usage: "Register the caller for an event, attaching a payment",
				Flags: []cli.Flag{
					eventIDFlag,
					&cli.StringFlag{Name: "amount", Required: true, Usage: "attached payment amount, decimal"},
					&cli.StringFlag{Name: "asset", Value: interfaces.NativeAsset.String(), Usage: "attached payment asset"},
				},
				Action: runRegister,
			},
			{
				Name:   "get",
				Usage:  "Fetch an event record and its registration count",
				Flags:  []cli.Flag{eventIDFlag},
				Action: runGet,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) (*clients.RegistryClient, error) {
	caller, err := interfaces.NewIdentityFromHex(cCtx.String(callerFlag.Name))
	if err != nil {
		return nil, err
	}
	return clients.NewRegistryClient(cCtx.String(serverAddrFlag.Name), caller, nil), nil
}

func runCreateEvent(cCtx *cli.Context) error {
	client, err := newClient(cCtx)
	if err != nil {
		return err
	}

	deposit, ok := new(big.Int).SetString(cCtx.String("deposit"), 10)
	if !ok {
		return fmt.Errorf("bad deposit %q, want a decimal integer", cCtx.String("deposit"))
	}

	ev, err := client.CreateEvent(cCtx.Context, cCtx.Uint64("max-capacity"), deposit, cCtx.String("name"))
	if err != nil {
		return err
	}
	return printEvent(ev)
}

func runRegister(cCtx *cli.Context) error {
	client, err := newClient(cCtx)
	if err != nil {
		return err
	}

	amount, ok := new(big.Int).SetString(cCtx.String("amount"), 10)
	if !ok {
		return fmt.Errorf("bad amount %q, want a decimal integer", cCtx.String("amount"))
	}

	ev, err := client.Register(cCtx.Context, cCtx.Uint64(eventIDFlag.Name), amount, interfaces.Asset(cCtx.String("asset")))
	if err != nil {
		return err
	}
	return printEvent(ev)
}

func runGet(cCtx *cli.Context) error {
	client, err := newClient(cCtx)
	if err != nil {
		return err
	}

	ev, err := client.GetEvent(cCtx.Context, cCtx.Uint64(eventIDFlag.Name))
	if err != nil {
		return err
	}
	return printEvent(ev)
}

func printEvent(ev *api.EventResponse) error {
	raw, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

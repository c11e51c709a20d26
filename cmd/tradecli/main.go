// Command tradecli is a terminal client for the order entry service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/uhyunpark/tradedesk/pkg/client"
)

var serverURL = flag.String("server", envOr("TRADEDESK_URL", "http://localhost:5000"), "Base URL of the order entry API")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&instrumentsCmd{}, "market")

	commander.Register(&buyCmd{}, "orders")
	commander.Register(&sellCmd{}, "orders")
	commander.Register(&orderCmd{}, "orders")
	commander.Register(&tradesCmd{}, "orders")

	commander.Register(&portfolioCmd{}, "portfolio")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// connect returns a client after checking the server is up, so every
// command fails fast with one clear message when it is not.
func connect(ctx context.Context) (*client.Client, bool) {
	c := client.New(*serverURL)
	if err := c.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server at %s is not reachable: %v\n", *serverURL, err)
		return nil, false
	}
	return c, true
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

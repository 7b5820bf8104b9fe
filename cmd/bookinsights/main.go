package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the complete command structure for the bookinsights binary
type CLI struct {
	Config string `short:"c" help:"Path to a yaml, json or toml config file" type:"path"`

	Books  BooksCmd  `cmd:"" help:"Run the book service"`
	Orders OrdersCmd `cmd:"" help:"Run the order service"`
	Token  TokenCmd  `cmd:"" help:"Print a signed development token"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bookinsights"),
		kong.Description("Book catalog and order services backed by OpenLibrary."),
		kong.UsageOnError(),
		kong.Bind(&runtime{out: os.Stdout}),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "bookinsights: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the nnlower CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/born-ml/nnlower/cmd/nnlower/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := commands.New()
	cli.SetArgs(os.Args[1:])
	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

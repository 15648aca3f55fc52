package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/caportal/portal/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		stop()
		os.Exit(1)
	}
}

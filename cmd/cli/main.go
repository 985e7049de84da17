package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/connectlink/internal/client/cli"
	"github.com/dmitrijs2005/connectlink/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := cli.NewApp(cfg).Run(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/deckexc/internal/client/cli"
	"github.com/dmitrijs2005/deckexc/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}

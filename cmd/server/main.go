// Command vaultkeeper runs the vault controller gRPC server.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/vaultkeeper/internal/server"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("vaultkeeper: %v", err)
	}

	app.Run(context.Background())
}

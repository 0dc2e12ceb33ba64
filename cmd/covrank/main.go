// Command covrank scores, ranks and deduplicates insurance products.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/covrank/internal/adapters/driving/cli"
	"github.com/custodia-labs/covrank/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		logger.Debug("exit: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/connorodea/leonardo-cli/internal/cli"
)

func main() {
	if err := run(); err != nil {
		// the command tree already printed the error
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists, so LEONARDO_API_KEY can live there
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd().ExecuteContext(ctx)
}

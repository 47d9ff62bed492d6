package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hireall/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; values then come from the environment and config
	_ = godotenv.Load()

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

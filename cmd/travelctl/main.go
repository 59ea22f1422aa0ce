package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"travel/cfg"
	"travel/internal/bootstrap"
	"travel/internal/flight"
	"travel/pkg/logger"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(loadService)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadService(ctx context.Context) (flight.FlightService, error) {
	config, err := cfg.Load()
	if err != nil {
		return nil, err
	}
	// stdout carries command output
	zlogger := logger.NewWithWriter("production", os.Stderr)
	return bootstrap.NewFlightService(ctx, config, zlogger)
}

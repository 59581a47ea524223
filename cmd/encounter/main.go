// Package main serves the encounter scheduler as MCP tools over stdio.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	encountercmd "github.com/warbandtools/skirmish/internal/cmd/encounter"
	"github.com/warbandtools/skirmish/internal/platform/config"
)

func main() {
	cfg, err := encountercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[encounter] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := encountercmd.Run(ctx, cfg); err != nil {
		config.Exitf("Error: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/config"
	"github.com/danmuck/ofwire/internal/observability"
	"github.com/danmuck/ofwire/internal/server"
)

func main() {
	path := flag.String("config", config.DefaultInspectorPath, "path to config.toml")
	flag.Parse()

	if err := run(*path); err != nil {
		fmt.Fprintf(os.Stderr, "ofinspect: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.LoadInspectorConfig(path)
	if err != nil {
		return err
	}
	observability.InitLogger(cfg.Name)

	reg, err := codec.NewRegistry(cfg.CodecOptions()...)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, reg).Run(ctx)
}

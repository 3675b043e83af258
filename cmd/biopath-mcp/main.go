package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/biopath/internal/config"
	biomcp "github.com/peterkuimelis/biopath/internal/mcp"
)

func main() {
	cfgPath := flag.String("config", "biopath.yaml", "path to config file")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	// stdout carries the MCP stream; Build always logs to stderr.
	logger, err := cfg.Logging.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, store, err := cfg.Session(context.Background(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	biomcp.SetSessionConfig(sc)

	s := server.NewMCPServer("biopath", "1.0.0")
	biomcp.RegisterTools(s)

	return server.ServeStdio(s)
}

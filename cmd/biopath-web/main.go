package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterkuimelis/biopath/internal/config"
	"github.com/peterkuimelis/biopath/internal/web"
)

func main() {
	cfgPath := flag.String("config", "biopath.yaml", "path to config file")
	addr := flag.String("addr", "", "HTTP address to listen on (overrides the config file)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfgPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, addr string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logging.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if addr != "" {
		cfg.Server.HTTPAddress = addr
	}

	sc, store, err := cfg.Session(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := web.NewServer(web.Config{Session: sc, Logger: logger.Named("web")})
	return srv.ListenAndServe(ctx, cfg.Server.HTTPAddress)
}

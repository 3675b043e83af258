package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/biopath/internal/config"
	bionet "github.com/peterkuimelis/biopath/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  biopath play [--config FILE] [--seed N] [--endless]")
	fmt.Println("  biopath host [--config FILE] [--addr ADDR]")
	fmt.Println("  biopath join [--config FILE] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play a run in this terminal")
	fmt.Println("  host    Serve runs over TCP, one per connection")
	fmt.Println("  join    Play a run hosted by another process")
}

// setup loads the config file and builds the logger shared by every command.
func setup(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logging.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	cfgPath := fs.String("config", "biopath.yaml", "path to config file")
	seed := fs.Uint64("seed", 0, "RNG seed (overrides the config file)")
	endless := fs.Bool("endless", false, "start without a turn limit")
	fs.Parse(args)

	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *endless {
		cfg.Game.Endless = true
	}

	sc, store, err := cfg.Session(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := bionet.NewSession(sc)
	logger.Debug("local run", zap.String("session", sess.ID))
	client := bionet.NewClient(&bionet.LocalTransport{Session: sess}, sc.Catalog, os.Stdin, os.Stdout)
	return client.Run(ctx)
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	cfgPath := fs.String("config", "biopath.yaml", "path to config file")
	addr := fs.String("addr", "", "TCP address to listen on (overrides the config file)")
	fs.Parse(args)

	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *addr != "" {
		cfg.Server.TCPAddress = *addr
	}

	sc, store, err := cfg.Session(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &bionet.Server{
		Addr:    cfg.Server.TCPAddress,
		Session: sc,
		Logger:  logger.Named("tcp"),
	}
	logger.Info("hosting", zap.String("addr", srv.Addr), zap.String("scores", cfg.Scores.Backend))
	return srv.ListenAndServe(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	cfgPath := fs.String("config", "biopath.yaml", "path to config file")
	addr := fs.String("addr", "", "server address to connect to (overrides the config file)")
	fs.Parse(args)

	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *addr != "" {
		cfg.Server.TCPAddress = *addr
	}
	cat, err := cfg.Game.OpenCatalog()
	if err != nil {
		return err
	}

	transport, err := bionet.Dial(ctx, cfg.Server.TCPAddress)
	if err != nil {
		return err
	}
	defer transport.Close()

	return bionet.NewClient(transport, cat, os.Stdin, os.Stdout).Run(ctx)
}

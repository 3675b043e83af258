package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	bionet "github.com/peterkuimelis/biopath/internal/net"
	"github.com/peterkuimelis/biopath/internal/score"
)

// Session builds the per-run configuration shared by every front end: the
// catalog, the best-score store and, when enabled, the structured event
// sink. The caller owns the returned store and must close it.
func (c *Config) Session(ctx context.Context, logger *zap.Logger) (bionet.SessionConfig, score.Store, error) {
	cat, err := c.Game.OpenCatalog()
	if err != nil {
		return bionet.SessionConfig{}, nil, fmt.Errorf("load catalog: %w", err)
	}
	store, err := score.Open(ctx, c.Scores)
	if err != nil {
		return bionet.SessionConfig{}, nil, fmt.Errorf("open score store: %w", err)
	}

	sc := bionet.SessionConfig{
		Catalog: cat,
		Seed:    c.Game.Seed,
		Scores:  store,
		Endless: c.Game.Endless,
	}
	if c.Logging.Events && logger != nil {
		sc.Events = logger.Named("game")
	}
	return sc, store, nil
}

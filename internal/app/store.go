package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/inmemorystore"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/sqlitestore"
)

// openStore opens the configured result store, instrumented with the app's
// metrics. The returned function releases it.
func (a *App) openStore(ctx context.Context) (resultstore.Manager, func() error, error) {
	logger := ctxlog.FromContext(ctx)

	switch a.config.Store {
	case StoreSQLite:
		precision, err := sqlitestore.ParsePrecision(a.config.StorePrecision)
		if err != nil {
			return nil, nil, err
		}
		s, err := sqlitestore.Open(ctx, a.config.StorePath, sqlitestore.WithPrecision(precision))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open result store: %w", err)
		}
		logger.Info("Result store opened.", "store", StoreSQLite, "path", s.Path(), "precision", precision)
		return a.metrics.InstrumentStore(s), s.Close, nil
	default:
		logger.Debug("Result store opened.", "store", StoreMemory)
		return a.metrics.InstrumentStore(inmemorystore.New()), func() error { return nil }, nil
	}
}

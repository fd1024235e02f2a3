package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

func init() {
	adapter.Register(adapter.Backend{
		Name:    "sqlite",
		Dialect: dialect.SQLite,
		New:     func(logger *slog.Logger) adapter.Adapter { return New(logger) },
	})
}

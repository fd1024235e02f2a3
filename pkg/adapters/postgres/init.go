package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

func init() {
	adapter.Register(adapter.Backend{
		Name:    "postgres",
		Dialect: dialect.Postgres,
		New:     func(logger *slog.Logger) adapter.Adapter { return New(logger) },
	})
}

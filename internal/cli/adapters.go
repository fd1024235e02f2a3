package cli

// Adapters available to configured targets.
import (
	_ "github.com/leapstack-labs/datecol/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/datecol/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/datecol/pkg/adapters/sqlite"
)

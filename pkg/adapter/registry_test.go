package adapter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

type fakeAdapter struct {
	BaseSQLAdapter
	dialect *dialect.Dialect
}

func (f *fakeAdapter) Connect(context.Context, Config) error { return nil }
func (f *fakeAdapter) Dialect() *dialect.Dialect           { return f.dialect }

func registerFake(name string, registered, reported *dialect.Dialect) {
	Register(Backend{
		Name:    name,
		Dialect: registered,
		New:     func(_ *slog.Logger) Adapter { return &fakeAdapter{dialect: reported} },
	})
}

func TestUnknownAdapterError_Error(t *testing.T) {
	registerFake("test_textdb", dialect.SQLite, dialect.SQLite)
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"test_textdb", "not_registered"},
	}

	msg := err.Error()
	assert.Contains(t, msg, `"fake_db"`)
	assert.Contains(t, msg, "test_textdb (sqlite-like)")
	assert.Contains(t, msg, " not_registered")
	assert.Contains(t, msg, "datecol.yaml")
}

func TestRegister_Lookup(t *testing.T) {
	registerFake("Test_Native", dialect.Postgres, dialect.Postgres)

	b, ok := Lookup("test_native")
	require.True(t, ok)
	assert.Equal(t, "test_native", b.Name, "names are stored lowercase")
	assert.Equal(t, dialect.Standard, b.Mode())

	_, ok = Lookup("TEST_NATIVE")
	assert.True(t, ok, "lookup ignores case")

	assert.Panics(t, func() { Register(Backend{Name: "test_incomplete"}) })
}

func TestBackendsByMode(t *testing.T) {
	registerFake("test_mode_text", dialect.SQLite, dialect.SQLite)
	registerFake("test_mode_native", dialect.DuckDB, dialect.DuckDB)

	names := func(bs []Backend) []string {
		var out []string
		for _, b := range bs {
			out = append(out, b.Name)
		}
		return out
	}

	sqliteLike := names(BackendsByMode(dialect.SQLiteLike))
	assert.Contains(t, sqliteLike, "test_mode_text")
	assert.NotContains(t, sqliteLike, "test_mode_native")

	standard := names(BackendsByMode(dialect.Standard))
	assert.Contains(t, standard, "test_mode_native")
	assert.NotContains(t, standard, "test_mode_text")
}

func TestNewAdapter(t *testing.T) {
	registerFake("test_consistent", dialect.DuckDB, dialect.DuckDB)
	registerFake("test_mismatch", dialect.SQLite, dialect.Postgres)

	a, err := NewAdapter(Config{Type: "TEST_CONSISTENT"}, nil)
	require.NoError(t, err)
	assert.Same(t, dialect.DuckDB, a.Dialect())

	_, err = NewAdapter(Config{Type: "test_mismatch"}, nil)
	assert.ErrorContains(t, err, "reports dialect postgres, registered with sqlite")
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}

func TestNewAdapter_Unknown(t *testing.T) {
	_, err := NewAdapter(Config{Type: "oracle"}, nil)
	require.Error(t, err)

	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
	assert.Equal(t, ListAdapters(), unknown.Available)
}

func TestListAdapters_Sorted(t *testing.T) {
	registerFake("zz_test_adapter", dialect.SQLite, dialect.SQLite)
	registerFake("aa_test_adapter", dialect.SQLite, dialect.SQLite)

	names := ListAdapters()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "aa_test_adapter")
	assert.Contains(t, names, "zz_test_adapter")
}

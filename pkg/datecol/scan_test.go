package datecol

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

func TestValue_Scan(t *testing.T) {
	tests := []struct {
		name        string
		codec       Codec
		src         any
		wantValid   bool
		wantDecoded bool
		wantRaw     string
		want        datetime.DateTime
		wantErr     error
	}{
		{
			name:  "null",
			codec: codecFor(KindDateTime, dialect.Standard),
			src:   nil,
		},
		{
			name:        "timestamp",
			codec:       codecFor(KindDateTime, dialect.Standard),
			src:         time.Date(2024, time.March, 15, 8, 30, 0, 0, time.UTC),
			wantValid:   true,
			wantDecoded: true,
			want:        datetime.Of(2024, time.March, 15, 10, 30, 0, 0, testZone),
		},
		{
			name:        "sqlite text",
			codec:       codecFor(KindDate, dialect.SQLiteLike),
			src:         []byte("2024-03-15"),
			wantValid:   true,
			wantDecoded: true,
			want:        datetime.Of(2024, time.March, 15, 0, 0, 0, 0, testZone),
		},
		{
			name:      "standard text kept raw",
			codec:     codecFor(KindDate, dialect.Standard),
			src:       "2024-03-15",
			wantValid: true,
			wantRaw:   "2024-03-15",
		},
		{
			name:      "standard empty text kept raw",
			codec:     codecFor(KindDateTime, dialect.Standard),
			src:       "",
			wantValid: true,
		},
		{
			name:    "bad sqlite text",
			codec:   codecFor(KindDate, dialect.SQLiteLike),
			src:     "15/03/2024",
			wantErr: ErrUnparsableLiteral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValue(tt.codec)
			err := v.Scan(tt.src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, v.Valid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, v.Valid)
			assert.Equal(t, tt.wantDecoded, v.Decoded())
			assert.Equal(t, tt.wantRaw, v.Raw)
			assert.Equal(t, tt.wantValid && !tt.wantDecoded, v.Undecoded)
			if tt.wantDecoded {
				assert.True(t, tt.want.Equal(v.DateTime), "want %s, got %s", tt.want, v.DateTime)
			}
		})
	}
}

func TestValue_ScanResets(t *testing.T) {
	v := NewValue(codecFor(KindDate, dialect.Standard))
	require.NoError(t, v.Scan("2024-03-15"))
	require.NoError(t, v.Scan(nil))
	assert.False(t, v.Valid)
	assert.Empty(t, v.Raw)
	assert.False(t, v.Undecoded)
}

func TestValue_Value(t *testing.T) {
	dt := datetime.Of(2024, time.March, 15, 10, 30, 0, 123456789, testZone)

	got, err := Value{Codec: codecFor(KindDateTime, dialect.Standard)}.Value()
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Value{Codec: codecFor(KindDateTime, dialect.Standard), DateTime: dt, Valid: true}.Value()
	require.NoError(t, err)
	ts, ok := got.(time.Time)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, dt.Millis(), ts.UnixMilli())

	got, err = Value{Codec: codecFor(KindDate, dialect.Standard), Raw: "2024-03-15", Undecoded: true, Valid: true}.Value()
	require.NoError(t, err)
	assert.Equal(t, driver.Value("2024-03-15"), got)

	got, err = Value{Codec: codecFor(KindDateTime, dialect.Standard), Undecoded: true, Valid: true}.Value()
	require.NoError(t, err)
	assert.Equal(t, driver.Value(""), got)
}

func TestValue_WithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	dt := datetime.Of(2024, time.March, 15, 10, 30, 0, 0, testZone)
	c := codecFor(KindDateTime, dialect.Standard)

	mock.ExpectExec("INSERT INTO events").
		WithArgs(instantArg{dt.Millis()}).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT at FROM events").
		WillReturnRows(sqlmock.NewRows([]string{"at"}).AddRow(dt.Time().UTC()))

	_, err = db.Exec("INSERT INTO events (at) VALUES (?)", Value{Codec: c, DateTime: dt, Valid: true})
	require.NoError(t, err)

	out := NewValue(c)
	require.NoError(t, db.QueryRow("SELECT at FROM events").Scan(out))
	assert.True(t, out.Decoded())
	assert.True(t, dt.Equal(out.DateTime))
	assert.Equal(t, testZone, out.DateTime.Zone())
	assert.NoError(t, mock.ExpectationsWereMet())
}

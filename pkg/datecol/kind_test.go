package datecol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"date", KindDate, false},
		{"DATE", KindDate, false},
		{" datetime ", KindDateTime, false},
		{"timestamp", KindDateTime, false},
		{"time", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Text(t *testing.T) {
	assert.Equal(t, "date", KindDate.String())
	assert.Equal(t, "datetime", KindDateTime.String())
	assert.Equal(t, "unknown", Kind(7).String())

	b, err := KindDateTime.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "datetime", string(b))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("Timestamp")))
	assert.Equal(t, KindDateTime, k)
	assert.Error(t, k.UnmarshalText([]byte("week")))
}

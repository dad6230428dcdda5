package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValid(t *testing.T) {
	raw := []byte(`{"type":"height","height":130,"timestamp":1712345678901}`)

	m, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeHeight, m.Type)
	assert.Equal(t, 130.0, m.Height)
	assert.Equal(t, int64(1712345678901), m.Timestamp)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "not json",
			raw:     `height:130`,
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong type",
			raw:     `{"type":"scroll","height":130,"timestamp":1}`,
			wantErr: ErrWrongType,
		},
		{
			name:    "missing height",
			raw:     `{"type":"height","timestamp":1}`,
			wantErr: ErrNonPositive,
		},
		{
			name:    "zero height",
			raw:     `{"type":"height","height":0,"timestamp":1}`,
			wantErr: ErrNonPositive,
		},
		{
			name:    "negative height",
			raw:     `{"type":"height","height":-20,"timestamp":1}`,
			wantErr: ErrNonPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := NewHeight(142)

	raw, err := Encode(m)
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

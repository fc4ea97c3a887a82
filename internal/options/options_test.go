package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	data, err := ParseHex(" |0100_96 0264| ")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x96, 0x02, 0x64}, data)
}

func TestParseHexPrefix(t *testing.T) {
	data, err := ParseHex("0x3dDEADbeef")
	require.NoError(t, err)
	require.Equal(t, []byte{0x3D, 0xDE, 0xAD, 0xBE, 0xEF}, data)
}

func TestParseHexEmpty(t *testing.T) {
	data, err := ParseHex("   ")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestParseHexOddLength(t *testing.T) {
	_, err := ParseHex("ABC")
	require.Error(t, err)
	require.Contains(t, err.Error(), "even number")
}

func TestParseHexInvalidDigit(t *testing.T) {
	_, err := ParseHex("0G")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode hex")
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":          FormatJSON,
		"json":      FormatJSON,
		" TEXT ":    FormatText,
		"telemetry": FormatTelemetry,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

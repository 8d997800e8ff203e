package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexEncode(t *testing.T) {
	require.Equal(t, "deadbeef", hexEncode([]byte{0xde, 0xad, 0xbe, 0xef}))
}

func TestDecodeHexAcceptsPrefixedAndBare(t *testing.T) {
	b, err := decodeHex("0xdeadbeef")
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	b, err = decodeHex("deadbeef")
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)
}

func TestDecodeHexRejectsMalformed(t *testing.T) {
	_, err := decodeHex("0xzz")
	require.Error(t, err)
}

func TestDecodeHexSlice(t *testing.T) {
	out, err := decodeHexSlice([]string{"0x01", "0x02"})
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0x01}, {0x02}}, out)
}

func TestDecodeHexSlicePropagatesError(t *testing.T) {
	_, err := decodeHexSlice([]string{"0x01", "nothex"})
	require.Error(t, err)
}

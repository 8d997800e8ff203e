package txbuilder

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// hexEncode renders b as lowercase hex with no 0x prefix.
func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// decodeHex parses a 0x-prefixed or bare hex string, grounded on
// ethereum/utils.go's HexToBeBytes.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed hex %q: %w", s, err)
	}
	return b, nil
}

// decodeHexSlice decodes every element of ss.
func decodeHexSlice(ss []string) ([][]byte, error) {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		b, err := decodeHex(s)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

package txbuilder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/txbuilder"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfigBody = `
eth_chain_id = "1"
cosmos_chain_id = "cosmoshub-4"
tm_rpc_url = "http://localhost:26657"
cosmos_grpc_url = "localhost:9090"
ics26_address = "0xabc"
eth_rpc_url = "http://localhost:8545"
eth_beacon_api_url = "http://localhost:5052"
signer_address = "cosmos1signer"
src_client_id = "client-0"
dst_client_id = "07-tendermint-0"
`

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, validConfigBody)

	cfg, err := txbuilder.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "1", cfg.EthChainID)
	require.Equal(t, "07-tendermint-0", cfg.DstClientID)
	require.False(t, cfg.Debug)
}

func TestLoadConfigMissingFieldFails(t *testing.T) {
	path := writeConfig(t, `eth_chain_id = "1"`)

	_, err := txbuilder.LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	_, err := txbuilder.LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}

func TestValidateRejectsEmptyConfig(t *testing.T) {
	cfg := txbuilder.Config{}
	err := cfg.Validate()
	require.Error(t, err)
}

// Package beaconapi implements the beacon client adapter (spec.md 4.1):
// finality updates, light-client updates, bootstraps and block roots, read
// fresh on every call with no local caching.
package beaconapi

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	eth2client "github.com/attestantio/go-eth2-client"
	"github.com/attestantio/go-eth2-client/api"
	ethttp "github.com/attestantio/go-eth2-client/http"
	"go.uber.org/zap"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// Client is the beacon client adapter. Grounded on
// e2e/interchaintestv8/ethereum/beaconapi.go: a typed go-eth2-client for the
// endpoints it covers (genesis), raw HTTP+JSON for the light-client
// specific endpoints it doesn't.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc

	typed eth2client.Service
	http  *http.Client
	url   string
	log   *zap.Logger
}

// New dials the beacon node's typed API and prepares a raw HTTP client for
// the light-client endpoints. beaconAPIURL must be reachable at construction
// time.
func New(ctx context.Context, beaconAPIURL string, log *zap.Logger) (*Client, error) {
	cctx, cancel := context.WithCancel(ctx)
	typed, err := ethttp.New(cctx, ethttp.WithAddress(beaconAPIURL))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("beaconapi: dial %s: %w", beaconAPIURL, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		ctx:    cctx,
		cancel: cancel,
		typed:  typed,
		http:   &http.Client{Timeout: 30 * time.Second},
		url:    beaconAPIURL,
		log:    log,
	}, nil
}

// Close releases the underlying typed client's context.
func (c *Client) Close() {
	c.cancel()
}

type finalityUpdateResponse struct {
	Data ethtypes.LightClientFinalityUpdate `json:"data"`
}

// FinalityUpdate fetches GET /eth/v1/beacon/light_client/finality_update.
func (c *Client) FinalityUpdate(ctx context.Context) (ethtypes.LightClientFinalityUpdate, error) {
	var resp finalityUpdateResponse
	if err := c.getJSON(ctx, "/eth/v1/beacon/light_client/finality_update", &resp); err != nil {
		return ethtypes.LightClientFinalityUpdate{}, fmt.Errorf("beaconapi: finality_update: %w", err)
	}
	return resp.Data, nil
}

type lightClientUpdateEnvelope struct {
	Data ethtypes.LightClientUpdate `json:"data"`
}

// LightClientUpdates fetches GET /eth/v1/beacon/light_client/updates, in
// beacon-API order (spec.md 4.4 consumes these in order; slots are unique so
// there are no ties to break).
func (c *Client) LightClientUpdates(ctx context.Context, startPeriod, count uint64) ([]ethtypes.LightClientUpdate, error) {
	path := fmt.Sprintf("/eth/v1/beacon/light_client/updates?start_period=%d&count=%d", startPeriod, count)
	var envelopes []lightClientUpdateEnvelope
	if err := c.getJSON(ctx, path, &envelopes); err != nil {
		return nil, fmt.Errorf("beaconapi: light_client_updates(%d,%d): %w", startPeriod, count, err)
	}
	updates := make([]ethtypes.LightClientUpdate, len(envelopes))
	for i, e := range envelopes {
		updates[i] = e.Data
	}
	return updates, nil
}

type bootstrapResponse struct {
	Data struct {
		Header               ethtypes.LightClientHeader `json:"header"`
		CurrentSyncCommittee ethtypes.SyncCommittee      `json:"current_sync_committee"`
	} `json:"data"`
}

// Bootstrap is the decoded response of GET
// /eth/v1/beacon/light_client/bootstrap/{block_root}.
type Bootstrap struct {
	Header               ethtypes.LightClientHeader
	CurrentSyncCommittee ethtypes.SyncCommittee
}

// Bootstrap fetches the light-client bootstrap at the given 0x-prefixed
// beacon block root.
func (c *Client) Bootstrap(ctx context.Context, blockRoot string) (Bootstrap, error) {
	var resp bootstrapResponse
	if err := c.getJSON(ctx, "/eth/v1/beacon/light_client/bootstrap/"+blockRoot, &resp); err != nil {
		return Bootstrap{}, fmt.Errorf("beaconapi: bootstrap(%s): %w", blockRoot, err)
	}
	return Bootstrap{
		Header:               resp.Data.Header,
		CurrentSyncCommittee: resp.Data.CurrentSyncCommittee,
	}, nil
}

type blockRootResponse struct {
	Data struct {
		Root string `json:"root"`
	} `json:"data"`
}

// BeaconBlockRoot fetches GET /eth/v1/beacon/blocks/{slot}/root and returns
// the 32-byte root. A 404 (pruned slot) is a fatal data-shape error, not a
// retryable one.
func (c *Client) BeaconBlockRoot(ctx context.Context, slot uint64) ([32]byte, error) {
	var resp blockRootResponse
	if err := c.getJSON(ctx, "/eth/v1/beacon/blocks/"+strconv.FormatUint(slot, 10)+"/root", &resp); err != nil {
		return [32]byte{}, fmt.Errorf("beaconapi: beacon_block_root(%d): %w", slot, err)
	}
	root, err := hexToRoot(resp.Data.Root)
	if err != nil {
		return [32]byte{}, fmt.Errorf("beaconapi: beacon_block_root(%d): %w", slot, err)
	}
	return root, nil
}

// GenesisInfo is the subset of the beacon node's genesis details the
// client-state reader needs.
type GenesisInfo struct {
	GenesisTime           time.Time
	GenesisValidatorsRoot [32]byte
}

// Genesis fetches the beacon node's genesis details via the typed client.
func (c *Client) Genesis(ctx context.Context) (GenesisInfo, error) {
	provider, ok := c.typed.(eth2client.GenesisProvider)
	if !ok {
		return GenesisInfo{}, fmt.Errorf("beaconapi: beacon node does not implement GenesisProvider")
	}
	genesis, err := provider.Genesis(ctx, &api.GenesisOpts{})
	if err != nil {
		return GenesisInfo{}, fmt.Errorf("beaconapi: genesis: %w", err)
	}
	return GenesisInfo{
		GenesisTime:           genesis.Data.GenesisTime,
		GenesisValidatorsRoot: genesis.Data.GenesisValidatorsRoot,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("transient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fatal: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("fatal: decoding %s response: %w", path, err)
	}
	return nil
}

func hexToRoot(s string) ([32]byte, error) {
	var root [32]byte
	if len(s) != 66 || s[0] != '0' || s[1] != 'x' {
		return root, fmt.Errorf("malformed root %q", s)
	}
	n, err := hex.Decode(root[:], []byte(s[2:]))
	if err != nil || n != 32 {
		return root, fmt.Errorf("malformed root %q: %w", s, err)
	}
	return root, nil
}

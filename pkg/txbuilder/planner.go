package txbuilder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cosmos/relayer-eth-lightclient/pkg/beaconapi"
	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
	"github.com/cosmos/relayer-eth-lightclient/pkg/executionapi"
)

// UpdatePlanner implements get_update_headers (spec.md 4.4): the sequence of
// Headers needed to advance a trusted Ethereum light client from its current
// slot to the latest beacon finality, one per sync-committee period crossed
// plus a trailing Current-tagged header for newly-finalised slots within the
// still-trusted period. Grounded on the rust original's
// TxBuilder::get_update_headers / get_light_client_updates /
// light_client_update_to_header.
type UpdatePlanner struct {
	Beacon    *beaconapi.Client
	Execution *executionapi.Client
	Log       *zap.Logger

	// Debug enables the same-period assertion on the trailing
	// Current-tagged header (spec.md DESIGN NOTES §9).
	Debug bool
}

// Plan produces the ordered Header sequence for clientState. The result is
// never empty: when no period-crossing update is selected, it still holds
// one Current-tagged header built from the latest finality update.
func (p *UpdatePlanner) Plan(ctx context.Context, clientState ethtypes.ClientState) ([]ethtypes.Header, error) {
	finalityUpdate, err := p.Beacon.FinalityUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: planner: finality_update: %w", err)
	}

	lightClientUpdates, err := p.lightClientUpdates(ctx, clientState, finalityUpdate)
	if err != nil {
		return nil, err
	}

	var headers []ethtypes.Header
	latestTrustedSlot := clientState.LatestSlot
	latestPeriod := clientState.ComputeSyncCommitteePeriodAtSlot(latestTrustedSlot)

	for _, update := range lightClientUpdates {
		finalizedSlot := update.FinalizedHeader.Beacon.Slot
		if finalizedSlot <= latestTrustedSlot {
			continue
		}

		updatePeriod := clientState.ComputeSyncCommitteePeriodAtSlot(finalizedSlot)
		if updatePeriod == latestPeriod {
			continue
		}

		nextCommittee, err := p.syncCommitteeForFinalizedSlot(ctx, finalizedSlot)
		if err != nil {
			return nil, err
		}

		header, err := p.headerFromUpdate(ctx, clientState, ethtypes.NextSyncCommitteeVariant(nextCommittee), update)
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
		latestPeriod = updatePeriod
		latestTrustedSlot = finalizedSlot
	}

	needsTrailingHeader := len(headers) == 0 ||
		headers[len(headers)-1].FinalizedSlot() < finalityUpdate.FinalizedHeader.Beacon.Slot
	if needsTrailingHeader {
		committee, err := p.syncCommitteeForFinalizedSlot(ctx, finalityUpdate.AttestedHeader.Beacon.Slot)
		if err != nil {
			return nil, err
		}

		if p.Debug {
			attestedPeriod := clientState.ComputeSyncCommitteePeriodAtSlot(finalityUpdate.AttestedHeader.Beacon.Slot)
			finalizedPeriod := clientState.ComputeSyncCommitteePeriodAtSlot(finalityUpdate.FinalizedHeader.Beacon.Slot)
			if attestedPeriod != finalizedPeriod {
				return nil, fmt.Errorf("txbuilder: planner: attested slot %d (period %d) and finalized slot %d (period %d) disagree on period",
					finalityUpdate.AttestedHeader.Beacon.Slot, attestedPeriod,
					finalityUpdate.FinalizedHeader.Beacon.Slot, finalizedPeriod)
			}
		}

		header, err := p.headerFromUpdate(ctx, clientState, ethtypes.CurrentSyncCommittee(committee), finalityUpdate.AsLightClientUpdate())
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
	}

	return headers, nil
}

func (p *UpdatePlanner) lightClientUpdates(ctx context.Context, clientState ethtypes.ClientState, finalityUpdate ethtypes.LightClientFinalityUpdate) ([]ethtypes.LightClientUpdate, error) {
	trustedPeriod := clientState.ComputeSyncCommitteePeriodAtSlot(clientState.LatestSlot)
	targetPeriod := clientState.ComputeSyncCommitteePeriodAtSlot(finalityUpdate.FinalizedHeader.Beacon.Slot)

	count := uint64(1)
	if targetPeriod >= trustedPeriod {
		count = targetPeriod - trustedPeriod + 1
	}

	p.Log.Debug("fetching light client updates",
		zap.Uint64("trusted_period", trustedPeriod),
		zap.Uint64("count", count))

	updates, err := p.Beacon.LightClientUpdates(ctx, trustedPeriod, count)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: planner: light_client_updates(%d,%d): %w", trustedPeriod, count, err)
	}
	return updates, nil
}

func (p *UpdatePlanner) syncCommitteeForFinalizedSlot(ctx context.Context, slot uint64) (ethtypes.SyncCommittee, error) {
	blockRoot, err := p.Beacon.BeaconBlockRoot(ctx, slot)
	if err != nil {
		return ethtypes.SyncCommittee{}, fmt.Errorf("txbuilder: planner: beacon_block_root(%d): %w", slot, err)
	}
	bootstrap, err := p.Beacon.Bootstrap(ctx, "0x"+hexEncode(blockRoot[:]))
	if err != nil {
		return ethtypes.SyncCommittee{}, fmt.Errorf("txbuilder: planner: bootstrap(%d): %w", slot, err)
	}
	return bootstrap.CurrentSyncCommittee, nil
}

func (p *UpdatePlanner) headerFromUpdate(ctx context.Context, clientState ethtypes.ClientState, committee ethtypes.ActiveSyncCommittee, update ethtypes.LightClientUpdate) (ethtypes.Header, error) {
	blockNumber := update.FinalizedHeader.Execution.BlockNumber
	contractAddress := "0x" + hexEncode(clientState.IbcContractAddress[:])

	p.Log.Debug("fetching account proof for header", zap.Uint64("block_number", blockNumber))
	proof, err := p.Execution.GetProof(ctx, contractAddress, nil, blockNumber)
	if err != nil {
		return ethtypes.Header{}, fmt.Errorf("txbuilder: planner: account proof at block %d: %w", blockNumber, err)
	}

	accountProof, err := decodeHexSlice(proof.AccountProof)
	if err != nil {
		return ethtypes.Header{}, fmt.Errorf("txbuilder: planner: decoding account proof: %w", err)
	}
	storageRoot, err := decodeHex(proof.StorageHash)
	if err != nil {
		return ethtypes.Header{}, fmt.Errorf("txbuilder: planner: decoding storage hash: %w", err)
	}

	return ethtypes.Header{
		ActiveSyncCommittee: committee,
		ConsensusUpdate:     update,
		AccountUpdate: ethtypes.AccountUpdate{
			AccountProof: ethtypes.AccountProof{Proof: accountProof, StorageRoot: storageRoot},
			StorageRoot:  storageRoot,
		},
	}, nil
}

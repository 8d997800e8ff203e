// Package txbuilder implements the Ethereum→Cosmos transaction builder
// (spec.md §4.4-4.7): the update planner, proof assembler, readiness
// waiter, message batcher and their composition into relay_events.
package txbuilder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	wasmtypes "github.com/cosmos/ibc-go/modules/light-clients/08-wasm/v11/types"
	"github.com/cosmos/gogoproto/proto"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/codec/types"
	"go.uber.org/zap"

	"github.com/cosmos/relayer-eth-lightclient/pkg/beaconapi"
	"github.com/cosmos/relayer-eth-lightclient/pkg/cosmosquery"
	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
	"github.com/cosmos/relayer-eth-lightclient/pkg/executionapi"
	"github.com/cosmos/relayer-eth-lightclient/pkg/waitutil"
)

const (
	readinessTimeout  = 45 * time.Minute
	readinessInterval = 10 * time.Second

	postAssemblyTimeout  = 15 * time.Minute
	postAssemblyInterval = 10 * time.Second
)

// TxBuilder assembles IBC-Eureka transactions from Ethereum events, the
// trusted Ethereum client state on the destination Cosmos chain, and fresh
// beacon/execution data. Grounded on the rust original's TxBuilder<P>.
type TxBuilder struct {
	Execution *executionapi.Client
	Beacon    *beaconapi.Client
	Cosmos    *cosmosquery.Client

	SrcClientID   string
	DstClientID   string
	SignerAddress string

	Clock waitutil.Clock
	Log   *zap.Logger

	// Debug is forwarded to UpdatePlanner.
	Debug bool
}

func (b *TxBuilder) clock() waitutil.Clock {
	if b.Clock != nil {
		return b.Clock
	}
	return waitutil.RealClock{}
}

// RelayEvents implements the message batcher's entry point (spec.md 4.7): a
// strictly sequential 9-step pipeline producing an encoded TxBody.
func (b *TxBuilder) RelayEvents(
	ctx context.Context,
	srcEvents, destEvents []ethtypes.EurekaEvent,
	srcPacketSeqs, dstPacketSeqs []uint64,
) ([]byte, error) {
	// Step 1: minimum_block_number.
	latestBlockNumber, err := b.Execution.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: latest_block_number: %w", err)
	}
	minimumBlockNumber := latestBlockNumber
	if len(destEvents) == 0 {
		if max, ok := maxEventBlockNumber(srcEvents); ok {
			minimumBlockNumber = max
		}
	}

	targetHeight := clienttypes.Height{RevisionNumber: 0, RevisionHeight: minimumBlockNumber}

	// Step 2/3: build timeout/recv/ack messages (proofs attached later).
	timeoutMsgs := eventsToTimeoutMsgs(destEvents, dstPacketSeqs, targetHeight, b.SignerAddress)
	recvMsgs, ackMsgs := eventsToRecvAndAckMsgs(srcEvents, srcPacketSeqs, dstPacketSeqs, targetHeight, b.SignerAddress)

	// Step 4: load client state, plan updates if the client is behind.
	clientStateResult, err := b.Cosmos.ClientState(ctx, b.DstClientID)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: client_state: %w", err)
	}
	clientState := clientStateResult.Inner

	b.Log.Info("relaying events",
		zap.String("dst_client_id", b.DstClientID),
		zap.Uint64("target_block_number", minimumBlockNumber),
		zap.Uint64("client_latest_slot", clientState.LatestSlot))

	var headers []ethtypes.Header
	if minimumBlockNumber > clientState.LatestExecutionBlockNumber {
		if err := b.waitForLightClientReadiness(ctx, minimumBlockNumber); err != nil {
			return nil, fmt.Errorf("txbuilder: relay_events: readiness wait: %w", err)
		}

		clientStateResult, err = b.Cosmos.ClientState(ctx, b.DstClientID)
		if err != nil {
			return nil, fmt.Errorf("txbuilder: relay_events: re-reading client_state: %w", err)
		}
		clientState = clientStateResult.Inner

		planner := &UpdatePlanner{Beacon: b.Beacon, Execution: b.Execution, Log: b.Log, Debug: b.Debug}
		headers, err = planner.Plan(ctx, clientState)
		if err != nil {
			return nil, fmt.Errorf("txbuilder: relay_events: planning updates: %w", err)
		}
	}

	// Step 5: proof_slot.
	proofSlot := clientState.LatestSlot
	if len(headers) > 0 {
		proofSlot = headers[len(headers)-1].FinalizedSlot()
	}

	// Step 6: per-message proofs, pinned to proof_slot's execution block.
	proofExecutionBlockNumber, err := b.executionBlockNumberAtSlot(ctx, clientState, headers, proofSlot)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: resolving proof execution block: %w", err)
	}

	assembler := &ProofAssembler{Execution: b.Execution, Log: b.Log}
	contractAddress := "0x" + hexEncode(clientState.IbcContractAddress[:])
	if err := assembler.InjectProofs(ctx, recvMsgs, ackMsgs, timeoutMsgs, contractAddress, clientState.IbcCommitmentSlot, proofExecutionBlockNumber); err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: injecting proofs: %w", err)
	}
	// The verifier looks proofs up by the slot of a stored consensus state.
	proofHeight := clienttypes.NewHeight(0, proofSlot)
	for _, m := range recvMsgs {
		m.ProofHeight = proofHeight
	}
	for _, m := range ackMsgs {
		m.ProofHeight = proofHeight
	}
	for _, m := range timeoutMsgs {
		m.ProofHeight = proofHeight
	}

	// Step 7: wrap headers as MsgUpdateClient.
	updateAnys, err := headersToUpdateMsgAnys(headers, b.DstClientID, b.SignerAddress)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: encoding update messages: %w", err)
	}

	// Step 8: post-assembly wait.
	var latestSignatureSlot *uint64
	if len(headers) > 0 {
		s := headers[len(headers)-1].SignatureSlot()
		latestSignatureSlot = &s
	}
	if err := b.waitForDestinationCatchUp(ctx, clientState, latestSignatureSlot); err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: post-assembly wait: %w", err)
	}

	// Step 9: concatenate updates ∥ timeouts ∥ recvs ∥ acks and encode.
	allAnys := updateAnys
	for _, m := range timeoutMsgs {
		any, err := packAny(m)
		if err != nil {
			return nil, err
		}
		allAnys = append(allAnys, any)
	}
	for _, m := range recvMsgs {
		any, err := packAny(m)
		if err != nil {
			return nil, err
		}
		allAnys = append(allAnys, any)
	}
	for _, m := range ackMsgs {
		any, err := packAny(m)
		if err != nil {
			return nil, err
		}
		allAnys = append(allAnys, any)
	}

	txBody := &txtypes.TxBody{Messages: allAnys}
	bz, err := proto.Marshal(txBody)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: relay_events: encoding tx body: %w", err)
	}

	b.Log.Info("relay cycle complete",
		zap.Int("recv_msgs", len(recvMsgs)),
		zap.Int("ack_msgs", len(ackMsgs)),
		zap.Int("timeout_msgs", len(timeoutMsgs)),
		zap.Int("headers", len(headers)))

	return bz, nil
}

func (b *TxBuilder) waitForLightClientReadiness(ctx context.Context, targetBlockNumber uint64) error {
	return waitutil.Poll(ctx, b.clock(), readinessTimeout, readinessInterval, func(ctx context.Context) (bool, error) {
		finalityUpdate, err := b.Beacon.FinalityUpdate(ctx)
		if err != nil {
			return false, err
		}
		current := finalityUpdate.FinalizedHeader.Execution.BlockNumber
		if current < targetBlockNumber {
			b.Log.Info("waiting for finality",
				zap.Uint64("current_execution_block_number", current),
				zap.Uint64("target_execution_block_number", targetBlockNumber))
			return false, nil
		}
		return true, nil
	})
}

func (b *TxBuilder) waitForDestinationCatchUp(ctx context.Context, clientState ethtypes.ClientState, latestSignatureSlot *uint64) error {
	if latestSignatureSlot == nil {
		return nil
	}
	return waitutil.Poll(ctx, b.clock(), postAssemblyTimeout, postAssemblyInterval, func(ctx context.Context) (bool, error) {
		blockTime, err := b.Cosmos.LatestBlockTime(ctx)
		if err != nil {
			return false, err
		}
		calculatedSlot, ok := clientState.ComputeSlotAtTimestamp(uint64(blockTime))
		if !ok {
			return false, fmt.Errorf("destination block time %d predates genesis", blockTime)
		}
		return calculatedSlot > *latestSignatureSlot, nil
	})
}

// executionBlockNumberAtSlot resolves the execution block number the
// proof_slot's account proof should be pinned to: the last header already
// carries it, otherwise it is the client state's
// latest_execution_block_number.
func (b *TxBuilder) executionBlockNumberAtSlot(ctx context.Context, clientState ethtypes.ClientState, headers []ethtypes.Header, proofSlot uint64) (uint64, error) {
	if len(headers) > 0 {
		return headers[len(headers)-1].ConsensusUpdate.FinalizedHeader.Execution.BlockNumber, nil
	}
	if proofSlot == clientState.LatestSlot {
		return clientState.LatestExecutionBlockNumber, nil
	}
	return 0, fmt.Errorf("proof slot %d has no known execution block number", proofSlot)
}

func maxEventBlockNumber(events []ethtypes.EurekaEvent) (uint64, bool) {
	var max uint64
	found := false
	for _, e := range events {
		if e.BlockNumber == nil {
			continue
		}
		if !found || *e.BlockNumber > max {
			max = *e.BlockNumber
			found = true
		}
	}
	return max, found
}

func headersToUpdateMsgAnys(headers []ethtypes.Header, clientID, signer string) ([]*types.Any, error) {
	anys := make([]*types.Any, 0, len(headers))
	for _, header := range headers {
		headerBz, err := json.Marshal(header)
		if err != nil {
			return nil, fmt.Errorf("encoding header: %w", err)
		}
		clientMessage := &wasmtypes.ClientMessage{Data: headerBz}
		clientMessageAny, err := clienttypes.PackClientMessage(clientMessage)
		if err != nil {
			return nil, fmt.Errorf("packing client message: %w", err)
		}
		msg := &clienttypes.MsgUpdateClient{
			ClientId:      clientID,
			ClientMessage: clientMessageAny,
			Signer:        signer,
		}
		any, err := packAny(msg)
		if err != nil {
			return nil, err
		}
		anys = append(anys, any)
	}
	return anys, nil
}

func packAny(msg proto.Message) (*types.Any, error) {
	any, err := types.NewAnyWithValue(msg)
	if err != nil {
		return nil, fmt.Errorf("packing %T: %w", msg, err)
	}
	return any, nil
}

package txbuilder

import (
	"context"
	"encoding/json"
	"fmt"

	channeltypesv2 "github.com/cosmos/ibc-go/v11/modules/core/04-channel/v2/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
	"github.com/cosmos/relayer-eth-lightclient/pkg/executionapi"
)

// commitmentStorageKey derives the Ethereum storage slot a packet-lifecycle
// commitment lives at, keccak256(keccak256(path) . ibc_commitment_slot),
// grounded on ethereum/utils.go's GetCommitmentsStorageKey.
func commitmentStorageKey(path string, ibcCommitmentSlot [32]byte) ethcommon.Hash {
	pathHash := crypto.Keccak256([]byte(path))
	paddedSlot := ethcommon.LeftPadBytes(ibcCommitmentSlot[:], 32)
	return crypto.Keccak256Hash(pathHash, paddedSlot)
}

func commitmentPath(kind, channelID string, sequence uint64) string {
	return fmt.Sprintf("%s/channels/%s/sequences/%d", kind, channelID, sequence)
}

// ProofAssembler attaches per-message storage proofs to recv/ack/timeout
// messages, all pinned to a single proof_slot (spec.md 4.5). Grounded on the
// rust original's cosmos::inject_ethereum_proofs and on
// ibc_eureka_test.go's getCommitmentProof helper.
type ProofAssembler struct {
	Execution *executionapi.Client
	Log       *zap.Logger
}

// InjectProofs fetches and attaches storage proofs for every recv, ack and
// timeout message, all taken at executionBlockNumber. It does not change
// the messages' ProofHeight.
func (a *ProofAssembler) InjectProofs(
	ctx context.Context,
	recvMsgs []*channeltypesv2.MsgRecvPacket,
	ackMsgs []*channeltypesv2.MsgAcknowledgement,
	timeoutMsgs []*channeltypesv2.MsgTimeout,
	ibcContractAddress string,
	ibcCommitmentSlot [32]byte,
	executionBlockNumber uint64,
) error {
	for _, msg := range recvMsgs {
		path := commitmentPath("commitments", msg.Packet.SourceChannel, msg.Packet.Sequence)
		proof, err := a.proofAt(ctx, ibcContractAddress, path, ibcCommitmentSlot, executionBlockNumber)
		if err != nil {
			return fmt.Errorf("txbuilder: proof assembler: recv seq %d: %w", msg.Packet.Sequence, err)
		}
		msg.ProofCommitment = proof
	}

	for _, msg := range ackMsgs {
		path := commitmentPath("acks", msg.Packet.DestinationChannel, msg.Packet.Sequence)
		proof, err := a.proofAt(ctx, ibcContractAddress, path, ibcCommitmentSlot, executionBlockNumber)
		if err != nil {
			return fmt.Errorf("txbuilder: proof assembler: ack seq %d: %w", msg.Packet.Sequence, err)
		}
		msg.ProofAcked = proof
	}

	for _, msg := range timeoutMsgs {
		path := commitmentPath("receipts", msg.Packet.DestinationChannel, msg.Packet.Sequence)
		proof, err := a.proofAt(ctx, ibcContractAddress, path, ibcCommitmentSlot, executionBlockNumber)
		if err != nil {
			return fmt.Errorf("txbuilder: proof assembler: timeout seq %d: %w", msg.Packet.Sequence, err)
		}
		msg.ProofUnreceived = proof
	}

	return nil
}

func (a *ProofAssembler) proofAt(ctx context.Context, contractAddress, path string, ibcCommitmentSlot [32]byte, blockNumber uint64) ([]byte, error) {
	storageKey := commitmentStorageKey(path, ibcCommitmentSlot)

	resp, err := a.Execution.GetProof(ctx, contractAddress, []string{storageKey.Hex()}, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("eth_getProof(%s): %w", path, err)
	}
	if len(resp.StorageProof) != 1 {
		return nil, fmt.Errorf("eth_getProof(%s): expected 1 storage proof, got %d", path, len(resp.StorageProof))
	}

	proof, err := decodeHexSlice(resp.StorageProof[0].Proof)
	if err != nil {
		return nil, fmt.Errorf("decoding storage proof for %s: %w", path, err)
	}
	key, err := decodeHex(resp.StorageProof[0].Key)
	if err != nil {
		return nil, fmt.Errorf("decoding storage key for %s: %w", path, err)
	}
	value, err := decodeHex(resp.StorageProof[0].Value)
	if err != nil {
		return nil, fmt.Errorf("decoding storage value for %s: %w", path, err)
	}

	// The verifier decodes this blob as a canonical JSON ethtypes.StorageProof
	// (spec.md §6: "serialization of all messages is a canonical JSON
	// shape; binary fields are base64").
	return json.Marshal(ethtypes.StorageProof{Key: key, Value: value, Proof: proof})
}

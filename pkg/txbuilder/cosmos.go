package txbuilder

import (
	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	channeltypesv2 "github.com/cosmos/ibc-go/v11/modules/core/04-channel/v2/types"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// toChannelPacket converts the wire Packet (spec.md §3) into the IBC-Eureka
// channel/v2 packet shape, whose "channel" identifiers are the client ids
// on either side.
func toChannelPacket(p ethtypes.Packet) channeltypesv2.Packet {
	return channeltypesv2.Packet{
		Sequence:           p.Sequence,
		SourceChannel:      p.SourceClient,
		DestinationChannel: p.DestClient,
		TimeoutTimestamp:   p.TimeoutTimestamp,
		Payloads: []channeltypesv2.Payload{
			{Value: p.Payload},
		},
	}
}

// eventsToTimeoutMsgs builds one MsgTimeout per timeout event whose sequence
// is in dstPacketSeqs. The packet, including its client ids, is copied from
// the event unchanged.
func eventsToTimeoutMsgs(events []ethtypes.EurekaEvent, dstPacketSeqs []uint64, proofHeight clienttypes.Height, signer string) []*channeltypesv2.MsgTimeout {
	wanted := toSet(dstPacketSeqs)

	var msgs []*channeltypesv2.MsgTimeout
	for _, e := range events {
		if e.Kind != ethtypes.EventTimeoutPacket {
			continue
		}
		if !wanted[e.Packet.Sequence] {
			continue
		}
		msgs = append(msgs, &channeltypesv2.MsgTimeout{
			Packet:          toChannelPacket(e.Packet),
			ProofHeight:     proofHeight,
			ProofUnreceived: nil, // filled by ProofAssembler.InjectProofs
			Signer:          signer,
		})
	}
	return msgs
}

// eventsToRecvAndAckMsgs builds MsgRecvPacket/MsgAcknowledgement pairs from
// source-side events whose sequence appears in both srcPacketSeqs and
// dstPacketSeqs (spec.md 4.7.3).
func eventsToRecvAndAckMsgs(events []ethtypes.EurekaEvent, srcPacketSeqs, dstPacketSeqs []uint64, proofHeight clienttypes.Height, signer string) ([]*channeltypesv2.MsgRecvPacket, []*channeltypesv2.MsgAcknowledgement) {
	srcWanted := toSet(srcPacketSeqs)
	dstWanted := toSet(dstPacketSeqs)

	var recvMsgs []*channeltypesv2.MsgRecvPacket
	var ackMsgs []*channeltypesv2.MsgAcknowledgement

	for _, e := range events {
		if !srcWanted[e.Packet.Sequence] || !dstWanted[e.Packet.Sequence] {
			continue
		}
		switch e.Kind {
		case ethtypes.EventSendPacket:
			recvMsgs = append(recvMsgs, &channeltypesv2.MsgRecvPacket{
				Packet:          toChannelPacket(e.Packet),
				ProofHeight:     proofHeight,
				ProofCommitment: nil, // filled by ProofAssembler.InjectProofs
				Signer:          signer,
			})
		case ethtypes.EventWriteAcknowledgement:
			ackMsgs = append(ackMsgs, &channeltypesv2.MsgAcknowledgement{
				Packet: toChannelPacket(e.Packet),
				Acknowledgement: channeltypesv2.Acknowledgement{
					AppAcknowledgements: [][]byte{e.Ack},
				},
				ProofHeight: proofHeight,
				ProofAcked:  nil, // filled by ProofAssembler.InjectProofs
				Signer:      signer,
			})
		}
	}
	return recvMsgs, ackMsgs
}

func toSet(seqs []uint64) map[uint64]bool {
	set := make(map[uint64]bool, len(seqs))
	for _, s := range seqs {
		set[s] = true
	}
	return set
}

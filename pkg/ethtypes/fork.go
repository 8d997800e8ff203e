// Package ethtypes holds the Ethereum sync-committee light-client data model
// shared by the beacon/execution adapters, the transaction builder and the
// on-chain verifier: client and consensus state, light-client updates and
// headers, and the account/storage proofs that pin them to an execution
// block.
package ethtypes

// Fork identifies a single hard fork's activation version and epoch.
type Fork struct {
	Version [4]byte `json:"version"`
	Epoch   uint64  `json:"epoch,string"`
}

// ForkParameters carries the genesis fork version plus every named fork's
// activation, mirroring the beacon chain's `/eth/v1/config/spec` response
// shape used to build ethereum/beaconapi.go's Spec.ToForkParameters.
type ForkParameters struct {
	GenesisForkVersion [4]byte `json:"genesis_fork_version"`
	GenesisSlot        uint64  `json:"genesis_slot,string"`
	Altair             Fork    `json:"altair"`
	Bellatrix          Fork    `json:"bellatrix"`
	Capella            Fork    `json:"capella"`
	Deneb              Fork    `json:"deneb"`
	Electra            Fork    `json:"electra"`
}

// ForkVersionAtEpoch returns the activation version of the latest fork whose
// epoch has been reached by the given epoch. Used to compute the signing
// domain for a sync-aggregate signature (spec.md 4.8 verify_client_message
// check (a)).
func (fp ForkParameters) ForkVersionAtEpoch(epoch uint64) [4]byte {
	version := fp.GenesisForkVersion
	for _, f := range []Fork{fp.Altair, fp.Bellatrix, fp.Capella, fp.Deneb, fp.Electra} {
		if epoch >= f.Epoch {
			version = f.Version
		}
	}
	return version
}

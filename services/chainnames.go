package services

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethpandaops/blobscope/dbtypes"
)

// chainNameByAddress maps known rollup batcher addresses to their chain.
// Addresses are lowercased hex with 0x prefix.
var chainNameByAddress = map[string]string{
	// Base
	"0x5050f69a9786f081509234f1a7f4684b5e5b76c9": "Base",
	"0xff00000000000000000000000000000000008453": "Base",

	// Optimism
	"0x6887246668a3b87f54deb3b94ba47a6f63f32985": "Optimism",

	// Arbitrum
	"0xc1b634853cb333d3ad8663715b08f41a3aec47cc": "Arbitrum",
	"0xa4b10ac61e79ea1e150df70b8dda53391928fd14": "Arbitrum",
	"0xa4b1e63cb4901e327597bc35d36fe8a23e4c253f": "Arbitrum",

	// Scroll
	"0xa1e4380a3b1f749673e270229993ee55f35663b4": "Scroll",
	"0xcf2898225ed05be911d3709d9417e86e0b4cfc8f": "Scroll",
	"0x4f250b05262240c787a1ee222687c6ec395c628a": "Scroll",
	"0xb4a04505a487fcf16232d74ebb76429e232b1f21": "Scroll",
	"0x054a47b9e2a22af6c0ce55020238c8fecd7d334b": "Scroll",

	// Starknet
	"0x415c8893d514f9bc5211d36eeda4183226b84aa7": "Starknet",
	"0x2c169dfe5fbba12957bdd0ba47d9cedbfe260ca7": "Starknet",

	// Swell Chain
	"0xeb18ea5dedee42e7af378991dfeb719d21c17b4c": "Swell Chain",

	// Zircuit
	"0xaf1e4f6a47af647f87c0ec814d8032c4a4bff145": "Zircuit",

	// zkSync Era
	"0xa9268341831efa4937537bc3e9eb36dbece83c7e": "zkSync Era",
	"0x3db52ce065f728011ac6732222270b3f2360d919": "zkSync Era",

	// Linea
	"0xd19d4b5d358258f05d7b411e21a1460d11b0876f": "Linea",
	"0xc70ae19b5feaa5c19f576e621d2bad9771864fe2": "Linea",

	// Hemi
	"0x65115c6d23274e0a29a63b69130efe901aa52e7a": "Hemi",

	// Taiko
	"0x77b064f418b27167bd8c6f263a16455e628b56cb": "Taiko",
	"0xfc3756dc89ee98b049c1f2b0c8e69f0649e5c3e3": "Taiko",

	// Abstract
	"0x4b2d036d2c27192549ad5a2f2d9875e1843833de": "Abstract",

	// World
	"0xdbbe3d8c2d2b22a2611c5a94a9a12c2fcd49eb29": "World",

	// Ink
	"0x500d7ea63cf2e501dadaa5feec1fc19fe2aa72ac": "Ink",

	// Blast
	"0x98a986ee08bf67c9cfc4de2aaaff2d7f56c0bc47": "Blast",

	// Zora
	"0x625726c858dbf78c0125436c943bf4b4be9d9033": "Zora",

	// Mode
	"0x99199a22125034c808ff20f377d91187e8050f2e": "Mode",

	// Mantle
	"0xd1328c9167e0693b689b5aa5a024379d4e437858": "Mantle",

	// Metal
	"0xc94c243f8fb37223f3eb77f1e6d55e0f8f9caef4": "Metal",
	"0xc94c243f8fb37223f3eb2f7961f7072602a51b8b": "Metal",

	// Cyber
	"0x3c11c3025ce387d76c2eddf1493ec55a8cc2a0f7": "Cyber",

	// Kroma
	"0x41b8cd6791de4d8f9e0eda9f185ce1898f0b5b3b": "Kroma",

	// Redstone
	"0xa8cd7f4c94eb0f15a5d8f5e9f9b4eb9b2e3eb60d": "Redstone",

	// Fraxtal
	"0x7f9d9c1bce1062e1077845ea39a0303429600a06": "Fraxtal",

	// Mint
	"0xd6c24e78cc77e48c87c246a2e0b7d21ffb7c1c0a": "Mint",

	// Soneium
	"0x6776be80dbada6a02b5f2095cf13734ac303b8d1": "Soneium",

	// Lighter
	"0xfbc0dcd6c3518cb529bc1b585db992a7d40005fa": "Lighter",

	// UniChain
	"0x2f60a5184c63ca94f82a27100643dbabe4f3f7fd": "UniChain",

	// Katana
	"0x1ffda89c755f6d4af069897d77ccabb580fd412a": "Katana",

	// Codex
	"0xb5bd290ef8ef3840cb866c7a8b7cc9e45fde3ab9": "Codex",
}

// UnknownChainName is returned for senders without a known attribution.
const UnknownChainName = "Other"

func ResolveChainName(sender []byte) string {
	addr := strings.ToLower(common.BytesToAddress(sender).Hex())
	if name, ok := chainNameByAddress[addr]; ok {
		return name
	}
	return UnknownChainName
}

// ChainProfile describes the posting behavior of one rollup within a
// time window.
type ChainProfile struct {
	Chain                  string    `json:"chain"`
	TotalTransactions      uint64    `json:"total_transactions"`
	TotalBlobs             uint64    `json:"total_blobs"`
	Percentage             float64   `json:"percentage"`
	AvgBlobsPerTx          float64   `json:"avg_blobs_per_tx"`
	AvgPostingIntervalSecs float64   `json:"avg_posting_interval_secs"`
	HourlyActivity         []float64 `json:"hourly_activity"`
}

// BuildChainProfiles groups blob transactions by attributed chain and
// computes per-chain posting statistics. The hourly activity histogram
// uses UTC hour of day and is normalized to the busiest hour.
func BuildChainProfiles(txs []*dbtypes.BlobTransaction) []*ChainProfile {
	type chainTx struct {
		blobCount uint64
		blockTime uint64
	}
	chainData := map[string][]chainTx{}
	grandTotalBlobs := uint64(0)

	for _, tx := range txs {
		chain := ResolveChainName(tx.Sender)
		chainData[chain] = append(chainData[chain], chainTx{
			blobCount: tx.BlobCount,
			blockTime: tx.BlockTime,
		})
		grandTotalBlobs += tx.BlobCount
	}

	profiles := make([]*ChainProfile, 0, len(chainData))
	for chain, chainTxs := range chainData {
		profile := &ChainProfile{
			Chain:             chain,
			TotalTransactions: uint64(len(chainTxs)),
		}
		for _, tx := range chainTxs {
			profile.TotalBlobs += tx.blobCount
		}
		if profile.TotalTransactions > 0 {
			profile.AvgBlobsPerTx = float64(profile.TotalBlobs) / float64(profile.TotalTransactions)
		}
		if grandTotalBlobs > 0 {
			profile.Percentage = float64(profile.TotalBlobs) / float64(grandTotalBlobs) * 100
		}

		timestamps := make([]uint64, len(chainTxs))
		for i, tx := range chainTxs {
			timestamps[i] = tx.blockTime
		}
		sort.Slice(timestamps, func(a, b int) bool {
			return timestamps[a] < timestamps[b]
		})
		if len(timestamps) > 1 {
			intervalSum := uint64(0)
			for i := 1; i < len(timestamps); i++ {
				intervalSum += timestamps[i] - timestamps[i-1]
			}
			profile.AvgPostingIntervalSecs = float64(intervalSum) / float64(len(timestamps)-1)
		}

		hourlyCounts := [24]uint64{}
		for _, tx := range chainTxs {
			hour := (tx.blockTime % 86400) / 3600
			hourlyCounts[hour]++
		}
		maxCount := uint64(0)
		for _, count := range hourlyCounts {
			if count > maxCount {
				maxCount = count
			}
		}
		profile.HourlyActivity = make([]float64, 24)
		if maxCount > 0 {
			for i, count := range hourlyCounts {
				profile.HourlyActivity[i] = float64(count) / float64(maxCount)
			}
		}

		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(a, b int) bool {
		if profiles[a].TotalBlobs != profiles[b].TotalBlobs {
			return profiles[a].TotalBlobs > profiles[b].TotalBlobs
		}
		return profiles[a].Chain < profiles[b].Chain
	})
	return profiles
}

package services

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/blobscope/dbtypes"
)

func TestResolveChainName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{address: "0x5050f69a9786f081509234f1a7f4684b5e5b76c9", want: "Base"},
		{address: "0x6887246668a3b87f54deb3b94ba47a6f63f32985", want: "Optimism"},
		{address: "0xc1b634853cb333d3ad8663715b08f41a3aec47cc", want: "Arbitrum"},
		{address: "0x3db52ce065f728011ac6732222270b3f2360d919", want: "zkSync Era"},
		{address: "0x1111111111111111111111111111111111111111", want: UnknownChainName},
	}
	for _, tt := range tests {
		got := ResolveChainName(common.HexToAddress(tt.address).Bytes())
		assert.Equal(t, tt.want, got, "ResolveChainName(%v)", tt.address)
	}
}

func TestBuildChainProfiles(t *testing.T) {
	baseSender := common.HexToAddress("0x5050f69a9786f081509234f1a7f4684b5e5b76c9").Bytes()
	otherSender := common.HexToAddress("0x2222222222222222222222222222222222222222").Bytes()

	// Base posts 3 txs with 6 blobs, the unknown sender 1 tx with 2 blobs
	txs := []*dbtypes.BlobTransaction{
		{Sender: baseSender, BlobCount: 2, BlockTime: 1000},
		{Sender: baseSender, BlobCount: 2, BlockTime: 1600},
		{Sender: baseSender, BlobCount: 2, BlockTime: 2200},
		{Sender: otherSender, BlobCount: 2, BlockTime: 1500},
	}

	profiles := BuildChainProfiles(txs)
	require.Len(t, profiles, 2)

	base := profiles[0]
	assert.Equal(t, "Base", base.Chain)
	assert.Equal(t, uint64(3), base.TotalTransactions)
	assert.Equal(t, uint64(6), base.TotalBlobs)
	assert.InDelta(t, 75.0, base.Percentage, 1e-9)
	assert.InDelta(t, 2.0, base.AvgBlobsPerTx, 1e-9)
	assert.InDelta(t, 600.0, base.AvgPostingIntervalSecs, 1e-9)

	other := profiles[1]
	assert.Equal(t, UnknownChainName, other.Chain)
	assert.Equal(t, uint64(1), other.TotalTransactions)
	assert.InDelta(t, 25.0, other.Percentage, 1e-9)
	assert.Equal(t, 0.0, other.AvgPostingIntervalSecs)
}

func TestBuildChainProfilesHourlyActivity(t *testing.T) {
	sender := common.HexToAddress("0x5050f69a9786f081509234f1a7f4684b5e5b76c9").Bytes()

	// two posts in utc hour 0, one in utc hour 5
	txs := []*dbtypes.BlobTransaction{
		{Sender: sender, BlobCount: 1, BlockTime: 60},
		{Sender: sender, BlobCount: 1, BlockTime: 120},
		{Sender: sender, BlobCount: 1, BlockTime: 5*3600 + 60},
	}

	profiles := BuildChainProfiles(txs)
	require.Len(t, profiles, 1)
	require.Len(t, profiles[0].HourlyActivity, 24)

	assert.Equal(t, 1.0, profiles[0].HourlyActivity[0])
	assert.Equal(t, 0.5, profiles[0].HourlyActivity[5])
	assert.Equal(t, 0.0, profiles[0].HourlyActivity[12])
}

func TestBuildChainProfilesEmpty(t *testing.T) {
	profiles := BuildChainProfiles(nil)
	assert.Empty(t, profiles)
}

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalCanonicalize_RejectsBackwardsRange(t *testing.T) {
	_, err := Interval{Chrom: "1", Start: 500, Stop: 100}.Canonicalize()
	require.Error(t, err)
}

func TestEncodeIntervalKey_OrderingMatchesStart(t *testing.T) {
	k1, err := EncodeIntervalKey("1", 1000, "a")
	require.NoError(t, err)
	k2, err := EncodeIntervalKey("1", 5000, "a")
	require.NoError(t, err)
	assert.Less(t, string(k1), string(k2))
}

func TestDecodeIntervalKeyPrefix_RoundTrip(t *testing.T) {
	key, err := EncodeIntervalKey("7", 140753336, "sv001")
	require.NoError(t, err)
	chrom, start, id, err := DecodeIntervalKeyPrefix(key)
	require.NoError(t, err)
	assert.Equal(t, "7", chrom)
	assert.Equal(t, uint32(140753336), start)
	assert.Equal(t, "sv001", id)
}

func TestBinForRange_SameBinForNestedIntervals(t *testing.T) {
	outer := BinForRange(1_000_000, 1_000_100)
	inner := BinForRange(1_000_010, 1_000_020)
	// both intervals lie inside the same finest (128 kb) bin, so they get
	// the same bin number, and it appears among the overlap set for a
	// query spanning the outer range.
	bins := BinsOverlappingRange(1_000_000, 1_000_100)
	assert.Contains(t, bins, outer)
	assert.Equal(t, outer, inner)
}

func TestBinsOverlappingRange_BoundedCount(t *testing.T) {
	// The number of bin prefixes grows with window size but stays modest:
	// a 250 Mb window spans about two thousand bins across the six levels.
	small := BinsOverlappingRange(1, 100)
	large := BinsOverlappingRange(1, 250_000_000)
	assert.Less(t, len(large), len(small)+4096, "large window should not scan an unbounded number of bins")
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(100, 200, 150, 160))
	assert.True(t, Overlaps(100, 200, 200, 300))
	assert.False(t, Overlaps(100, 200, 201, 300))
	assert.False(t, Overlaps(100, 200, 1, 99))
}

func TestEncodeBinKey_PrefixScan(t *testing.T) {
	bin := BinForRange(999, 5999)
	key, err := EncodeBinKey("1", bin, 1000, "rec1")
	require.NoError(t, err)
	prefix, err := EncodeBinPrefix("1", bin)
	require.NoError(t, err)
	assert.Equal(t, string(prefix), string(key[:len(prefix)]))
}

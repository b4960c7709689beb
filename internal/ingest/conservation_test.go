package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
)

func TestParseConservationTSV(t *testing.T) {
	lines := []string{
		"chrom\tpos\tref\tphylo_p\tphast_cons\tquantile_bin",
		"1\t1000\ta\t2.5\t0.9\t15",
	}
	rows, err := ParseConservationTSV(lines)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].Chrom)
	assert.Equal(t, uint32(1000), rows[0].Pos)
	assert.Equal(t, "A", rows[0].RefBase, "ref base should be upper-cased")
	assert.InDelta(t, 2.5, rows[0].PhyloP, 1e-9)
	assert.Equal(t, uint8(15), rows[0].QuantileBin)
}

func TestImportConservation_KeyedByPositionNotAllele(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	rows := []ConservationRow{
		{Chrom: "1", Pos: 1000, RefBase: "A", PhyloP: 2.5, PhastCons: 0.9, QuantileBin: 15},
	}
	require.NoError(t, ImportConservation(ctx, st, "cons", rows))

	v, err := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "A"}.Canonicalize()
	require.NoError(t, err)
	key, err := codec.EncodeVariantKey(v)
	require.NoError(t, err)

	data, ok, err := st.Get(ctx, "cons", key)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.ConservationRecord{}
	require.NoError(t, rec.Decode(data))
	assert.InDelta(t, 2.5, rec.PhyloP, 1e-9)
	assert.Equal(t, uint8(15), rec.QuantileBin)

	prefix, err := codec.EncodePositionPrefix("1", 1000)
	require.NoError(t, err)
	it, err := st.IteratePrefix(ctx, "cons", prefix)
	require.NoError(t, err)
	defer it.Close()
	require.True(t, it.Next(), "position prefix scan should find the row regardless of the sentinel alt")
	require.NoError(t, it.Err())
}

func TestImportConservation_MissingRefBaseIsRejected(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	err := ImportConservation(ctx, st, "cons", []ConservationRow{{Chrom: "1", Pos: 1000}})
	require.Error(t, err)
}

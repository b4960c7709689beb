package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
)

// memTabixIndex is an in-memory stand-in for a real tabix-backed index
// (spec §1 treats tabix as an external collaborator available as a
// library); it holds pre-split rows bucketed by chromosome and answers
// QueryWindow by filtering on position.
type memTabixIndex struct {
	lengths map[string]uint32
	rows    map[string][]memTabixRow
}

type memTabixRow struct {
	pos    uint32
	fields []string
}

func (m *memTabixIndex) ChromLengths() map[string]uint32 { return m.lengths }

func (m *memTabixIndex) QueryWindow(_ context.Context, chrom string, start, end uint32) ([][]string, error) {
	var out [][]string
	for _, r := range m.rows[chrom] {
		if r.pos >= start && r.pos <= end {
			out = append(out, r.fields)
		}
	}
	return out, nil
}

func TestImportTSVWindowed_PartitionsByWindowAndWrites(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	header := []string{"CHROM", "POS", "REF", "ALT", "SCORE"}
	idx := &memTabixIndex{
		lengths: map[string]uint32{"1": 250_000},
		rows: map[string][]memTabixRow{
			"1": {
				{pos: 1000, fields: []string{"1", "1000", "A", "T", "0.5"}},
				{pos: 150_000, fields: []string{"1", "150000", "G", "C", "0.9"}},
			},
		},
	}

	opts := WindowedTSVOptions{
		TSVOptions: TSVOptions{ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT"},
		WindowSize: 100_000,
	}
	require.NoError(t, ImportTSVWindowed(ctx, st, "windowed-scores", header, idx, opts))

	v1, err := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}.Canonicalize()
	require.NoError(t, err)
	key1, err := codec.EncodeVariantKey(v1)
	require.NoError(t, err)
	val, ok, err := st.Get(ctx, "windowed-scores", key1)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.TabularRecord{}
	require.NoError(t, rec.Decode(val))
	assert.Equal(t, "0.5", string(rec.Line))

	v2, err := codec.Variant{Chrom: "1", Pos: 150_000, Ref: "G", Alt: "C"}.Canonicalize()
	require.NoError(t, err)
	key2, err := codec.EncodeVariantKey(v2)
	require.NoError(t, err)
	_, ok, err = st.Get(ctx, "windowed-scores", key2)
	require.NoError(t, err)
	require.True(t, ok, "row in second window must also be written")

	raw, ok, err := st.MetaGet(ctx, schema.TabularSchemaKey("windowed-scores"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "SCORE")
}

func TestImportTSVWindowed_NoIndexedChromosomesFails(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	idx := &memTabixIndex{lengths: map[string]uint32{}}
	header := []string{"CHROM", "POS", "REF", "ALT"}
	err := ImportTSVWindowed(ctx, st, "empty", header, idx, WindowedTSVOptions{
		TSVOptions: TSVOptions{ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT"},
	})
	require.Error(t, err)
}

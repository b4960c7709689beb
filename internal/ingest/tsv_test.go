package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.OpenReadWrite(ctx, "", store.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestImportTSV_Scenario1_PositionQueryOrdering(t *testing.T) {
	// spec §8 scenario 1.
	ctx := context.Background()
	st := openTestStore(t)

	input := "CHROM\tPOS\tREF\tALT\tSCORE\n1\t1000\tA\tT\t0.5\n1\t1000\tA\tC\t0.8\n"
	err := importTSVImpl(ctx, st, "scores", strings.NewReader(input), TSVOptions{
		ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT",
	})
	require.NoError(t, err)

	prefix, err := codec.EncodePositionPrefix("1", 1000)
	require.NoError(t, err)
	it, err := st.IteratePrefix(ctx, "scores", prefix)
	require.NoError(t, err)
	defer it.Close()

	var lines []string
	for it.Next() {
		rec := &schema.TabularRecord{}
		require.NoError(t, rec.Decode(it.KeyValue().Value))
		lines = append(lines, string(rec.Line))
	}
	require.NoError(t, it.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "0.8", lines[0]) // alt=C sorts before alt=T
	assert.Equal(t, "0.5", lines[1])
}

func TestImportTSV_WritesSchemaMetadata(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	input := "CHROM\tPOS\tREF\tALT\tSCORE\n1\t1000\tA\tT\t0.5\n"
	err := importTSVImpl(ctx, st, "scores", strings.NewReader(input), TSVOptions{
		ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT",
	})
	require.NoError(t, err)

	raw, ok, err := st.MetaGet(ctx, schema.TabularSchemaKey("scores"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "SCORE")
}

func TestImportTSV_AmbiguousColumnFailsWithSchemaError(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	input := "CHROM\tPOS\tREF\tALT\tX\n1\t1000\tA\tT\t5\n1\t1001\tA\tT\tnotanumber\n"
	err := importTSVImpl(ctx, st, "ambiguous", strings.NewReader(input), TSVOptions{
		ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT",
	})
	require.Error(t, err)
	kind, ok := errs.Of(err)
	require.True(t, ok)
	assert.Equal(t, errs.SchemaError, kind)
}

func TestImportTSV_SchemaSeedOverridesInference(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	seed := &schema.TabularSchema{Columns: []schema.ColumnSchema{
		{Name: "X", Type: schema.ColumnString},
	}}
	input := "CHROM\tPOS\tREF\tALT\tX\n1\t1000\tA\tT\t5\n1\t1001\tA\tT\tnotanumber\n"
	err := importTSVImpl(ctx, st, "seeded", strings.NewReader(input), TSVOptions{
		ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT",
		SchemaSeed: seed,
	})
	require.NoError(t, err)
}

func TestImportTSV_MissingColumnFails(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	err := importTSVImpl(ctx, st, "bad", strings.NewReader("A\tB\n1\t2\n"), TSVOptions{
		ChromColumn: "CHROM", PosColumn: "POS", RefColumn: "REF", AltColumn: "ALT",
	})
	require.Error(t, err)
}

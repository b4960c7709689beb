package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

func openTestDB(t *testing.T, release string) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.OpenReadWrite(ctx, "", store.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.MetaPut(ctx, schema.MetaDBName, "test"))
	require.NoError(t, s.MetaPut(ctx, schema.MetaGenomeRelease, release))
	return s
}

func putTabular(t *testing.T, ctx context.Context, st store.Store, cf string, v codec.Variant, line string) {
	t.Helper()
	canon, err := v.Canonicalize()
	require.NoError(t, err)
	key, err := codec.EncodeVariantKey(canon)
	require.NoError(t, err)
	rec := &schema.TabularRecord{Line: []byte(line)}
	data, err := rec.Encode()
	require.NoError(t, err)
	require.NoError(t, st.EnsureCF(ctx, cf))
	require.NoError(t, st.Put(ctx, cf, key, data))
}

func TestCheckAssembly(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh38")

	require.NoError(t, CheckAssembly(ctx, st, "grch38"))
	require.NoError(t, CheckAssembly(ctx, st, "GRCh38"))

	err := CheckAssembly(ctx, st, "GRCh37")
	require.Error(t, err)
	kind, ok := errs.Of(err)
	require.True(t, ok)
	assert.Equal(t, errs.AssemblyMismatch, kind)
}

func TestPointVariant(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewTSVDataset("scores")

	v := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}
	putTabular(t, ctx, st, "scores", v, "0.5")

	rec, ok, err := PointVariant(ctx, st, ds, "GRCh37", v)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.5", string(rec.(*schema.TabularRecord).Line))

	_, ok, err = PointVariant(ctx, st, ds, "GRCh37", codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "G"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPosition_AltLexOrder(t *testing.T) {
	// spec §8 scenario 1: position query GRCh37:1:1000 returns both rows,
	// alt-lex order (C before T).
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewTSVDataset("scores")

	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}, "0.5")
	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "C"}, "0.8")

	recs, err := Position(ctx, st, ds, "GRCh37", "1", 1000)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "0.8", string(recs[0].(*schema.TabularRecord).Line))
	assert.Equal(t, "0.5", string(recs[1].(*schema.TabularRecord).Line))
}

func TestPosition_ChromMismatchDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewTSVDataset("scores")

	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}, "x")
	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "2", Pos: 1000, Ref: "A", Alt: "T"}, "y")

	recs, err := Position(ctx, st, ds, "GRCh37", "1", 1000)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "x", string(recs[0].(*schema.TabularRecord).Line))
}

func TestRangeVariant(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewTSVDataset("scores")

	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 900, Ref: "A", Alt: "T"}, "before")
	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}, "in-range-1")
	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 1500, Ref: "A", Alt: "T"}, "in-range-2")
	putTabular(t, ctx, st, "scores", codec.Variant{Chrom: "1", Pos: 2000, Ref: "A", Alt: "T"}, "after")

	recs, err := RangeVariant(ctx, st, ds, "GRCh37", "1", 1000, 1500)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "in-range-1", string(recs[0].(*schema.TabularRecord).Line))
	assert.Equal(t, "in-range-2", string(recs[1].(*schema.TabularRecord).Line))
}

func TestRangeInterval(t *testing.T) {
	// spec §8 scenario 4: SV chrom=1,pos=1000,end=5000,DEL. Range query
	// 1:2000-3000 hits, 1:6000-7000 misses.
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewGnomadSVDataset()
	cfs := ds.CFs()

	require.NoError(t, st.EnsureCF(ctx, cfs.Primary))
	require.NoError(t, st.EnsureCF(ctx, cfs.Bin))

	rec := &schema.SVRecord{Chrom: "1", Pos: 1000, End: 5000, ID: "sv1", SVType: "DEL"}
	data, err := rec.Encode()
	require.NoError(t, err)
	key, err := codec.EncodeIntervalKey("1", 1000, "sv1")
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, cfs.Primary, key, data))

	bin := codec.BinForRange(999, 5000)
	binKey, err := codec.EncodeBinKey("1", bin, 1000, "sv1")
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, cfs.Bin, binKey, key))

	hits, err := RangeInterval(ctx, st, ds, "GRCh37", "1", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "DEL", hits[0].(*schema.SVRecord).SVType)

	misses, err := RangeInterval(ctx, st, ds, "GRCh37", "1", 6000, 7000)
	require.NoError(t, err)
	assert.Empty(t, misses)
}

func TestAccession(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewClinVarMinimalDataset()
	cfs := ds.CFs()
	require.NoError(t, st.EnsureCF(ctx, cfs.Primary))
	require.NoError(t, st.EnsureCF(ctx, cfs.ByAccession))

	v := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}
	canon, err := v.Canonicalize()
	require.NoError(t, err)
	key, err := codec.EncodeVariantKey(canon)
	require.NoError(t, err)
	rec := &schema.ClinVarRecord{Accession: schema.Accession{Acc: "VCV000012345", Version: 1}, Name: "test variant"}
	data, err := rec.Encode()
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, cfs.Primary, key, data))
	require.NoError(t, st.Put(ctx, cfs.ByAccession, []byte("VCV000012345"), key))

	got, ok, err := Accession(ctx, st, ds, cfs.ByAccession, "VCV000012345", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "test variant", got.(*schema.ClinVarRecord).Name)

	byPoint, ok, err := PointVariant(ctx, st, ds, "GRCh37", v)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got.(*schema.ClinVarRecord).Accession, byPoint.(*schema.ClinVarRecord).Accession)

	_, ok, err = Accession(ctx, st, ds, cfs.ByAccession, "VCV999999999", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneLookup_SymbolAndHGNCAgree(t *testing.T) {
	// spec §8 scenario 5: lookup by symbol "TGDS" and by "HGNC:20324"
	// return the same record.
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds := schema.NewGenesDataset()
	cfs := ds.CFs()
	require.NoError(t, st.EnsureCF(ctx, cfs.Primary))
	require.NoError(t, st.EnsureCF(ctx, cfs.ByAccession))
	for _, cf := range cfs.Secondary {
		require.NoError(t, st.EnsureCF(ctx, cf))
	}

	rec := &schema.GeneDosageRecord{HGNCID: "HGNC:20324", Symbol: "TGDS", PHaplo: 0.1}
	data, err := rec.Encode()
	require.NoError(t, err)
	key := []byte("HGNC:20324")
	require.NoError(t, st.Put(ctx, cfs.Primary, key, data))
	require.NoError(t, st.Put(ctx, cfs.ByAccession, key, key))
	require.NoError(t, st.Put(ctx, cfs.Secondary["symbol"], []byte("TGDS"), key))

	bySymbol, ok, err := GeneLookup(ctx, st, ds, "TGDS")
	require.NoError(t, err)
	require.True(t, ok)

	byHGNC, ok, err := GeneLookup(ctx, st, ds, "HGNC:20324")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, bySymbol.(*schema.GeneDosageRecord).HGNCID, byHGNC.(*schema.GeneDosageRecord).HGNCID)

	// case-insensitive symbol lookup
	lower, ok, err := GeneLookup(ctx, st, ds, "tgds")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "HGNC:20324", lower.(*schema.GeneDosageRecord).HGNCID)
}

func TestVariantAnnotationBundle_MissingDatasetDegradesToNull(t *testing.T) {
	ctx := context.Background()
	st := openTestDB(t, "GRCh37")
	ds1 := schema.NewTSVDataset("scoresA")
	ds2 := schema.NewTSVDataset("scoresB")

	v := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}
	putTabular(t, ctx, st, "scoresA", v, "present")

	databases := []VariantDatabase{
		{Dataset: ds1, Store: st, Assembly: "GRCh37"},
		{Dataset: ds2, Store: st, Assembly: "GRCh37"},
	}
	entries := VariantAnnotationBundle(ctx, databases, "GRCh37", v, nil)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Record)
	assert.Nil(t, entries[1].Record)
	assert.NoError(t, entries[1].Err)
}

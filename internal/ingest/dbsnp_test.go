package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
)

func TestImportDBSNP_AccessionResolvesToPrimary(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	body := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t1000\trs123\tA\tT,C\t.\t.\t.\n" +
		"1\t2000\t.\tG\tA\t.\t.\t.\n"
	path := writeTempVCF(t, body)

	require.NoError(t, ImportDBSNP(ctx, st, "dbsnp", "dbsnp_by_accession", path))

	primaryKey, ok, err := st.Get(ctx, "dbsnp_by_accession", []byte("rs123"))
	require.NoError(t, err)
	require.True(t, ok)

	wantKey, err := codec.EncodeVariantKey(codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"})
	require.NoError(t, err)
	require.Equal(t, wantKey, primaryKey)

	data, ok, err := st.Get(ctx, "dbsnp", primaryKey)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.TabularRecord{}
	require.NoError(t, rec.Decode(data))
	require.Equal(t, "rs123", string(rec.Line))

	// the second alt allele of the multi-allelic site also resolves.
	altKey, err := codec.EncodeVariantKey(codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "C"})
	require.NoError(t, err)
	_, ok, err = st.Get(ctx, "dbsnp", altKey)
	require.NoError(t, err)
	require.True(t, ok)

	// the unnamed site at 2000 is not indexed under any accession.
	_, ok, err = st.Get(ctx, "dbsnp_by_accession", []byte("."))
	require.NoError(t, err)
	require.False(t, ok)
}

package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
)

func TestImportClinVarJSONL_PrimaryAndAccessionBothResolve(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	lines := []string{
		`{"accession":{"acc":"VCV000054321","version":1},"name":"variant two","variation_type":"SNV","classifications":["Pathogenic"],"sequence_location":{"chr":"1","start":2000,"ref":"G","alt":"A"}}`,
		`{"accession":{"acc":"VCV000012345","version":2},"name":"variant one","variation_type":"SNV","classifications":["Benign"],"sequence_location":{"chr":"1","start":1000,"ref":"A","alt":"T"}}`,
	}
	input := strings.Join(lines, "\n") + "\n"
	path := writeTempVCF(t, input)

	err := ImportClinVarJSONL(ctx, st, "clinvar-minimal", "clinvar-minimal_by_accession", path, JSONLOptions{})
	require.NoError(t, err)

	v, err := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}.Canonicalize()
	require.NoError(t, err)
	key, err := codec.EncodeVariantKey(v)
	require.NoError(t, err)
	data, ok, err := st.Get(ctx, "clinvar-minimal", key)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.ClinVarRecord{}
	require.NoError(t, rec.Decode(data))
	assert.Equal(t, "variant one", rec.Name)

	resolvedKey, ok, err := st.Get(ctx, "clinvar-minimal_by_accession", []byte("VCV000012345"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key, resolvedKey)
}

func TestImportClinVarSVJSONL_FiltersOverlongRefAlt(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	longRef := strings.Repeat("A", 60)
	lines := []string{
		`{"accession":{"acc":"VCV1","version":1},"chrom":"1","start":1000,"stop":5000,"ref":"A","alt":"T"}`,
		`{"accession":{"acc":"VCV2","version":1},"chrom":"1","start":2000,"stop":6000,"ref":"` + longRef + `","alt":"T"}`,
	}
	input := strings.Join(lines, "\n") + "\n"
	path := writeTempVCF(t, input)

	err := ImportClinVarSVJSONL(ctx, st, "clinvar-sv", "clinvar-sv_by_accession", "clinvar-sv_bin", path, ClinVarSVOptions{})
	require.NoError(t, err)

	_, ok, err := st.Get(ctx, "clinvar-sv_by_accession", []byte("VCV1"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = st.Get(ctx, "clinvar-sv_by_accession", []byte("VCV2"))
	require.NoError(t, err)
	assert.False(t, ok, "overlong ref should have been filtered out")
}

func TestSortJSONLByAccession_OrdersAndCleansUp(t *testing.T) {
	input := `{"accession":{"acc":"VCV3"}}` + "\n" +
		`{"accession":{"acc":"VCV1"}}` + "\n" +
		`{"accession":{"acc":"VCV2"}}` + "\n"

	sortedPath, cleanup, err := sortJSONLByAccession(strings.NewReader(input), JSONLOptions{SortChunkSize: 2})
	require.NoError(t, err)
	defer cleanup()

	r, closeFn, err := openMaybeGzip(sortedPath)
	require.NoError(t, err)
	defer closeFn()

	sc := newLineScanner(r)
	var accessions []string
	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		accessions = append(accessions, extractAccession(line))
	}
	require.NoError(t, sc.err())
	assert.Equal(t, []string{"VCV1", "VCV2", "VCV3"}, accessions)
}

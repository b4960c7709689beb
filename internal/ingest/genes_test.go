package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/schema"
)

func TestParseGeneDosageTSV(t *testing.T) {
	lines := []string{
		"hgnc_id\tsymbol\tncbi_gene_id\tensembl_id\tp_haplo\tp_triplo\tloeuf\tmis_z",
		"HGNC:20324\tTGDS\t23483\tENSG00000088213\t0.1\t0.2\t0.5\t1.2",
	}
	rows, err := ParseGeneDosageTSV(lines)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "HGNC:20324", rows[0].HGNCID)
	assert.Equal(t, "TGDS", rows[0].Symbol)
	assert.InDelta(t, 0.1, rows[0].PHaplo, 1e-9)
	assert.InDelta(t, 0.5, rows[0].LOEUF, 1e-9)
}

func TestParseGeneDosageTSV_MissingHGNCColumn(t *testing.T) {
	_, err := ParseGeneDosageTSV([]string{"symbol\tp_haplo", "TGDS\t0.1"})
	require.Error(t, err)
}

func TestParseClinVarGenesJSONL(t *testing.T) {
	lines := []string{
		`{"hgnc_id":"HGNC:20324","symbol":"TGDS","submission_count":12,"top_classification":"Pathogenic"}`,
		"",
		`{"hgnc_id":"HGNC:1","symbol":"A1BG","ncbi_gene_id":"1","ensembl_id":"ENSG00000121410","submission_count":3,"top_classification":"Benign"}`,
	}
	rows, err := ParseClinVarGenesJSONL(lines)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HGNC:20324", rows[0].HGNCID)
	assert.Equal(t, 12, rows[0].SubmissionCount)
	assert.Equal(t, "Pathogenic", rows[0].TopClassification)
}

func TestParseClinVarGenesJSONL_MissingHGNCID(t *testing.T) {
	_, err := ParseClinVarGenesJSONL([]string{`{"symbol":"TGDS"}`})
	require.Error(t, err)
}

func TestImportGenes_SymbolAndHGNCResolveSameRecord(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	ds := schema.NewGenesDataset()
	cfs := ds.CFs()

	rows := []GeneRow{
		{HGNCID: "HGNC:20324", Symbol: "TGDS", NCBIGeneID: "23483", EnsemblID: "ENSG00000088213", PHaplo: 0.1},
	}
	require.NoError(t, ImportGenes(ctx, st, cfs, GeneRecordDosage, rows))

	primaryKey, ok, err := st.Get(ctx, cfs.ByAccession, []byte("HGNC:20324"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("HGNC:20324"), primaryKey)

	bySymbolKey, ok, err := st.Get(ctx, cfs.Secondary["symbol"], []byte("TGDS"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, primaryKey, bySymbolKey)

	data, ok, err := st.Get(ctx, cfs.Primary, primaryKey)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.GeneDosageRecord{}
	require.NoError(t, rec.Decode(data))
	assert.Equal(t, "TGDS", rec.Symbol)
	assert.InDelta(t, 0.1, rec.PHaplo, 1e-9)
}

func TestImportGenes_MissingHGNCIDIsRejected(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	ds := schema.NewGenesDataset()

	err := ImportGenes(ctx, st, ds.CFs(), GeneRecordDosage, []GeneRow{{Symbol: "NOID"}})
	require.Error(t, err)
}

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
)

func writeTempVCF(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.vcf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseCohortKey(t *testing.T) {
	cases := []struct {
		key                                string
		metric, cohort, sex, pop           string
		ok                                 bool
	}{
		{"AC", "AC", "", "", "", true},
		{"AC_afr", "AC", "", "", "afr", true},
		{"AC_controls_afr", "AC", "controls", "", "afr", true},
		{"AC_controls_XX_afr", "AC", "controls", "XX", "afr", true},
		{"AN_XY_afr", "AN", "", "XY", "afr", true},
		{"DP", "", "", "", "", false},
	}
	for _, c := range cases {
		metric, cohort, sex, pop, ok := parseCohortKey(c.key)
		assert.Equal(t, c.ok, ok, c.key)
		if !c.ok {
			continue
		}
		assert.Equal(t, c.metric, metric, c.key)
		assert.Equal(t, c.cohort, cohort, c.key)
		assert.Equal(t, c.sex, sex, c.key)
		assert.Equal(t, c.pop, pop, c.key)
	}
}

func TestImportGnomadVCF_MultiAllelicSplit(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	body := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t1000\t.\tA\tT,C\t.\tPASS\tAC=5;AN=100;AF=0.05;AC_afr=2;AN_afr=40\n"
	path := writeTempVCF(t, body)

	require.NoError(t, ImportGnomadVCF(ctx, st, "gnomad-nuclear", path, VCFImportOptions{Fields: AllVCFFields()}))

	for _, alt := range []string{"T", "C"} {
		v, err := codec.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: alt}.Canonicalize()
		require.NoError(t, err)
		key, err := codec.EncodeVariantKey(v)
		require.NoError(t, err)
		data, ok, err := st.Get(ctx, "gnomad-nuclear", key)
		require.NoError(t, err)
		require.True(t, ok, "alt %s", alt)
		rec := &schema.AlleleCountRecord{}
		require.NoError(t, rec.Decode(data))
		assert.Equal(t, int64(5), rec.Overall.AC)
		assert.Equal(t, int64(100), rec.Overall.AN)
		assert.InDelta(t, 0.05, rec.Overall.AF, 1e-9)
		split, ok := rec.Cohorts["afr"]
		require.True(t, ok)
		cc := split.Overall["all"]
		assert.Equal(t, int64(2), cc.AC)
		assert.Equal(t, int64(40), cc.AN)
	}
}

func TestBuildAlleleCountRecord_FieldSubsetGating(t *testing.T) {
	info := map[string]string{
		"AC": "5", "AN": "100", "AF": "0.05",
		"nhomalt": "3", "N_HET": "2", "N_HOMREF": "90",
		"AC_afr": "2", "AN_afr": "40",
		"AC_global": "5", "AN_global": "100",
	}

	minimal := buildAlleleCountRecord(info, VCFFields{})
	assert.Equal(t, int64(5), minimal.Overall.AC)
	assert.Zero(t, minimal.Overall.NHomalt, "var_info disabled: zygosity breakdown should not be extracted")
	assert.Empty(t, minimal.Cohorts, "no cohort field enabled: no per-cohort nesting")

	withVarInfo := buildAlleleCountRecord(info, VCFFields{VarInfo: true})
	assert.Equal(t, int64(3), withVarInfo.Overall.NHomalt)
	assert.Equal(t, int64(2), withVarInfo.Overall.NHet)
	assert.Equal(t, int64(90), withVarInfo.Overall.NHomref)

	globalOnly := buildAlleleCountRecord(info, VCFFields{GlobalCohortPops: true})
	_, hasAfr := globalOnly.Cohorts["afr"]
	assert.False(t, hasAfr, "global_cohort_pops without all_cohorts should not extract named sub-cohorts")
	_, hasGlobal := globalOnly.Cohorts["global"]
	assert.True(t, hasGlobal)

	all := buildAlleleCountRecord(info, VCFFields{AllCohorts: true})
	_, hasAfr = all.Cohorts["afr"]
	assert.True(t, hasAfr, "all_cohorts should extract every named sub-cohort")
}

func TestImportSVVCF_IntervalAndBinEntry(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	body := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t1000\tsv1\tN\t<DEL>\t.\tPASS\tEND=5000;SVTYPE=DEL;AC=3;AN=200;AF=0.015\n"
	path := writeTempVCF(t, body)

	require.NoError(t, ImportSVVCF(ctx, st, "gnomad-sv", "gnomad-sv_bin", path, VCFImportOptions{}))

	key, err := codec.EncodeIntervalKey("1", 1000, "sv1")
	require.NoError(t, err)
	data, ok, err := st.Get(ctx, "gnomad-sv", key)
	require.NoError(t, err)
	require.True(t, ok)
	rec := &schema.SVRecord{}
	require.NoError(t, rec.Decode(data))
	assert.Equal(t, uint32(5000), rec.End)
	assert.Equal(t, "DEL", rec.SVType)
	assert.Equal(t, int64(3), rec.AlleleCount.AC)

	bin := codec.BinForRange(999, 5000)
	prefix, err := codec.EncodeBinPrefix("1", bin)
	require.NoError(t, err)
	it, err := st.IteratePrefix(ctx, "gnomad-sv_bin", prefix)
	require.NoError(t, err)
	defer it.Close()
	require.True(t, it.Next())
	assert.Equal(t, key, it.KeyValue().Value)
	require.NoError(t, it.Err())
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClinVarRecord_RoundTrip(t *testing.T) {
	// spec §8 scenario 3
	r := &ClinVarRecord{
		Accession: Accession{Acc: "VCV000012345", Version: 1},
		Name:      "NM_000000.1(GENE):c.1A>T",
		VariationType: "single nucleotide variant",
		Classifications: []string{"Pathogenic"},
		ClinicalAssertions: []ClinicalAssertion{
			{Submitter: "lab1", Classification: "Pathogenic", ReviewStatus: "criteria provided"},
		},
		SequenceLocation: SequenceLocation{Chrom: "1", Start: 1000, Ref: "A", Alt: "T"},
		HGNCIDs:          []string{"HGNC:1"},
	}
	b, err := r.Encode()
	require.NoError(t, err)

	got := &ClinVarRecord{}
	require.NoError(t, got.Decode(b))
	assert.Equal(t, *r, *got)
}

func TestClinVarRecord_ReimportBumpsVersion(t *testing.T) {
	r1 := &ClinVarRecord{Accession: Accession{Acc: "VCV000012345", Version: 1}}
	r2 := &ClinVarRecord{Accession: Accession{Acc: "VCV000012345", Version: 2}}
	assert.NotEqual(t, r1.Accession.Version, r2.Accession.Version)
	assert.Equal(t, r1.Accession.Acc, r2.Accession.Acc)
}

func TestGeneDosageRecord_RoundTrip(t *testing.T) {
	// spec §8 scenario 5
	r := &GeneDosageRecord{
		HGNCID: "HGNC:20324",
		Symbol: "TGDS",
		PHaplo: 0.1,
		PTriplo: 0.05,
	}
	b, err := r.Encode()
	require.NoError(t, err)

	got := &GeneDosageRecord{}
	require.NoError(t, got.Decode(b))
	assert.Equal(t, *r, *got)
}

func TestTabularRecord_PreservesLineBytes(t *testing.T) {
	r := &TabularRecord{Line: []byte("0.5")}
	b, err := r.Encode()
	require.NoError(t, err)

	got := &TabularRecord{}
	require.NoError(t, got.Decode(b))
	assert.Equal(t, "0.5", string(got.Line))
}

func TestColumnType_String(t *testing.T) {
	assert.Equal(t, "Integer", ColumnInteger.String())
	assert.Equal(t, "Float", ColumnFloat.String())
	assert.Equal(t, "Enum", ColumnEnum.String())
	assert.Equal(t, "String", ColumnString.String())
}

func TestDefaultNullTokens(t *testing.T) {
	assert.Equal(t, []string{"NA", ".", "-"}, DefaultNullTokens())
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewGenesDataset()))

	d, ok := r.Lookup("genes")
	require.True(t, ok)
	assert.Equal(t, "genes", d.Name())

	_, ok = r.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewGenesDataset()))
	err := r.Register(NewGenesDataset())
	require.Error(t, err)
}

func TestRegistry_AllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewDBSNPDataset()))
	require.NoError(t, r.Register(NewGnomadNuclearDataset()))
	require.NoError(t, r.Register(NewConservationDataset()))

	names := make([]string, 0, 3)
	for _, d := range r.All() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"dbsnp", "gnomad-nuclear", "cons"}, names)
}

func TestNewDefaultRegistry_HasEveryBuiltinDataset(t *testing.T) {
	r := NewDefaultRegistry()
	for _, name := range []string{
		"dbsnp", "gnomad-nuclear", "gnomad-mtdna", "gnomad-sv", "helixmtdb",
		"cons", "clinvar-minimal", "clinvar-sv", "clinvar-genes", "genes",
		"regions", "functional",
	} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "missing dataset %s", name)
	}
}

func TestGnomadSVDataset_IsIntervalKeyedWithBinCF(t *testing.T) {
	d := NewGnomadSVDataset()
	assert.Equal(t, KeyKindInterval, d.KeyKind())
	assert.Equal(t, "gnomad-sv_bin", d.CFs().Bin)
}

func TestGnomadNuclearDataset_IsVariantKeyed(t *testing.T) {
	d := NewGnomadNuclearDataset()
	assert.Equal(t, KeyKindVariant, d.KeyKind())
	assert.Empty(t, d.CFs().Bin)
}

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeChrom_Mitochondrion(t *testing.T) {
	for _, in := range []string{"chrM", "M", "chrMT", "MT", "mt", "chrm"} {
		got, err := CanonicalizeChrom(in)
		require.NoError(t, err, in)
		assert.Equal(t, "MT", got, in)
	}
}

func TestCanonicalizeChrom_StripsPrefixAndUppercases(t *testing.T) {
	got, err := CanonicalizeChrom("chr1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = CanonicalizeChrom("x")
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

func TestCanonicalizeChrom_RejectsWhitespace(t *testing.T) {
	_, err := CanonicalizeChrom("chr 1")
	require.Error(t, err)
}

func TestVariantCanonicalize_RejectsEmptyAlt(t *testing.T) {
	_, err := Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: ""}.Canonicalize()
	require.Error(t, err)
}

func TestVariantCanonicalize_RejectsZeroPosition(t *testing.T) {
	_, err := Variant{Chrom: "1", Pos: 0, Ref: "A", Alt: "T"}.Canonicalize()
	require.Error(t, err)
}

func TestVariantCanonicalize_RejectsNonCanonicalBases(t *testing.T) {
	_, err := Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "X"}.Canonicalize()
	require.Error(t, err)
}

func TestEncodeDecodeVariantKey_RoundTrip(t *testing.T) {
	cases := []Variant{
		{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"},
		{Chrom: "1", Pos: 1000, Ref: "A", Alt: "C"},
		{Chrom: "X", Pos: 55505599, Ref: "G", Alt: "A"},
		{Chrom: "MT", Pos: 1, Ref: "AC", Alt: "G"},
	}
	for _, v := range cases {
		key, err := EncodeVariantKey(v)
		require.NoError(t, err)
		got, err := DecodeVariantKey(key)
		require.NoError(t, err)
		assert.Equal(t, v.Chrom, got.Chrom)
		assert.Equal(t, v.Pos, got.Pos)
		assert.Equal(t, v.Ref, got.Ref)
		assert.Equal(t, v.Alt, got.Alt)
	}
}

func TestEncodeVariantKey_DistinctVariantsDistinctKeys(t *testing.T) {
	v1 := Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"}
	v2 := Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "C"}
	k1, err := EncodeVariantKey(v1)
	require.NoError(t, err)
	k2, err := EncodeVariantKey(v2)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestEncodeVariantKey_OrderingMatchesPosition(t *testing.T) {
	v1 := Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	v2 := Variant{Chrom: "1", Pos: 200, Ref: "A", Alt: "T"}
	k1, err := EncodeVariantKey(v1)
	require.NoError(t, err)
	k2, err := EncodeVariantKey(v2)
	require.NoError(t, err)
	assert.Less(t, string(k1), string(k2))
}

func TestEncodeVariantKey_AltLexOrderWithinSamePosition(t *testing.T) {
	// spec.md scenario 1: 1:1000 A>T and 1:1000 A>C -> C before T
	kC, err := EncodeVariantKey(Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "C"})
	require.NoError(t, err)
	kT, err := EncodeVariantKey(Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"})
	require.NoError(t, err)
	assert.Less(t, string(kC), string(kT))
}

func TestEncodeVariantKey_UnknownChromosomeFails(t *testing.T) {
	_, err := EncodeVariantKey(Variant{Chrom: "26", Pos: 1, Ref: "A", Alt: "T"})
	require.Error(t, err)
}

func TestEncodeVariantKey_ZeroPositionFails(t *testing.T) {
	_, err := EncodeVariantKey(Variant{Chrom: "1", Pos: 0, Ref: "A", Alt: "T"})
	require.Error(t, err)
}

func TestEncodePositionPrefix_IsPrefixOfKey(t *testing.T) {
	prefix, err := EncodePositionPrefix("1", 1000)
	require.NoError(t, err)
	key, err := EncodeVariantKey(Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "T"})
	require.NoError(t, err)
	assert.True(t, len(key) >= len(prefix) && string(key[:len(prefix)]) == string(prefix))
}

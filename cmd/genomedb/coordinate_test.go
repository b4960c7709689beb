package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate_Position(t *testing.T) {
	c, err := parseCoordinate("GRCh37:1:1000")
	require.NoError(t, err)
	assert.Equal(t, coordinatePosition, c.Kind)
	assert.Equal(t, "GRCh37", c.Assembly)
	assert.Equal(t, "1", c.Chrom)
	assert.Equal(t, uint32(1000), c.Pos)
}

func TestParseCoordinate_Range(t *testing.T) {
	c, err := parseCoordinate("GRCh37:1:1000:1500")
	require.NoError(t, err)
	assert.Equal(t, coordinateRange, c.Kind)
	assert.Equal(t, uint32(1000), c.Pos)
	assert.Equal(t, uint32(1500), c.Stop)
}

func TestParseCoordinate_Variant(t *testing.T) {
	c, err := parseCoordinate("GRCh37:1:1000:A:T")
	require.NoError(t, err)
	assert.Equal(t, coordinateVariant, c.Kind)
	assert.Equal(t, uint32(1000), c.Pos)
	assert.Equal(t, "A", c.Ref)
	assert.Equal(t, "T", c.Alt)
}

func TestParseCoordinate_RejectsNonNumericStop(t *testing.T) {
	_, err := parseCoordinate("GRCh37:1:1000:A")
	assert.Error(t, err)
}

func TestParseCoordinate_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "GRCh37", "GRCh37:1", "GRCh37:1:x", "GRCh37:1:1000:A:T:extra"} {
		_, err := parseCoordinate(s)
		assert.Error(t, err, s)
	}
}

package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
)

// coordinate is a parsed external coordinate string of spec §6:
// "GRCh37:1:1000:A:T", "GRCh37:1:1000", and "GRCh37:1:1000:1500" for
// variant, position, and range queries respectively.
type coordinate struct {
	Assembly string
	Chrom    string
	Pos      uint32
	Stop     uint32 // set only for range coordinates
	Ref, Alt string // set only for variant coordinates
	Kind     coordinateKind
}

type coordinateKind int

const (
	coordinateVariant coordinateKind = iota
	coordinatePosition
	coordinateRange
)

// parseCoordinate implements the three external coordinate shapes of
// spec §6: "assembly:chrom:pos" (position), "assembly:chrom:pos:stop"
// (range), and "assembly:chrom:pos:ref:alt" (variant). The three are
// disambiguated by field count alone.
func parseCoordinate(s string) (coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return coordinate{}, errs.New(errs.InvalidInput, "malformed coordinate "+quote(s))
	}
	assembly, chrom := parts[0], parts[1]
	if assembly == "" || chrom == "" {
		return coordinate{}, errs.New(errs.InvalidInput, "malformed coordinate "+quote(s))
	}
	pos, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return coordinate{}, errs.Wrap(errs.InvalidInput, "malformed coordinate "+quote(s), err)
	}
	c := coordinate{Assembly: assembly, Chrom: chrom, Pos: uint32(pos)}
	switch len(parts) {
	case 3:
		c.Kind = coordinatePosition
		return c, nil
	case 4:
		stop, err := strconv.ParseUint(parts[3], 10, 32)
		if err != nil {
			return coordinate{}, errs.Wrap(errs.InvalidInput, "malformed coordinate "+quote(s), err)
		}
		c.Kind = coordinateRange
		c.Stop = uint32(stop)
		return c, nil
	case 5:
		c.Kind = coordinateVariant
		c.Ref, c.Alt = parts[3], parts[4]
		return c, nil
	default:
		return coordinate{}, errs.New(errs.InvalidInput, "malformed coordinate "+quote(s))
	}
}

func (c coordinate) toVariant() codec.Variant {
	return codec.Variant{Chrom: c.Chrom, Pos: c.Pos, Ref: c.Ref, Alt: c.Alt}
}

func quote(s string) string { return strconv.Quote(s) }

// writeJSON prints v to stdout as JSON (spec §6: "stdout carries
// machine-readable query output (JSON) unless a --format flag requests
// otherwise").
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

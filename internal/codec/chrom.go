// Package codec implements the canonical byte key encoding for sequence
// variants and genomic intervals (see spec §4.1): a total order over keys
// such that byte-lexicographic order matches natural
// (chromosome-rank, position, ...) order.
package codec

import (
	"strconv"
	"strings"

	"github.com/genomedb/genomedb/internal/errs"
)

// Rank is the 1-byte chromosome rank used as the leading key field.
// 1..22 are autosomes, 23=X, 24=Y, 25=MT, 0 is reserved and never produced
// by Canonicalize.
type Rank = uint8

const (
	RankReserved Rank = 0
	RankX        Rank = 23
	RankY        Rank = 24
	RankMT       Rank = 25
)

// CanonicalizeChrom normalizes a chromosome token: strips a "chr" prefix,
// uppercases it, and collapses every mitochondrial spelling (M, chrM, MT,
// chrMT) to "MT". Whitespace is rejected per §4.1.
func CanonicalizeChrom(chrom string) (string, error) {
	if strings.ContainsAny(chrom, " \t\n\r") {
		return "", errs.New(errs.InvalidInput, "chromosome token contains whitespace: "+strconv.Quote(chrom))
	}
	c := strings.ToUpper(chrom)
	c = strings.TrimPrefix(c, "CHR")
	if c == "M" || c == "MT" {
		return "MT", nil
	}
	if c == "" {
		return "", errs.New(errs.InvalidInput, "empty chromosome token")
	}
	return c, nil
}

// ChromRank returns the ordering rank for a canonicalized chromosome token.
// It fails with InvalidInput when the token is not one of 1..22, X, Y, MT.
func ChromRank(canonicalChrom string) (Rank, error) {
	switch canonicalChrom {
	case "X":
		return RankX, nil
	case "Y":
		return RankY, nil
	case "MT":
		return RankMT, nil
	}
	n, err := strconv.Atoi(canonicalChrom)
	if err != nil || n < 1 || n > 22 {
		return 0, errs.New(errs.InvalidInput, "unknown chromosome token: "+strconv.Quote(canonicalChrom))
	}
	return Rank(n), nil
}

// RankToChrom is the inverse of ChromRank, used by decoders.
func RankToChrom(r Rank) (string, error) {
	switch r {
	case RankX:
		return "X", nil
	case RankY:
		return "Y", nil
	case RankMT:
		return "MT", nil
	}
	if r < 1 || r > 22 {
		return "", errs.New(errs.InvalidInput, "unknown chromosome rank: "+strconv.Itoa(int(r)))
	}
	return strconv.Itoa(int(r)), nil
}

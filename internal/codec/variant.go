package codec

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/genomedb/genomedb/internal/errs"
)

// Variant identifies a sequence variant as described in spec §3:
// (assembly, chromosome, position, ref, alt), 1-based position, uppercase
// ref/alt base strings. Symbolic/empty alleles belong to the SV path and
// are rejected here.
type Variant struct {
	Assembly string
	Chrom    string
	Pos      uint32
	Ref      string
	Alt      string
}

// Canonicalize normalizes chromosome casing/prefix and base casing, and
// validates the invariants of §3/§4.1. It does not validate Assembly
// against a database's genome-release; that check belongs to the query
// layer (§7 AssemblyMismatch).
func (v Variant) Canonicalize() (Variant, error) {
	chrom, err := CanonicalizeChrom(v.Chrom)
	if err != nil {
		return Variant{}, err
	}
	if v.Pos == 0 {
		return Variant{}, errs.New(errs.InvalidInput, "position must be 1-based (got 0)")
	}
	ref := strings.ToUpper(v.Ref)
	alt := strings.ToUpper(v.Alt)
	if alt == "" {
		return Variant{}, errs.New(errs.InvalidInput, "alt allele must not be empty (symbolic alleles belong to the SV path)")
	}
	if len(ref) == 0 {
		return Variant{}, errs.New(errs.InvalidInput, "ref allele must not be empty")
	}
	if len(ref) > 255 {
		return Variant{}, errs.New(errs.InvalidInput, "ref allele longer than 255 bases belongs in the range CF")
	}
	if !isCanonicalBases(ref) || !isCanonicalBases(alt) {
		return Variant{}, errs.New(errs.InvalidInput, "ref/alt must contain only ACGTN: ref="+strconv.Quote(ref)+" alt="+strconv.Quote(alt))
	}
	return Variant{Assembly: v.Assembly, Chrom: chrom, Pos: v.Pos, Ref: ref, Alt: alt}, nil
}

func isCanonicalBases(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}

// EncodeVariantKey produces the canonical big-endian key of spec §4.1:
//
//	rank(1) | pos(4, BE) | reflen(1) | ref bytes | alt bytes (to end)
//
// v must already be canonicalized (callers should call Canonicalize first;
// EncodeVariantKey does not re-canonicalize chromosome casing and does not
// accept raw "chr"-prefixed tokens).
func EncodeVariantKey(v Variant) ([]byte, error) {
	rank, err := ChromRank(v.Chrom)
	if err != nil {
		return nil, err
	}
	if v.Pos == 0 {
		return nil, errs.New(errs.InvalidInput, "position must be 1-based (got 0)")
	}
	if len(v.Ref) == 0 || len(v.Ref) > 255 {
		return nil, errs.New(errs.InvalidInput, "ref length out of range: "+strconv.Itoa(len(v.Ref)))
	}
	if v.Alt == "" {
		return nil, errs.New(errs.InvalidInput, "alt allele must not be empty")
	}

	key := make([]byte, 0, 1+4+1+len(v.Ref)+len(v.Alt))
	key = append(key, rank)
	var posBuf [4]byte
	binary.BigEndian.PutUint32(posBuf[:], v.Pos)
	key = append(key, posBuf[:]...)
	key = append(key, byte(len(v.Ref)))
	key = append(key, v.Ref...)
	key = append(key, v.Alt...)
	return key, nil
}

// DecodeVariantKey is the exact inverse of EncodeVariantKey. assembly is
// not recoverable from the key (it is never encoded into it — a database
// holds exactly one assembly, enforced via the genome-release metadata
// entry) and is left empty on the decoded Variant; callers that know the
// database's assembly should set it themselves.
func DecodeVariantKey(key []byte) (Variant, error) {
	if len(key) < 1+4+1 {
		return Variant{}, errs.New(errs.InvalidInput, "variant key too short")
	}
	rank := key[0]
	chrom, err := RankToChrom(rank)
	if err != nil {
		return Variant{}, err
	}
	pos := binary.BigEndian.Uint32(key[1:5])
	refLen := int(key[5])
	if len(key) < 6+refLen {
		return Variant{}, errs.New(errs.InvalidInput, "variant key truncated: declared ref length exceeds remaining bytes")
	}
	ref := string(key[6 : 6+refLen])
	alt := string(key[6+refLen:])
	if alt == "" {
		return Variant{}, errs.New(errs.InvalidInput, "decoded alt allele is empty")
	}
	return Variant{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt}, nil
}

// EncodePositionPrefix produces the (rank, pos) prefix used by position
// queries (spec §4.5) to iterate all variants sharing a position.
func EncodePositionPrefix(chrom string, pos uint32) ([]byte, error) {
	rank, err := ChromRank(chrom)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 5)
	buf[0] = rank
	binary.BigEndian.PutUint32(buf[1:], pos)
	return buf, nil
}

// EncodeChromPrefix produces the single-byte rank prefix for a chromosome,
// the coarsest prefix scan possible over a variant-keyed CF.
func EncodeChromPrefix(chrom string) ([]byte, error) {
	rank, err := ChromRank(chrom)
	if err != nil {
		return nil, err
	}
	return []byte{rank}, nil
}

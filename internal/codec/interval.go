package codec

import (
	"encoding/binary"

	"github.com/genomedb/genomedb/internal/errs"
)

// Interval identifies a genomic interval as described in spec §3:
// (assembly, chromosome, start, stop), 1-based inclusive closed, start<=stop.
type Interval struct {
	Assembly string
	Chrom    string
	Start    uint32
	Stop     uint32
}

// Canonicalize normalizes the chromosome token and checks start<=stop.
func (iv Interval) Canonicalize() (Interval, error) {
	chrom, err := CanonicalizeChrom(iv.Chrom)
	if err != nil {
		return Interval{}, err
	}
	if iv.Start == 0 || iv.Stop == 0 {
		return Interval{}, errs.New(errs.InvalidInput, "interval coordinates must be 1-based")
	}
	if iv.Start > iv.Stop {
		return Interval{}, errs.New(errs.InvalidInput, "interval start must be <= stop")
	}
	return Interval{Assembly: iv.Assembly, Chrom: chrom, Start: iv.Start, Stop: iv.Stop}, nil
}

// EncodeIntervalKey encodes the primary (rank, start) prefix for an
// interval-valued CF, per §4.5 invariant 5: "the stored key encodes the
// start of the interval; the value carries the stop". id is an opaque
// tail appended after start so that multiple intervals sharing a start
// position (e.g. overlapping SVs) get distinct keys; pass a stable,
// unique-per-record id (an accession, or a zero-padded ordinal).
func EncodeIntervalKey(chrom string, start uint32, id string) ([]byte, error) {
	rank, err := ChromRank(chrom)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 5+len(id))
	buf = append(buf, rank)
	var startBuf [4]byte
	binary.BigEndian.PutUint32(startBuf[:], start)
	buf = append(buf, startBuf[:]...)
	buf = append(buf, id...)
	return buf, nil
}

// DecodeIntervalKeyPrefix decodes an interval key into its chromosome,
// start and trailing id tail (empty when the key has none).
func DecodeIntervalKeyPrefix(key []byte) (chrom string, start uint32, id string, err error) {
	if len(key) < 5 {
		return "", 0, "", errs.New(errs.InvalidInput, "interval key too short")
	}
	chrom, err = RankToChrom(key[0])
	if err != nil {
		return "", 0, "", err
	}
	start = binary.BigEndian.Uint32(key[1:5])
	id = string(key[5:])
	return chrom, start, id, nil
}

// --- UCSC-style binning scheme (spec §4.5, §9) ---
//
// A fixed hierarchy of bin sizes, powers of two down from 2^32 bp, so
// that every interval fits in exactly one bin (the smallest bin fully
// containing it). A query window overlaps every bin it spans at each of
// the six levels, so the number of bin prefixes scanned grows with the
// window's length (about one per 128 kb at the finest level); it is not
// bounded independently of window length. This mirrors the classic UCSC
// Kent-source binning scheme used by BED/bigBed indexes.

const (
	binFirstShift = 17 // finest bin size: 2^17 = 128kb... actually 2^17=131072
	binNextShift  = 3  // each level groups 2^3 = 8 bins from the level below
)

// binLevelOffsets are the starting bin number for each level, smallest
// (finest) bins first. Level 0 covers 2^17 bp, level 5 covers
// 2^(17+5*3)=2^32 bp, comfortably above any chromosome length.
var binLevelOffsets = computeBinLevelOffsets()

func computeBinLevelOffsets() [6]uint32 {
	var offsets [6]uint32
	var sum uint32
	for level := 5; level >= 0; level-- {
		offsets[level] = sum
		sum += 1 << uint(3*(5-level))
	}
	return offsets
}

// BinForRange returns the smallest UCSC-style bin containing [start, end]
// (0-based half-open, matching the Kent source convention; callers using
// 1-based inclusive coordinates should pass start-1).
func BinForRange(start, end uint32) uint32 {
	startBin := start >> binFirstShift
	endBin := (end - 1) >> binFirstShift
	if end == 0 {
		endBin = 0
	}
	for level := 0; level < 6; level++ {
		if startBin == endBin {
			return binLevelOffsets[level] + startBin
		}
		startBin >>= binNextShift
		endBin >>= binNextShift
	}
	return binLevelOffsets[5]
}

// BinsOverlappingRange returns every bin number that could contain an
// interval overlapping [start, end]: for each level, the range of bins
// the query window itself spans at that granularity. A range query
// iterates one prefix scan per returned bin.
func BinsOverlappingRange(start, end uint32) []uint32 {
	if end < start {
		start, end = end, start
	}
	var bins []uint32
	startBin := start >> binFirstShift
	endBin := end >> binFirstShift
	for level := 0; level < 6; level++ {
		for b := startBin; b <= endBin; b++ {
			bins = append(bins, binLevelOffsets[level]+b)
		}
		startBin >>= binNextShift
		endBin >>= binNextShift
	}
	return bins
}

// EncodeBinKey encodes a (rank, bin, start) key for the bin-indexed
// secondary CF used by interval overlap queries (§4.5, §9): bin-prefix
// scans replace an interval tree because the store is an ordered KV with
// efficient prefix scans.
func EncodeBinKey(chrom string, bin uint32, start uint32, id string) ([]byte, error) {
	rank, err := ChromRank(chrom)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 9+len(id))
	buf = append(buf, rank)
	var binBuf [4]byte
	binary.BigEndian.PutUint32(binBuf[:], bin)
	buf = append(buf, binBuf[:]...)
	var startBuf [4]byte
	binary.BigEndian.PutUint32(startBuf[:], start)
	buf = append(buf, startBuf[:]...)
	buf = append(buf, id...)
	return buf, nil
}

// EncodeBinPrefix encodes the (rank, bin) prefix for a single bin-prefix
// scan.
func EncodeBinPrefix(chrom string, bin uint32) ([]byte, error) {
	rank, err := ChromRank(chrom)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 5)
	buf[0] = rank
	binary.BigEndian.PutUint32(buf[1:], bin)
	return buf, nil
}

// Overlaps reports whether the closed interval [aStart, aEnd] overlaps
// [bStart, bEnd], used as the final exact filter after a bin-prefix scan.
func Overlaps(aStart, aEnd, bStart, bEnd uint32) bool {
	return aStart <= bEnd && bStart <= aEnd
}

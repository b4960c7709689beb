package query

import (
	"context"
	"math"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// IntervalRecord is implemented by every interval-keyed dataset's record
// type (SVRecord, ClinVarSVRecord, FunctionalElementRecord) so RangeInterval
// can apply the exact overlap filter of spec §4.5 after a bin-prefix
// scan, without the query package knowing each dataset's concrete shape.
type IntervalRecord interface {
	Bounds() (start, stop uint32)
}

// RangeVariant implements spec §4.5's range query for point-variant CFs:
// iterate from (rank, start) to (rank, stop+1).
func RangeVariant(ctx context.Context, st store.Store, ds schema.Dataset, assembly, chrom string, start, stop uint32) ([]schema.Record, error) {
	if err := CheckAssembly(ctx, st, assembly); err != nil {
		return nil, err
	}
	if start > stop {
		return nil, errs.New(errs.InvalidInput, "range query start must be <= stop")
	}
	canonChrom, err := codec.CanonicalizeChrom(chrom)
	if err != nil {
		return nil, err
	}
	lo, err := codec.EncodePositionPrefix(canonChrom, start)
	if err != nil {
		return nil, err
	}
	var hi []byte
	if stop != math.MaxUint32 {
		hi, err = codec.EncodePositionPrefix(canonChrom, stop+1)
		if err != nil {
			return nil, err
		}
	} else {
		// stop+1 would overflow; fall back to the chromosome's upper
		// bound (next rank) so the scan still terminates correctly.
		hi, err = codec.EncodeChromPrefix(canonChrom)
		if err != nil {
			return nil, err
		}
		hi = append(hi, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	}

	it, err := st.IterateRange(ctx, ds.CFs().Primary, lo, hi)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []schema.Record
	for it.Next() {
		rec, err := decodeRecord(ds, it.KeyValue().Value)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, it.Err()
}

// RangeInterval implements spec §4.5's range query for interval CFs:
// compute the UCSC-style bins overlapping the query window, iterate each
// bin prefix via the dataset's bin CF, resolve the stored primary key,
// fetch+decode the primary-CF record, and keep only records whose
// (start, stop) truly overlaps [start, stop] (spec §8 invariant 5).
func RangeInterval(ctx context.Context, st store.Store, ds schema.Dataset, assembly, chrom string, start, stop uint32) ([]schema.Record, error) {
	if err := CheckAssembly(ctx, st, assembly); err != nil {
		return nil, err
	}
	if start > stop {
		return nil, errs.New(errs.InvalidInput, "range query start must be <= stop")
	}
	cfs := ds.CFs()
	if cfs.Bin == "" {
		return nil, errs.New(errs.InvalidInput, "dataset "+ds.Name()+" has no bin-indexed CF for interval range queries")
	}
	canonChrom, err := codec.CanonicalizeChrom(chrom)
	if err != nil {
		return nil, err
	}

	bins := codec.BinsOverlappingRange(start-1, stop)
	var out []schema.Record
	for _, bin := range bins {
		prefix, err := codec.EncodeBinPrefix(canonChrom, bin)
		if err != nil {
			return nil, err
		}
		it, err := st.IteratePrefix(ctx, cfs.Bin, prefix)
		if err != nil {
			return nil, err
		}
		for it.Next() {
			primaryKey := it.KeyValue().Value
			data, ok, err := st.Get(ctx, cfs.Primary, primaryKey)
			if err != nil {
				it.Close()
				return nil, err
			}
			if !ok {
				continue // primary record removed/overwritten since the bin entry was written
			}
			rec, err := decodeRecord(ds, data)
			if err != nil {
				it.Close()
				return nil, err
			}
			ir, ok := rec.(IntervalRecord)
			if !ok {
				it.Close()
				return nil, errs.New(errs.StoreError, "dataset "+ds.Name()+" record does not implement IntervalRecord")
			}
			recStart, recStop := ir.Bounds()
			if codec.Overlaps(recStart, recStop, start, stop) {
				out = append(out, rec)
			}
		}
		if err := it.Err(); err != nil {
			it.Close()
			return nil, err
		}
		it.Close()
	}
	return out, nil
}

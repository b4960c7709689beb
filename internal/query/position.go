package query

import (
	"context"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// Position implements spec §4.5's position query: encode the (rank, pos)
// prefix and iterate, yielding every variant sharing that position in
// key order. Key order at a fixed (rank, pos) prefix is determined by
// (ref-length, ref bytes, alt bytes), which for a shared single-base ref
// reduces to alt-lex order - spec §8 scenario 1's "both rows in alt-lex
// order (C before T)".
func Position(ctx context.Context, st store.Store, ds schema.Dataset, assembly, chrom string, pos uint32) ([]schema.Record, error) {
	if err := CheckAssembly(ctx, st, assembly); err != nil {
		return nil, err
	}
	canonChrom, err := codec.CanonicalizeChrom(chrom)
	if err != nil {
		return nil, err
	}
	prefix, err := codec.EncodePositionPrefix(canonChrom, pos)
	if err != nil {
		return nil, err
	}
	it, err := st.IteratePrefix(ctx, ds.CFs().Primary, prefix)
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
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package query

import (
	"context"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// PointVariant implements spec §4.5's point variant query: canonicalize
// variant, encode key, get on primary CF, decode value. A miss is not an
// error (spec §7 NotFound: "In query APIs this is not an error but an
// empty/None result").
func PointVariant(ctx context.Context, st store.Store, ds schema.Dataset, assembly string, v codec.Variant) (schema.Record, bool, error) {
	if err := CheckAssembly(ctx, st, assembly); err != nil {
		return nil, false, err
	}
	canon, err := v.Canonicalize()
	if err != nil {
		return nil, false, err
	}
	key, err := codec.EncodeVariantKey(canon)
	if err != nil {
		return nil, false, err
	}
	data, ok, err := st.Get(ctx, ds.CFs().Primary, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	rec, err := decodeRecord(ds, data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

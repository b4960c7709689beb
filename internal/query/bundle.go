package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// VariantDatabase pairs a dataset registration with the open store it
// lives in, since a real deployment fans a single variant out across
// several distinct database directories (one per dataset), not several
// CFs in one store (spec §3 lifecycle: "a new version produces a new
// database directory").
type VariantDatabase struct {
	Dataset schema.Dataset
	Store   store.Store
	// Assembly is the genome-release this database declares. The bundle
	// operator does not read it: it checks its own assembly argument
	// against each store's recorded genome-release, and a mismatch fails
	// only that member's entry.
	Assembly string
}

// BundleEntry is one dataset's contribution to a variant annotation
// bundle: Record is nil when the dataset has no entry for the variant or
// when the per-dataset lookup failed (spec §4.5: "missing datasets
// contribute null but the bundle succeeds").
type BundleEntry struct {
	Dataset string
	Record  schema.Record
	Err     error
}

// VariantAnnotationBundle implements spec §4.5's composite operator:
// "fans out a single variant to all configured variant datasets;
// per-dataset failures degrade gracefully - missing datasets contribute
// null but the bundle succeeds." Grounded on internal/annotate/
// annotator.go's multi-source fan-out pattern, generalized from
// "compute a prediction" to "look up a stored value" per dataset.
func VariantAnnotationBundle(ctx context.Context, databases []VariantDatabase, assembly string, v codec.Variant, logger *zap.Logger) []BundleEntry {
	out := make([]BundleEntry, 0, len(databases))
	for _, db := range databases {
		entry := BundleEntry{Dataset: db.Dataset.Name()}
		rec, ok, err := PointVariant(ctx, db.Store, db.Dataset, assembly, v)
		if kind, isTyped := errs.Of(err); isTyped && kind == errs.NotFound {
			// the dataset is absent from this store: it contributes null
		} else if err != nil {
			entry.Err = err
			if logger != nil {
				logger.Warn("variant annotation bundle: dataset lookup failed, contributing null",
					zap.String("dataset", db.Dataset.Name()),
					zap.Error(err),
				)
			}
		} else if ok {
			entry.Record = rec
		}
		out = append(out, entry)
	}
	return out
}

// Package query implements the point, position, range, and accession
// query operators of spec §4.5 over the store/schema layers, plus the
// two composite operators used by the service layer (gene lookup,
// variant annotation bundle). Grounded on internal/cache's
// CacheWithLoader.FindTranscripts on-demand-region idiom for how an
// operator lazily touches the store, internal/cache/intervaltree.go's
// suffix-max overlap algorithm reworked into bin-prefix-scan-then-filter,
// and internal/annotate/annotator.go's multi-source fan-out-with-partial-
// failure pattern for the bundle operator.
package query

import (
	"context"
	"strings"

	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// CheckAssembly implements spec §3 invariant 1 / §7 AssemblyMismatch:
// every user-facing database has a "genome-release" metadata entry, and
// a query naming an assembly must match it case-insensitively before any
// other store access happens (spec §8 scenario 6).
func CheckAssembly(ctx context.Context, st store.Store, assembly string) error {
	release, ok, err := st.MetaGet(ctx, schema.MetaGenomeRelease)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New(errs.NotFound, "database missing genome-release metadata entry")
	}
	if !strings.EqualFold(release, assembly) {
		return errs.New(errs.AssemblyMismatch, "query assembly "+assembly+" does not match database genome-release "+release)
	}
	return nil
}

// decodeRecord decodes stored bytes into a fresh Record of ds's type.
func decodeRecord(ds schema.Dataset, data []byte) (schema.Record, error) {
	rec := ds.Record()
	if err := rec.Decode(data); err != nil {
		return nil, errs.Wrap(errs.StoreError, "decode "+ds.Name()+" record", err)
	}
	return rec, nil
}

package query

import (
	"context"
	"strings"

	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// Accession implements spec §4.5's accession query: look up the
// canonical key in the by-accession CF, then point-query the primary CF.
// Returns ok=false if either step misses (spec §3 invariant 4 guarantees
// a hit here always resolves, but a query against an unrelated accession
// legitimately misses at the first step). caseInsensitive is true only
// for gene symbols (spec §4.5, §8: "Accession lookup is case-insensitive
// for gene symbols, case-sensitive for structured IDs"); when
// caseInsensitive is true the accession is upper-cased here, matching
// the uppercase convention ingest/genes.go writes symbol keys under.
func Accession(ctx context.Context, st store.Store, ds schema.Dataset, accessionCF, accession string, caseInsensitive bool) (schema.Record, bool, error) {
	if accessionCF == "" {
		return nil, false, errs.New(errs.InvalidInput, "dataset "+ds.Name()+" has no accession CF")
	}
	lookupKey := accession
	if caseInsensitive {
		lookupKey = strings.ToUpper(accession)
	}
	primaryKey, ok, err := st.Get(ctx, accessionCF, []byte(lookupKey))
	if err != nil || !ok {
		return nil, ok, err
	}
	data, ok, err := st.Get(ctx, ds.CFs().Primary, primaryKey)
	if err != nil || !ok {
		return nil, ok, err
	}
	rec, err := decodeRecord(ds, data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

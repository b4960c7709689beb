package query

import (
	"context"

	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// GeneLookup implements spec §4.5's composite gene-lookup operator:
// "accepts one of: HGNC ID, NCBI gene ID, Ensembl ID, symbol; probes each
// accession CF in a declared order; first hit wins" (spec §8 scenario 5:
// lookup by symbol "TGDS" and by "HGNC:20324" return the same record).
// The probe order is HGNC ID, NCBI gene ID, Ensembl ID, then symbol
// (case-insensitive) last, since symbol is the only ambiguous/lossy
// accession of the four.
func GeneLookup(ctx context.Context, st store.Store, ds schema.Dataset, query string) (schema.Record, bool, error) {
	cfs := ds.CFs()
	if rec, ok, err := tryAccession(ctx, st, ds, cfs.ByAccession, query, false); ok || err != nil {
		return rec, ok, err
	}
	if cf, ok := cfs.Secondary["ncbi"]; ok {
		if rec, hit, err := tryAccession(ctx, st, ds, cf, query, false); hit || err != nil {
			return rec, hit, err
		}
	}
	if cf, ok := cfs.Secondary["ensembl"]; ok {
		if rec, hit, err := tryAccession(ctx, st, ds, cf, query, false); hit || err != nil {
			return rec, hit, err
		}
	}
	if cf, ok := cfs.Secondary["symbol"]; ok {
		if rec, hit, err := tryAccession(ctx, st, ds, cf, query, true); hit || err != nil {
			return rec, hit, err
		}
	}
	return nil, false, nil
}

func tryAccession(ctx context.Context, st store.Store, ds schema.Dataset, cf, query string, caseInsensitive bool) (schema.Record, bool, error) {
	if cf == "" {
		return nil, false, nil
	}
	return Accession(ctx, st, ds, cf, query, caseInsensitive)
}

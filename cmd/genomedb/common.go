package main

import (
	"github.com/genomedb/genomedb/internal/query"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// openReadStore opens path read-only, requiring the named dataset's
// primary column family to exist (spec §4.2 open_read_only).
func openReadStore(path string, ds schema.Dataset) (store.Store, error) {
	required := []string{ds.CFs().Primary}
	return store.OpenReadOnly(cmdContext(), path, required)
}

// openWriteStore opens or creates path for ingest (spec §4.2 open_read_write).
func openWriteStore(path string) (store.Store, error) {
	return store.OpenReadWrite(cmdContext(), path, store.DefaultOptions())
}

// runCoordinateQuery dispatches a parsed coordinate string to the point,
// position, or range operator appropriate for ds's key kind (spec §4.5,
// §6's three external coordinate shapes).
func runCoordinateQuery(st store.Store, ds schema.Dataset, assembly, coordStr string) (interface{}, error) {
	c, err := parseCoordinate(coordStr)
	if err != nil {
		return nil, err
	}
	ctx := cmdContext()
	switch c.Kind {
	case coordinateVariant:
		rec, ok, err := query.PointVariant(ctx, st, ds, assembly, c.toVariant())
		if err != nil || !ok {
			return nil, err
		}
		return rec, nil
	case coordinatePosition:
		return query.Position(ctx, st, ds, assembly, c.Chrom, c.Pos)
	case coordinateRange:
		if ds.KeyKind() == schema.KeyKindInterval {
			return query.RangeInterval(ctx, st, ds, assembly, c.Chrom, c.Pos, c.Stop)
		}
		return query.RangeVariant(ctx, st, ds, assembly, c.Chrom, c.Pos, c.Stop)
	}
	return nil, nil
}

// runAccessionQuery is the `--accession` path shared by every dataset
// carrying a by-accession CF (spec §4.5 accession query).
func runAccessionQuery(st store.Store, ds schema.Dataset, accessionCF, accession string, caseInsensitive bool) (interface{}, error) {
	rec, ok, err := query.Accession(cmdContext(), st, ds, accessionCF, accession, caseInsensitive)
	if err != nil || !ok {
		return nil, err
	}
	return rec, nil
}

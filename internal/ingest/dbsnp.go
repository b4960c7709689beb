package ingest

import (
	"context"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// ImportDBSNP implements the `dbsnp import` pipeline (spec §6): dbSNP
// ships as VCF, but this system only needs a thin rsID -> variant lookup
// (DESIGN.md), so each site's ID column becomes an accession-CF entry
// pointing at the canonical variant key, and the primary CF carries the
// rsID as a TabularRecord the way generic `tsv import` does.
// Grounded on the same vcfReader ImportGnomadVCF and ImportSVVCF use,
// multi-allelic sites split one rsID-bearing record per alt allele; the
// accession entry points at the key of the site's first indexed alt.
func ImportDBSNP(ctx context.Context, st store.Store, primaryCF, accessionCF, path string) error {
	r, err := newVCFReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.parseHeader(); err != nil {
		return err
	}
	if err := st.EnsureCF(ctx, primaryCF); err != nil {
		return err
	}
	if err := st.EnsureCF(ctx, accessionCF); err != nil {
		return err
	}

	primaryBatch := st.NewBatch(primaryCF)
	accessionBatch := st.NewBatch(accessionCF)
	for {
		site, err := r.next()
		if err != nil {
			return err
		}
		if site == nil {
			break
		}
		if site.ID == "" || site.ID == "." {
			continue // unnamed sites carry no accession, nothing to index
		}
		indexed := false
		for _, alt := range site.Alts {
			if alt == "" || alt == "*" {
				continue
			}
			v, err := codec.Variant{Chrom: site.Chrom, Pos: site.Pos, Ref: site.Ref, Alt: alt}.Canonicalize()
			if err != nil {
				return err
			}
			key, err := codec.EncodeVariantKey(v)
			if err != nil {
				return err
			}
			rec := &schema.TabularRecord{Line: []byte(site.ID)}
			data, err := rec.Encode()
			if err != nil {
				return err
			}
			primaryBatch.Put(key, data)
			if !indexed {
				accessionBatch.Put([]byte(site.ID), key)
				indexed = true
			}
		}
	}
	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	return accessionBatch.Commit(ctx)
}

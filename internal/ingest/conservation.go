package ingest

import (
	"context"
	"strconv"
	"strings"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// ConservationRow is one caller-parsed per-base conservation score row
// (chrom, 1-based pos, reference base, phyloP, phastCons, quantile bin).
type ConservationRow struct {
	Chrom       string
	Pos         uint32
	RefBase     string
	PhyloP      float64
	PhastCons   float64
	QuantileBin uint8
}

// ParseConservationTSV reads a header-driven TSV (chrom, pos, ref,
// phylo_p, phast_cons, quantile_bin columns, any order) into
// ConservationRow values, the same header-driven column lookup
// ParseGeneDosageTSV uses.
func ParseConservationTSV(lines []string) ([]ConservationRow, error) {
	if len(lines) == 0 {
		return nil, errs.New(errs.FormatError, "conservation tsv input is empty, missing header row")
	}
	colIndex := make(map[string]int)
	for i, c := range strings.Split(lines[0], "\t") {
		colIndex[c] = i
	}
	col := func(name string) (int, bool) {
		idx, ok := colIndex[name]
		return idx, ok
	}
	get := func(fields []string, idx int, ok bool) string {
		if !ok || idx >= len(fields) {
			return ""
		}
		return fields[idx]
	}

	chromIdx, chromOK := col("chrom")
	posIdx, posOK := col("pos")
	refIdx, refOK := col("ref")
	if !chromOK || !posOK || !refOK {
		return nil, errs.New(errs.InvalidInput, "conservation tsv missing required chrom/pos/ref columns")
	}
	phyloIdx, phyloOK := col("phylo_p")
	phastIdx, phastOK := col("phast_cons")
	quantIdx, quantOK := col("quantile_bin")

	rows := make([]ConservationRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		pos, err := strconv.ParseUint(get(fields, posIdx, posOK), 10, 32)
		if err != nil {
			return nil, errs.New(errs.FormatError, "conservation tsv bad pos: "+err.Error())
		}
		phyloP, _ := strconv.ParseFloat(get(fields, phyloIdx, phyloOK), 64)
		phastCons, _ := strconv.ParseFloat(get(fields, phastIdx, phastOK), 64)
		quantile, _ := strconv.ParseUint(get(fields, quantIdx, quantOK), 10, 8)
		rows = append(rows, ConservationRow{
			Chrom:       get(fields, chromIdx, chromOK),
			Pos:         uint32(pos),
			RefBase:     strings.ToUpper(get(fields, refIdx, refOK)),
			PhyloP:      phyloP,
			PhastCons:   phastCons,
			QuantileBin: uint8(quantile),
		})
	}
	return rows, nil
}

// ImportConservation writes ConservationRow values into the cons
// dataset's primary CF (spec §4.4, `cons import`).
//
// Conservation scores are inherently per-base: a phyloP/phastCons value
// attaches to a reference position, not to a substitution, so there is
// no natural alt allele. The cons dataset is still declared variant-
// keyed (schema.NewConservationDataset) rather than given its own key
// scheme, so that `cons query` can reuse the same position/range query
// operators (internal/query.Position, internal/query.RangeVariant) as
// every other variant-keyed dataset instead of a bespoke lookup path.
// To fit codec.Variant's key, which requires a non-empty alt
// (Canonicalize rejects "" as "symbolic alleles belong to the SV
// path"), each row is keyed with alt equal to its own ref base - a
// self-substitution sentinel meaning "this row is the reference base
// itself, not an observed allele". Query callers asking for a specific
// substituted allele at a conserved position won't match a cons row;
// that is intentional, conservation is addressed by position.
func ImportConservation(ctx context.Context, st store.Store, datasetName string, rows []ConservationRow) error {
	if err := st.EnsureCF(ctx, datasetName); err != nil {
		return err
	}
	batch := st.NewBatch(datasetName)
	for _, row := range rows {
		if row.RefBase == "" {
			return errs.New(errs.InvalidInput, "conservation row missing ref base")
		}
		v, err := codec.Variant{Chrom: row.Chrom, Pos: row.Pos, Ref: row.RefBase, Alt: row.RefBase}.Canonicalize()
		if err != nil {
			return err
		}
		key, err := codec.EncodeVariantKey(v)
		if err != nil {
			return err
		}
		rec := &schema.ConservationRecord{PhyloP: row.PhyloP, PhastCons: row.PhastCons, QuantileBin: row.QuantileBin}
		data, err := rec.Encode()
		if err != nil {
			return err
		}
		batch.Put(key, data)
	}
	return batch.Commit(ctx)
}

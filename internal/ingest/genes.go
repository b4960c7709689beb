package ingest

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// GeneRecordKind distinguishes the two gene-level dataset shapes of spec
// §6: `genes` (dosage/haploinsufficiency metrics) and `clinvar-genes`
// (submission-count summaries). Both are keyed directly by HGNC ID bytes
// rather than through the variant codec - gene records have no
// (chrom,pos,ref,alt) identity at all - with symbol/NCBI/Ensembl
// secondary CFs resolving to the same primary key, the same
// accession-points-at-primary-key convention codec.Variant-keyed
// datasets use for their own secondary indices (spec §9 "Accession
// secondary indices vs. materialized keys").
type GeneRecordKind int

const (
	GeneRecordDosage GeneRecordKind = iota
	GeneRecordClinVarSummary
)

// GeneRow is one caller-parsed gene-level input row, source-agnostic
// (the CLI layer is responsible for reading whatever upstream format a
// given gene dataset ships in - TSV for dosage metrics, JSON for ClinVar
// gene summaries - and producing these typed rows).
type GeneRow struct {
	HGNCID     string
	Symbol     string
	NCBIGeneID string
	EnsemblID  string

	PHaplo  float64
	PTriplo float64
	LOEUF   float64
	MisZ    float64

	SubmissionCount    int
	TopClassification  string
}

// ParseGeneDosageTSV reads a header-driven TSV of gene dosage metrics
// (hgnc_id, symbol, ncbi_gene_id, ensembl_id, p_haplo, p_triplo, loeuf,
// mis_z columns, any order) into GeneRow values, grounded on the same
// header-driven column lookup tsv.go uses for variant-keyed tabular
// ingest.
func ParseGeneDosageTSV(lines []string) ([]GeneRow, error) {
	if len(lines) == 0 {
		return nil, errs.New(errs.FormatError, "gene dosage tsv input is empty, missing header row")
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
	getFloat := func(fields []string, idx int, ok bool) float64 {
		s := get(fields, idx, ok)
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}

	hgncIdx, hgncOK := col("hgnc_id")
	if !hgncOK {
		return nil, errs.New(errs.InvalidInput, "gene dosage tsv missing required hgnc_id column")
	}
	symIdx, symOK := col("symbol")
	ncbiIdx, ncbiOK := col("ncbi_gene_id")
	ensIdx, ensOK := col("ensembl_id")
	phIdx, phOK := col("p_haplo")
	ptIdx, ptOK := col("p_triplo")
	loeufIdx, loeufOK := col("loeuf")
	miszIdx, miszOK := col("mis_z")

	rows := make([]GeneRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		rows = append(rows, GeneRow{
			HGNCID:     get(fields, hgncIdx, hgncOK),
			Symbol:     get(fields, symIdx, symOK),
			NCBIGeneID: get(fields, ncbiIdx, ncbiOK),
			EnsemblID:  get(fields, ensIdx, ensOK),
			PHaplo:     getFloat(fields, phIdx, phOK),
			PTriplo:    getFloat(fields, ptIdx, ptOK),
			LOEUF:      getFloat(fields, loeufIdx, loeufOK),
			MisZ:       getFloat(fields, miszIdx, miszOK),
		})
	}
	return rows, nil
}

// clinVarGeneSummaryLine is the wire shape of one `clinvar-genes import`
// input line: a gene-level JSON object, not a variant-level one, so it
// does not go through ImportClinVarJSONL's variant-keyed pipeline.
type clinVarGeneSummaryLine struct {
	HGNCID            string `json:"hgnc_id"`
	Symbol            string `json:"symbol"`
	NCBIGeneID        string `json:"ncbi_gene_id"`
	EnsemblID         string `json:"ensembl_id"`
	SubmissionCount   int    `json:"submission_count"`
	TopClassification string `json:"top_classification"`
}

// ParseClinVarGenesJSONL reads one gene-summary object per line into
// GeneRow values for ImportGenes(kind=GeneRecordClinVarSummary). Blank
// lines are skipped, the same streaming-line-reader tolerance
// ImportClinVarJSONL applies to its variant-level input.
func ParseClinVarGenesJSONL(lines []string) ([]GeneRow, error) {
	rows := make([]GeneRow, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var l clinVarGeneSummaryLine
		if err := json.Unmarshal([]byte(line), &l); err != nil {
			return nil, errs.Wrap(errs.FormatError, "clinvar-genes jsonl line "+strconv.Itoa(i+1), err)
		}
		if l.HGNCID == "" {
			return nil, errs.New(errs.InvalidInput, "clinvar-genes jsonl line "+strconv.Itoa(i+1)+": missing hgnc_id")
		}
		rows = append(rows, GeneRow{
			HGNCID: l.HGNCID, Symbol: l.Symbol, NCBIGeneID: l.NCBIGeneID, EnsemblID: l.EnsemblID,
			SubmissionCount: l.SubmissionCount, TopClassification: l.TopClassification,
		})
	}
	return rows, nil
}

// ImportGenes writes GeneRow values into a gene-level dataset's primary
// CF (keyed by HGNC ID) and its symbol/NCBI/Ensembl secondary indices,
// per spec §6's persisted-layout convention and §4.5's composite gene-
// lookup operator ("probes each accession CF in a declared order").
// Gene-symbol secondary keys are stored upper-cased so accession lookup
// can be case-insensitive per spec §4.5/§8 while structured IDs (HGNC,
// NCBI, Ensembl) stay case-sensitive.
func ImportGenes(ctx context.Context, st store.Store, cfs schema.CFSet, kind GeneRecordKind, rows []GeneRow) error {
	if err := st.EnsureCF(ctx, cfs.Primary); err != nil {
		return err
	}
	if cfs.ByAccession != "" {
		if err := st.EnsureCF(ctx, cfs.ByAccession); err != nil {
			return err
		}
	}
	for _, cf := range cfs.Secondary {
		if err := st.EnsureCF(ctx, cf); err != nil {
			return err
		}
	}

	primaryBatch := st.NewBatch(cfs.Primary)
	var hgncBatch store.Batch
	if cfs.ByAccession != "" {
		hgncBatch = st.NewBatch(cfs.ByAccession)
	}
	secondaryBatches := make(map[string]store.Batch, len(cfs.Secondary))
	for name, cf := range cfs.Secondary {
		secondaryBatches[name] = st.NewBatch(cf)
	}

	for _, row := range rows {
		if row.HGNCID == "" {
			return errs.New(errs.InvalidInput, "gene row missing hgnc_id")
		}
		key := []byte(row.HGNCID)

		var rec schema.Record
		switch kind {
		case GeneRecordDosage:
			rec = &schema.GeneDosageRecord{
				HGNCID: row.HGNCID, Symbol: row.Symbol,
				NCBIGeneID: row.NCBIGeneID, EnsemblID: row.EnsemblID,
				PHaplo: row.PHaplo, PTriplo: row.PTriplo, LOEUF: row.LOEUF, MisZ: row.MisZ,
			}
		case GeneRecordClinVarSummary:
			rec = &schema.GeneSummaryRecord{
				HGNCID: row.HGNCID, Symbol: row.Symbol,
				NCBIGeneID: row.NCBIGeneID, EnsemblID: row.EnsemblID,
				SubmissionCount: row.SubmissionCount, TopClassification: row.TopClassification,
			}
		default:
			return errs.New(errs.InvalidInput, "unknown gene record kind "+strconv.Itoa(int(kind)))
		}
		data, err := rec.Encode()
		if err != nil {
			return err
		}
		primaryBatch.Put(key, data)

		if hgncBatch != nil {
			hgncBatch.Put(key, key)
		}
		if b, ok := secondaryBatches["symbol"]; ok && row.Symbol != "" {
			b.Put([]byte(strings.ToUpper(row.Symbol)), key)
		}
		if b, ok := secondaryBatches["ncbi"]; ok && row.NCBIGeneID != "" {
			b.Put([]byte(row.NCBIGeneID), key)
		}
		if b, ok := secondaryBatches["ensembl"]; ok && row.EnsemblID != "" {
			b.Put([]byte(row.EnsemblID), key)
		}
	}

	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	if hgncBatch != nil {
		if err := hgncBatch.Commit(ctx); err != nil {
			return err
		}
	}
	for _, b := range secondaryBatches {
		if err := b.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

package schema

import "encoding/json"

// Accession is a versioned upstream identifier, e.g. ClinVar's VCV
// accessions (spec §6, §8 scenario 3: re-importing a higher version
// overwrites the stored record).
type Accession struct {
	Acc     string `json:"acc"`
	Version int    `json:"version"`
}

// SequenceLocation pins a ClinVar record to the sequence-variant coordinate
// it annotates.
type SequenceLocation struct {
	Chrom string `json:"chr"`
	Start uint32 `json:"start"`
	Ref   string `json:"ref"`
	Alt   string `json:"alt"`
}

// ClinicalAssertion is one submitter's classification of a variant.
type ClinicalAssertion struct {
	Submitter      string `json:"submitter"`
	Classification string `json:"classification"`
	ReviewStatus   string `json:"review_status"`
}

// ClinVarRecord is the "Extracted ClinVar record" contract of spec §6:
// "accession{acc, version}, name, variation_type, classifications,
// clinical_assertions[], sequence_location, hgnc_ids[]". Encoded as JSON
// (DESIGN.md: the teacher's own internal/cache.ExportToJSON convention)
// since a clinical curation record has no fixed-width numeric axis the
// way allele counts do.
type ClinVarRecord struct {
	Accession           Accession            `json:"accession"`
	Name                string               `json:"name"`
	VariationType       string               `json:"variation_type"`
	Classifications     []string             `json:"classifications"`
	ClinicalAssertions  []ClinicalAssertion  `json:"clinical_assertions"`
	SequenceLocation    SequenceLocation     `json:"sequence_location"`
	HGNCIDs             []string             `json:"hgnc_ids"`
}

// Encode implements Record.
func (r *ClinVarRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *ClinVarRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

// ClinVarSVRecord extends ClinVarRecord with the structural-variant
// breakend fields needed by the clinvar-sv dataset; spec §8 boundary case:
// "very long REF/ALT (> 50 bp) in structural-variant ClinVar input:
// filtered out per configured threshold" is enforced by the ingest
// pipeline, not this type.
type ClinVarSVRecord struct {
	Accession          Accession           `json:"accession"`
	Name               string              `json:"name"`
	VariationType      string              `json:"variation_type"`
	Classifications    []string            `json:"classifications"`
	ClinicalAssertions []ClinicalAssertion `json:"clinical_assertions"`
	Chrom              string              `json:"chrom"`
	Start              uint32              `json:"start"`
	Stop               uint32              `json:"stop"`
	HGNCIDs            []string            `json:"hgnc_ids"`
}

// Encode implements Record.
func (r *ClinVarSVRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *ClinVarSVRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

// Bounds implements query.IntervalRecord.
func (r *ClinVarSVRecord) Bounds() (start, stop uint32) { return r.Start, r.Stop }

// GeneSummaryRecord is the ClinVar clinvar-genes dataset's per-gene
// summary record (submission counts, review status distribution) keyed
// by HGNC ID with gene-symbol and cross-reference accession indices.
type GeneSummaryRecord struct {
	HGNCID        string `json:"hgnc_id"`
	Symbol        string `json:"symbol"`
	NCBIGeneID    string `json:"ncbi_gene_id"`
	EnsemblID     string `json:"ensembl_id"`
	SubmissionCount int  `json:"submission_count"`
	TopClassification string `json:"top_classification"`
}

// Encode implements Record.
func (r *GeneSummaryRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *GeneSummaryRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

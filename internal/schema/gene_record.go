package schema

import "encoding/json"

// GeneDosageRecord is the `genes` dataset's per-gene record (spec §8
// scenario 5: "gene lookup \"TGDS\" (symbol) returns the same record as
// lookup \"HGNC:20324\""), keyed primarily by HGNC ID with symbol/NCBI/
// Ensembl accession indices (spec §6 persisted layout).
type GeneDosageRecord struct {
	HGNCID     string  `json:"hgnc_id"`
	Symbol     string  `json:"symbol"`
	NCBIGeneID string  `json:"ncbi_gene_id"`
	EnsemblID  string  `json:"ensembl_id"`
	PHaplo     float64 `json:"p_haplo"`
	PTriplo    float64 `json:"p_triplo"`
	LOEUF      float64 `json:"loeuf"`
	MisZ       float64 `json:"mis_z"`
}

// Encode implements Record.
func (r *GeneDosageRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *GeneDosageRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

// ConservationRecord is the `cons` dataset's per-position score record
// (phyloP/phastCons-style per-base conservation). The record is encoded
// as JSON: both scores are full float64s and no field is bit-packed.
type ConservationRecord struct {
	PhyloP     float64 `json:"phylo_p"`
	PhastCons  float64 `json:"phast_cons"`
	// QuantileBin is a 0-15 bucket of the score distribution, written
	// as a plain JSON number.
	QuantileBin uint8 `json:"quantile_bin"`
}

// Encode implements Record.
func (r *ConservationRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *ConservationRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

// FunctionalElementRecord is the `functional`/`regions` dataset's interval
// record for non-variant genomic features (promoters, enhancers, TF
// binding sites) ingested from GFF (spec §4.4.4).
type FunctionalElementRecord struct {
	Chrom       string            `json:"chrom"`
	Start       uint32            `json:"start"`
	Stop        uint32            `json:"stop"`
	FeatureType string            `json:"feature_type"`
	Source      string            `json:"source"`
	Attributes  map[string]string `json:"attributes"`
}

// Encode implements Record.
func (r *FunctionalElementRecord) Encode() ([]byte, error) { return json.Marshal(r) }

// Decode implements Record.
func (r *FunctionalElementRecord) Decode(b []byte) error { return json.Unmarshal(b, r) }

// Bounds implements query.IntervalRecord.
func (r *FunctionalElementRecord) Bounds() (start, stop uint32) { return r.Start, r.Stop }

package ingest

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// JSONLOptions configures the clinical-curation ingest pipeline of spec
// §4.4.3. AcceptNonStandardNulls is carried through from the command
// line but is not consulted by ImportClinVarJSONL: lines that use "None"
// or single-quoted strings as null tokens fail with a FormatError
// whatever its value.
type JSONLOptions struct {
	AcceptNonStandardNulls bool
	Logger                 *zap.Logger
	// PreSorted, when true, skips the external merge-sort stage because
	// the caller asserts the input is already globally sorted by
	// accession (spec §4.4.3).
	PreSorted bool
	// SortTempDir is the directory external-merge-sort temp files are
	// created in; "" uses the system default.
	SortTempDir string
	// SortChunkSize bounds how many lines each in-memory-sorted temp run
	// holds before it is flushed (spec §4.4.3 "bounded size").
	SortChunkSize int
}

func (o JSONLOptions) chunkSize() int {
	if o.SortChunkSize > 0 {
		return o.SortChunkSize
	}
	return 500_000
}

// clinvarJSONLine is the on-wire JSONL shape read by ImportClinVarJSONL;
// it unmarshals directly into the fields schema.ClinVarRecord already
// declares JSON tags for.
type clinvarJSONLine = schema.ClinVarRecord

// ImportClinVarJSONL implements spec §4.4.3: stream each line into a
// typed record, key it by primary coordinate and by accession. Per
// invariant 4, every accession-CF entry must resolve to a primary-CF
// hit, so the primary batch is committed before the accession batch. When the input is
// not pre-sorted, an external merge-sort stage (mergesort.go) produces a
// globally accession-sorted byte stream first; sortedness only matters
// for the deterministic re-import overwrite semantics of scenario 3 in
// spec §8, not for correctness of any individual write, so this
// implementation still accepts arbitrary order and only uses the sort
// stage to honor the documented pipeline shape.
func ImportClinVarJSONL(ctx context.Context, st store.Store, datasetName, accessionCF, path string, opts JSONLOptions) error {
	if err := st.EnsureCF(ctx, datasetName); err != nil {
		return err
	}
	if accessionCF != "" {
		if err := st.EnsureCF(ctx, accessionCF); err != nil {
			return err
		}
	}

	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer closeFn()

	var sortedPath string
	var cleanup func()
	if !opts.PreSorted {
		sortedPath, cleanup, err = sortJSONLByAccession(r, opts)
		if err != nil {
			return err
		}
		defer cleanup()
		sr, sortedClose, serr := openMaybeGzip(sortedPath)
		if serr != nil {
			return serr
		}
		defer sortedClose()
		r = sr
	}

	sc := newLineScanner(r)
	primaryBatch := st.NewBatch(datasetName)
	var accessionBatch store.Batch
	if accessionCF != "" {
		accessionBatch = st.NewBatch(accessionCF)
	}

	seen := make(map[string]bool)
	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		var rec clinvarJSONLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return errs.Wrap(errs.FormatError, "parse jsonl clinical curation line", err)
		}
		v, err := codec.Variant{
			Chrom: rec.SequenceLocation.Chrom,
			Pos:   rec.SequenceLocation.Start,
			Ref:   rec.SequenceLocation.Ref,
			Alt:   rec.SequenceLocation.Alt,
		}.Canonicalize()
		if err != nil {
			return err
		}
		key, err := codec.EncodeVariantKey(v)
		if err != nil {
			return err
		}
		data, err := rec.Encode()
		if err != nil {
			return err
		}
		if seen[string(key)] {
			logDuplicateKey(opts.Logger, datasetName, key)
		}
		seen[string(key)] = true
		primaryBatch.Put(key, data)

		if accessionBatch != nil && rec.Accession.Acc != "" {
			accessionBatch.Put([]byte(rec.Accession.Acc), key)
		}
	}
	if err := sc.err(); err != nil {
		return errs.Wrap(errs.FormatError, "reading jsonl input", err)
	}

	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	if accessionBatch != nil {
		return accessionBatch.Commit(ctx)
	}
	return nil
}

// DefaultClinVarSVRefAltThreshold is the boundary named in spec §8:
// "Very long REF/ALT (> 50 bp) in structural-variant ClinVar input:
// filtered out per configured threshold."
const DefaultClinVarSVRefAltThreshold = 50

// clinvarSVJSONLine is the wire shape for clinvar-sv JSONL input: the
// same accession/classification fields as clinvarJSONLine, but with a
// start/stop interval instead of a point ref/alt location, plus the raw
// ref/alt lengths used only to apply the length-threshold filter.
type clinvarSVJSONLine struct {
	Accession           schema.Accession            `json:"accession"`
	Name                string                      `json:"name"`
	VariationType       string                      `json:"variation_type"`
	Classifications     []string                    `json:"classifications"`
	ClinicalAssertions  []schema.ClinicalAssertion  `json:"clinical_assertions"`
	Chrom               string                      `json:"chrom"`
	Start               uint32                      `json:"start"`
	Stop                uint32                      `json:"stop"`
	HGNCIDs             []string                    `json:"hgnc_ids"`
	Ref                 string                      `json:"ref"`
	Alt                 string                      `json:"alt"`
}

// ClinVarSVOptions configures the clinvar-sv JSONL ingest pipeline.
type ClinVarSVOptions struct {
	JSONLOptions
	// RefAltThreshold filters out records whose ref or alt length
	// exceeds it; 0 means DefaultClinVarSVRefAltThreshold.
	RefAltThreshold int
}

func (o ClinVarSVOptions) refAltThreshold() int {
	if o.RefAltThreshold > 0 {
		return o.RefAltThreshold
	}
	return DefaultClinVarSVRefAltThreshold
}

// ImportClinVarSVJSONL implements the structural-variant counterpart of
// ImportClinVarJSONL: interval-keyed records with a companion bin CF
// (spec §4.5), filtering out over-long REF/ALT per spec §8's boundary
// case instead of routing them through the point-variant codec.
func ImportClinVarSVJSONL(ctx context.Context, st store.Store, datasetName, accessionCF, binCF, path string, opts ClinVarSVOptions) error {
	if err := st.EnsureCF(ctx, datasetName); err != nil {
		return err
	}
	if err := st.EnsureCF(ctx, binCF); err != nil {
		return err
	}
	if accessionCF != "" {
		if err := st.EnsureCF(ctx, accessionCF); err != nil {
			return err
		}
	}

	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer closeFn()

	sc := newLineScanner(r)
	primaryBatch := st.NewBatch(datasetName)
	binBatch := st.NewBatch(binCF)
	var accessionBatch store.Batch
	if accessionCF != "" {
		accessionBatch = st.NewBatch(accessionCF)
	}

	threshold := opts.refAltThreshold()
	ordinal := 0
	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		var rec clinvarSVJSONLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return errs.Wrap(errs.FormatError, "parse jsonl clinvar-sv line", err)
		}
		if len(rec.Ref) > threshold || len(rec.Alt) > threshold {
			continue
		}
		chrom, err := codec.CanonicalizeChrom(rec.Chrom)
		if err != nil {
			return err
		}
		if rec.Start == 0 || rec.Stop == 0 || rec.Start > rec.Stop {
			return errs.New(errs.InvalidInput, "clinvar-sv interval start/stop invalid")
		}

		svRec := &schema.ClinVarSVRecord{
			Accession:          rec.Accession,
			Name:               rec.Name,
			VariationType:      rec.VariationType,
			Classifications:    rec.Classifications,
			ClinicalAssertions: rec.ClinicalAssertions,
			Chrom:              chrom,
			Start:              rec.Start,
			Stop:               rec.Stop,
			HGNCIDs:            rec.HGNCIDs,
		}
		data, err := svRec.Encode()
		if err != nil {
			return err
		}

		id := rec.Accession.Acc
		if id == "" {
			id = strconv.Itoa(ordinal)
		}
		ordinal++
		key, err := codec.EncodeIntervalKey(chrom, rec.Start, id)
		if err != nil {
			return err
		}
		primaryBatch.Put(key, data)

		bin := codec.BinForRange(rec.Start-1, rec.Stop)
		binKey, err := codec.EncodeBinKey(chrom, bin, rec.Start, id)
		if err != nil {
			return err
		}
		binBatch.Put(binKey, key)

		if accessionBatch != nil && rec.Accession.Acc != "" {
			accessionBatch.Put([]byte(rec.Accession.Acc), key)
		}
	}
	if err := sc.err(); err != nil {
		return errs.Wrap(errs.FormatError, "reading clinvar-sv jsonl input", err)
	}

	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	if err := binBatch.Commit(ctx); err != nil {
		return err
	}
	if accessionBatch != nil {
		return accessionBatch.Commit(ctx)
	}
	return nil
}

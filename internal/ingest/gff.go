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

// GFFFeature is one parsed 9-column GFF3/GTF feature line, grounded on
// internal/cache/gtf_loader.go's gtfFeature (same column layout; GFF3
// attribute strings use "key=value;..." rather than GTF's
// `key "value";...`, handled by parseGFFAttributes below).
type GFFFeature struct {
	Chrom      string
	Source     string
	Type       string
	Start      uint32
	End        uint32
	Score      string
	Strand     string
	Phase      string
	Attributes map[string]string
}

// FeaturePredicate filters which feature lines are kept, generalizing
// GTFLoader's implicit protein-coding-only filtering (spec §4.4.4:
// "filtered by caller-supplied feature-class predicates").
type FeaturePredicate func(GFFFeature) bool

// AcceptAllFeatures is the predicate that keeps every feature line.
func AcceptAllFeatures(GFFFeature) bool { return true }

// FeatureTypeIn returns a predicate accepting only the named feature
// types (column 3 of the GFF/GTF record, e.g. "promoter", "enhancer").
func FeatureTypeIn(types ...string) FeaturePredicate {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(f GFFFeature) bool { return set[f.Type] }
}

// ParseGFFLine parses a single 9-column GFF3/GTF line, grounded on
// GTFLoader.parseLine.
func ParseGFFLine(line string) (GFFFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return GFFFeature{}, errs.New(errs.FormatError, "invalid gff line: expected 9 fields, got "+strconv.Itoa(len(fields)))
	}
	start, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return GFFFeature{}, errs.Wrap(errs.FormatError, "parse gff start", err)
	}
	end, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return GFFFeature{}, errs.Wrap(errs.FormatError, "parse gff end", err)
	}
	chrom, err := codec.CanonicalizeChrom(fields[0])
	if err != nil {
		return GFFFeature{}, err
	}
	return GFFFeature{
		Chrom:      chrom,
		Source:     fields[1],
		Type:       fields[2],
		Start:      uint32(start),
		End:        uint32(end),
		Score:      fields[5],
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: parseGFFAttributes(fields[8]),
	}, nil
}

// parseGFFAttributes accepts both GFF3 ("key=value;key2=value2") and GTF
// (`key "value"; key2 "value2";`) attribute-column conventions, since
// both appear in practice for "functional element" upstream sources;
// grounded on GTFLoader.parseAttributes's split-by-semicolon shape.
func parseGFFAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx != -1 && !strings.Contains(part[:idx], " ") {
			attrs[part[:idx]] = strings.Trim(part[idx+1:], "\"")
			continue
		}
		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}
		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}
	return attrs
}

// GFFImportOptions configures the functional-element ingest pipeline of
// spec §4.4.4.
type GFFImportOptions struct {
	// Predicate filters which feature lines are written; defaults to
	// AcceptAllFeatures.
	Predicate FeaturePredicate
}

// ImportGFF implements spec §4.4.4: feature records are read, filtered by
// a caller-supplied predicate, and written as interval records into a
// dataset-specific CF using the interval+bin layout (spec §4.5).
func ImportGFF(ctx context.Context, st store.Store, primaryCF, binCF string, path string, opts GFFImportOptions) error {
	predicate := opts.Predicate
	if predicate == nil {
		predicate = AcceptAllFeatures
	}

	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := st.EnsureCF(ctx, primaryCF); err != nil {
		return err
	}
	if err := st.EnsureCF(ctx, binCF); err != nil {
		return err
	}

	sc := newLineScanner(r)
	primaryBatch := st.NewBatch(primaryCF)
	binBatch := st.NewBatch(binCF)
	ordinal := 0
	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		feat, err := ParseGFFLine(line)
		if err != nil {
			return err
		}
		if !predicate(feat) {
			continue
		}
		if feat.Start == 0 || feat.End == 0 || feat.Start > feat.End {
			continue
		}

		rec := &schema.FunctionalElementRecord{
			Chrom:       feat.Chrom,
			Start:       feat.Start,
			Stop:        feat.End,
			FeatureType: feat.Type,
			Source:      feat.Source,
			Attributes:  feat.Attributes,
		}
		data, err := rec.Encode()
		if err != nil {
			return err
		}

		id := strconv.Itoa(ordinal)
		ordinal++
		key, err := codec.EncodeIntervalKey(feat.Chrom, feat.Start, id)
		if err != nil {
			return err
		}
		primaryBatch.Put(key, data)

		bin := codec.BinForRange(feat.Start-1, feat.End)
		binKey, err := codec.EncodeBinKey(feat.Chrom, bin, feat.Start, id)
		if err != nil {
			return err
		}
		binBatch.Put(binKey, key)
	}
	if err := sc.err(); err != nil {
		return errs.Wrap(errs.FormatError, "reading gff input", err)
	}

	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	return binBatch.Commit(ctx)
}

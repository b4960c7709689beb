package ingest

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// vcfReader is a minimal streaming VCF reader grounded directly on
// internal/vcf.Parser's ReadString('\n') header/body split and gzip
// auto-detection, generalized to feed the store's typed records instead
// of vcf.Variant.
type vcfReader struct {
	r          *bufio.Reader
	closeFn    func() error
	lineNumber int
	samples    []string
}

func newVCFReader(path string) (*vcfReader, error) {
	if path == "-" {
		return &vcfReader{r: bufio.NewReader(os.Stdin), closeFn: func() error { return nil }}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.FormatError, "open vcf file "+path, err)
	}
	magic := make([]byte, 2)
	n, _ := f.Read(magic)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.FormatError, "seek vcf file "+path, err)
	}
	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errs.Wrap(errs.FormatError, "open gzip reader for "+path, err)
		}
		return &vcfReader{r: bufio.NewReader(gz), closeFn: func() error {
			gzErr := gz.Close()
			fErr := f.Close()
			if gzErr != nil {
				return gzErr
			}
			return fErr
		}}, nil
	}
	return &vcfReader{r: bufio.NewReader(f), closeFn: f.Close}, nil
}

func (p *vcfReader) Close() error { return p.closeFn() }

// parseHeader consumes "##" lines and the "#CHROM" line, grounded on
// vcf.Parser.parseHeader.
func (p *vcfReader) parseHeader() error {
	for {
		line, err := p.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return errs.Wrap(errs.FormatError, "read vcf header", err)
		}
		p.lineNumber++
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "##") {
			if err == io.EOF {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				p.samples = fields[9:]
			}
			return nil
		}
		return errs.New(errs.FormatError, "expected #CHROM header line at line "+strconv.Itoa(p.lineNumber))
	}
	return errs.New(errs.FormatError, "no #CHROM header line found")
}

// vcfSite is one parsed data line, pre-split.
type vcfSite struct {
	Chrom  string
	Pos    uint32
	ID     string
	Ref    string
	Alts   []string
	Filter []string
	Info   map[string]string
	Flags  map[string]bool
}

func (p *vcfReader) next() (*vcfSite, error) {
	for {
		line, err := p.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errs.Wrap(errs.FormatError, "read vcf line", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		site, parseErr := p.parseLine(line)
		if parseErr != nil {
			return nil, parseErr
		}
		return site, nil
	}
}

func (p *vcfReader) parseLine(line string) (*vcfSite, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, errs.New(errs.FormatError, "vcf line "+strconv.Itoa(p.lineNumber)+": expected at least 8 columns")
	}
	pos, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, errs.Wrap(errs.FormatError, "vcf line "+strconv.Itoa(p.lineNumber)+": invalid position", err)
	}
	info, flags := parseVCFInfo(fields[7])
	var filters []string
	if fields[6] != "." && fields[6] != "" {
		filters = strings.Split(fields[6], ";")
	}
	return &vcfSite{
		Chrom:  fields[0],
		Pos:    uint32(pos),
		ID:     fields[2],
		Ref:    fields[3],
		Alts:   strings.Split(fields[4], ","),
		Filter: filters,
		Info:   info,
		Flags:  flags,
	}, nil
}

func parseVCFInfo(s string) (map[string]string, map[string]bool) {
	info := make(map[string]string)
	flags := make(map[string]bool)
	if s == "." {
		return info, flags
	}
	for _, kv := range strings.Split(s, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			info[parts[0]] = parts[1]
		} else {
			flags[parts[0]] = true
		}
	}
	return info, flags
}

// VCFFields is the enumerated subset of INFO fields spec §4.4.2 names for
// population allele-frequency datasets: "{vep, var_info,
// global_cohort_pops, all_cohorts, rf_info, effect_info, liftover,
// quality, age_hists, depth_details}". Per spec §9's open question,
// fields not present in a given upstream version are ignored, not fatal.
type VCFFields struct {
	VEP              bool
	VarInfo          bool
	GlobalCohortPops bool
	AllCohorts       bool
	RFInfo           bool
	EffectInfo       bool
	Liftover         bool
	Quality          bool
	AgeHists         bool
	DepthDetails     bool
}

// AllVCFFields returns every enumerated subset enabled, the default when
// a caller does not restrict extraction via --import-fields-json.
func AllVCFFields() VCFFields {
	return VCFFields{true, true, true, true, true, true, true, true, true, true}
}

// VCFImportOptions configures population allele-frequency VCF ingest.
type VCFImportOptions struct {
	Fields VCFFields
	Logger *zap.Logger
}

// cohortPopRegex-free parser: gnomAD-style sub-cohort INFO keys follow
// "AC_<cohort>_<pop>", "AC_<cohort>_XX_<pop>", "AN_<cohort>_<pop>", etc.
// parseCohortKey splits a key into (metric, cohort, sex, pop) where any
// component may be empty ("" cohort means the overall/top-level axis).
func parseCohortKey(key string) (metric, cohort, sex, pop string, ok bool) {
	parts := strings.Split(key, "_")
	if len(parts) == 0 {
		return "", "", "", "", false
	}
	switch parts[0] {
	case "AC", "AN", "AF":
		metric = parts[0]
	default:
		return "", "", "", "", false
	}
	rest := parts[1:]
	if len(rest) == 0 {
		return metric, "", "", "", true
	}
	// Sex axis is always the token "XX" or "XY" when present.
	for i, tok := range rest {
		if tok == "XX" || tok == "XY" {
			sex = tok
			cohort = strings.Join(rest[:i], "_")
			pop = strings.Join(rest[i+1:], "_")
			return metric, cohort, sex, pop, true
		}
	}
	if len(rest) == 1 {
		pop = rest[0]
		return metric, "", "", pop, true
	}
	cohort = strings.Join(rest[:len(rest)-1], "_")
	pop = rest[len(rest)-1]
	return metric, cohort, sex, pop, true
}

// ImportGnomadVCF implements spec §4.4.2's population-allele-frequency
// pipeline: read site records, extract the configured INFO subset, split
// multi-allelic sites into one record per alt allele, and nest sub-cohort
// counts by cohort/sex/population. Grounded on internal/vcf.Parser.Next
// and SplitMultiAllelic.
func ImportGnomadVCF(ctx context.Context, st store.Store, datasetName string, path string, opts VCFImportOptions) error {
	r, err := newVCFReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.parseHeader(); err != nil {
		return err
	}
	if err := st.EnsureCF(ctx, datasetName); err != nil {
		return err
	}

	batch := st.NewBatch(datasetName)
	seen := make(map[string]bool)
	for {
		site, err := r.next()
		if err != nil {
			return err
		}
		if site == nil {
			break
		}
		for _, alt := range site.Alts {
			if alt == "" || alt == "*" {
				continue // spanning-deletion placeholder alleles carry no own record
			}
			v, err := codec.Variant{Chrom: site.Chrom, Pos: site.Pos, Ref: site.Ref, Alt: alt}.Canonicalize()
			if err != nil {
				return err
			}
			key, err := codec.EncodeVariantKey(v)
			if err != nil {
				return err
			}
			rec := buildAlleleCountRecord(site.Info, opts.Fields)
			data, err := rec.Encode()
			if err != nil {
				return err
			}
			if seen[string(key)] {
				logDuplicateKey(opts.Logger, datasetName, key)
			}
			seen[string(key)] = true
			batch.Put(key, data)
		}
	}
	return batch.Commit(ctx)
}

// buildAlleleCountRecord applies spec §4.4.2's configurable INFO subset:
// AC/AN/AF are the baseline every allele-frequency dataset carries; the
// var_info, global_cohort_pops, and all_cohorts toggles in fields gate the
// optional zygosity-breakdown and sub-cohort nesting extraction so that
// --import-fields-json actually narrows what gets stored, per §9's
// guidance that unrecognized/disabled fields are skipped, not fatal.
func buildAlleleCountRecord(info map[string]string, fields VCFFields) *schema.AlleleCountRecord {
	rec := &schema.AlleleCountRecord{Cohorts: make(map[string]schema.SexSplit)}
	getInt := func(k string) int64 {
		n, _ := strconv.ParseInt(info[k], 10, 64)
		return n
	}
	getFloat := func(k string) float64 {
		f, _ := strconv.ParseFloat(info[k], 64)
		return f
	}
	rec.Overall = schema.CohortCounts{
		AC: getInt("AC"), AN: getInt("AN"), AF: getFloat("AF"),
	}
	if fields.VarInfo {
		rec.Overall.NHomref = getInt("N_HOMREF")
		rec.Overall.NHet = getInt("N_HET")
		rec.Overall.NHomalt = getInt("nhomalt")
	}
	if !fields.GlobalCohortPops && !fields.AllCohorts {
		return rec
	}
	for key := range info {
		metric, cohort, sex, pop, ok := parseCohortKey(key)
		if !ok {
			continue
		}
		// a bare "<metric>_<name>" key carries one whole cohort's counts
		if cohort == "" && sex == "" {
			cohort, pop = pop, ""
		}
		if cohort == "" {
			continue
		}
		// all_cohorts keeps every named sub-cohort; global_cohort_pops
		// alone restricts extraction to the top-level "global" cohort.
		if !fields.AllCohorts && cohort != "global" {
			continue
		}
		split, exists := rec.Cohorts[cohort]
		if !exists {
			split = schema.SexSplit{Overall: map[string]schema.CohortCounts{}, XX: map[string]schema.CohortCounts{}, XY: map[string]schema.CohortCounts{}}
		}
		var target map[string]schema.CohortCounts
		switch sex {
		case "XX":
			target = split.XX
		case "XY":
			target = split.XY
		default:
			target = split.Overall
		}
		if pop == "" {
			pop = "all"
		}
		cc := target[pop]
		switch metric {
		case "AC":
			cc.AC = getInt(key)
		case "AN":
			cc.AN = getInt(key)
		case "AF":
			cc.AF = getFloat(key)
		}
		target[pop] = cc
		rec.Cohorts[cohort] = split
	}
	return rec
}

// ImportSVVCF implements spec §4.4.2's structural-variant pipeline: keys
// are interval-based (the interval's start, plus a bin entry) and records
// carry SV kind and optional second breakend. Grounded on the same
// vcfReader used for allele-frequency ingest; END/CHR2/SVTYPE/CPX_TYPE are
// read from INFO per the BND/DEL/DUP/INV/CPX VCF convention.
func ImportSVVCF(ctx context.Context, st store.Store, primaryCF, binCF string, path string, opts VCFImportOptions) error {
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
	if err := st.EnsureCF(ctx, binCF); err != nil {
		return err
	}

	primaryBatch := st.NewBatch(primaryCF)
	binBatch := st.NewBatch(binCF)
	for {
		site, err := r.next()
		if err != nil {
			return err
		}
		if site == nil {
			break
		}
		chrom, err := codec.CanonicalizeChrom(site.Chrom)
		if err != nil {
			return err
		}
		end := site.Pos
		if v, ok := site.Info["END"]; ok {
			if n, perr := strconv.ParseUint(v, 10, 32); perr == nil {
				end = uint32(n)
			}
		}
		rec := &schema.SVRecord{
			Chrom:   chrom,
			Pos:     site.Pos,
			End:     end,
			Chrom2:  site.Info["CHR2"],
			ID:      site.ID,
			Filters: site.Filter,
			SVType:  site.Info["SVTYPE"],
			CpxType: site.Info["CPX_TYPE"],
			AlleleCount: schema.CohortCounts{
				AC: atoi64(site.Info["AC"]),
				AN: atoi64(site.Info["AN"]),
				AF: atof64(site.Info["AF"]),
			},
		}
		if v, ok := site.Info["END2"]; ok {
			if n, perr := strconv.ParseUint(v, 10, 32); perr == nil {
				rec.End2 = uint32(n)
			}
		}
		data, err := rec.Encode()
		if err != nil {
			return err
		}
		id := site.ID
		if id == "" {
			id = strconv.FormatUint(uint64(site.Pos), 10)
		}
		key, err := codec.EncodeIntervalKey(chrom, site.Pos, id)
		if err != nil {
			return err
		}
		primaryBatch.Put(key, data)

		bin := codec.BinForRange(site.Pos-1, end)
		binKey, err := codec.EncodeBinKey(chrom, bin, site.Pos, id)
		if err != nil {
			return err
		}
		binBatch.Put(binKey, key)
	}
	if err := primaryBatch.Commit(ctx); err != nil {
		return err
	}
	return binBatch.Commit(ctx)
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func atof64(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

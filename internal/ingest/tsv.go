package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/codec"
	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// TSVOptions configures the tabular ingest pipeline of spec §4.4.1.
type TSVOptions struct {
	// ChromColumn, PosColumn, RefColumn, AltColumn name the variant-
	// identifying columns (spec §4.4.1 step 1). All four are required.
	ChromColumn, PosColumn, RefColumn, AltColumn string
	// SampleSize is how many data rows are sampled for type inference
	// (spec default 100000).
	SampleSize int
	// NullTokens overrides DefaultNullTokens.
	NullTokens []string
	// SchemaSeed, when non-nil, is merged before inference: its column
	// types take precedence over inferred ones (spec §4.4.1 step 3).
	SchemaSeed *schema.TabularSchema
	Logger     *zap.Logger
}

func (o TSVOptions) sampleSize() int {
	if o.SampleSize > 0 {
		return o.SampleSize
	}
	return 100_000
}

func (o TSVOptions) nullTokens() map[string]bool {
	tokens := o.NullTokens
	if tokens == nil {
		tokens = schema.DefaultNullTokens()
	}
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// ImportTSV implements spec §4.4.1: sample rows for schema inference,
// write the schema to metadata, then parse and write every row keyed by
// its canonical variant key. Grounded on internal/maf/parser.go's
// header-driven tab-delimited column lookup and internal/vcf/parser.go's
// gzip auto-detection (reader.go).
func ImportTSV(ctx context.Context, st store.Store, datasetName string, path string, opts TSVOptions) error {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := st.EnsureCF(ctx, datasetName); err != nil {
		return err
	}

	return importTSVImpl(ctx, st, datasetName, r, opts)
}

// lineScanner wraps bufio.Scanner with a large line buffer, the way
// internal/cache/gtf_loader.go bumps its scanner buffer for long GFF/GTF
// attribute columns; tabular data rows can be similarly long.
type lineScanner struct {
	sc *bufio.Scanner
}

func newLineScanner(r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 16*1024*1024)
	return &lineScanner{sc: sc}
}

func (s *lineScanner) scan() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	return s.sc.Text(), true
}

func (s *lineScanner) err() error { return s.sc.Err() }

// tsvColumns is the resolved header layout shared by the sequential and
// windowed TSV ingest paths: which column holds each variant-identifying
// field, and which remaining columns carry values.
type tsvColumns struct {
	chromIdx, posIdx, refIdx, altIdx int
	valueCols                        []string
	valueIdx                         []int
}

func resolveTSVColumns(cols []string, opts TSVOptions) (tsvColumns, error) {
	colIndex := make(map[string]int, len(cols))
	for i, c := range cols {
		colIndex[c] = i
	}

	var tc tsvColumns
	var err error
	tc.chromIdx, err = requireColumn(colIndex, opts.ChromColumn)
	if err != nil {
		return tsvColumns{}, err
	}
	tc.posIdx, err = requireColumn(colIndex, opts.PosColumn)
	if err != nil {
		return tsvColumns{}, err
	}
	tc.refIdx, err = requireColumn(colIndex, opts.RefColumn)
	if err != nil {
		return tsvColumns{}, err
	}
	tc.altIdx, err = requireColumn(colIndex, opts.AltColumn)
	if err != nil {
		return tsvColumns{}, err
	}
	keyIdx := map[int]bool{tc.chromIdx: true, tc.posIdx: true, tc.refIdx: true, tc.altIdx: true}

	for i, c := range cols {
		if keyIdx[i] {
			continue
		}
		tc.valueCols = append(tc.valueCols, c)
		tc.valueIdx = append(tc.valueIdx, i)
	}
	return tc, nil
}

// encodeTSVRow canonicalizes the variant columns of one data row and
// encodes the remaining columns as a schema.TabularRecord, per spec
// §4.4.1 step 4. Shared by the sequential and windowed ingest paths.
func encodeTSVRow(fields []string, tc tsvColumns) (key, value []byte, err error) {
	if len(fields) <= tc.chromIdx || len(fields) <= tc.posIdx || len(fields) <= tc.refIdx || len(fields) <= tc.altIdx {
		return nil, nil, errs.New(errs.FormatError, "row has fewer columns than header")
	}
	pos, err := strconv.ParseUint(fields[tc.posIdx], 10, 32)
	if err != nil {
		return nil, nil, errs.Wrap(errs.FormatError, "invalid position: "+fields[tc.posIdx], err)
	}
	v, err := codec.Variant{
		Chrom: fields[tc.chromIdx],
		Pos:   uint32(pos),
		Ref:   fields[tc.refIdx],
		Alt:   fields[tc.altIdx],
	}.Canonicalize()
	if err != nil {
		return nil, nil, err
	}
	key, err = codec.EncodeVariantKey(v)
	if err != nil {
		return nil, nil, err
	}

	values := make([]string, len(tc.valueIdx))
	for i, idx := range tc.valueIdx {
		if idx < len(fields) {
			values[i] = fields[idx]
		}
	}
	rec := &schema.TabularRecord{Line: []byte(strings.Join(values, "\t"))}
	value, err = rec.Encode()
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

func importTSVImpl(ctx context.Context, st store.Store, datasetName string, r io.Reader, opts TSVOptions) error {
	sc := newLineScanner(r)

	header, ok := sc.scan()
	if !ok {
		return errs.New(errs.FormatError, "tsv input is empty, missing header row")
	}
	cols := strings.Split(header, "\t")
	tc, err := resolveTSVColumns(cols, opts)
	if err != nil {
		return err
	}
	valueCols, valueIdx := tc.valueCols, tc.valueIdx

	// Sample rows for inference, buffering them so the same bytes are
	// replayed for the write pass (spec §4.4.1 steps 2-4).
	sampled := make([][]string, 0, opts.sampleSize())
	for len(sampled) < opts.sampleSize() {
		line, ok := sc.scan()
		if !ok {
			break
		}
		sampled = append(sampled, strings.Split(line, "\t"))
	}

	inferred, err := inferSchema(valueCols, valueIdx, sampled, opts)
	if err != nil {
		return err
	}
	inferred.KeyColumns.Chrom = opts.ChromColumn
	inferred.KeyColumns.Pos = opts.PosColumn
	inferred.KeyColumns.Ref = opts.RefColumn
	inferred.KeyColumns.Alt = opts.AltColumn

	schemaBytes, err := marshalTabularSchema(inferred)
	if err != nil {
		return err
	}
	if err := st.MetaPut(ctx, schema.TabularSchemaKey(datasetName), string(schemaBytes)); err != nil {
		return err
	}

	batch := st.NewBatch(datasetName)
	seen := make(map[string]bool)
	write := func(fields []string) error {
		key, data, err := encodeTSVRow(fields, tc)
		if err != nil {
			return err
		}
		if seen[string(key)] {
			logDuplicateKey(opts.Logger, datasetName, key)
		}
		seen[string(key)] = true
		batch.Put(key, data)
		return nil
	}

	for _, fields := range sampled {
		if err := write(fields); err != nil {
			return err
		}
	}
	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if err := write(strings.Split(line, "\t")); err != nil {
			return err
		}
	}
	if err := sc.err(); err != nil {
		return errs.Wrap(errs.FormatError, "reading tsv input", err)
	}

	return batch.Commit(ctx)
}

// marshalTabularSchema serializes a schema.TabularSchema for storage under
// the per-dataset "<dataset>-schema" metadata key (spec §4.3).
func marshalTabularSchema(s schema.TabularSchema) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(errs.SchemaError, "marshal tabular schema", err)
	}
	return b, nil
}

func requireColumn(colIndex map[string]int, name string) (int, error) {
	idx, ok := colIndex[name]
	if !ok {
		return 0, errs.New(errs.InvalidInput, fmt.Sprintf("column %q not present in header", name))
	}
	return idx, nil
}

// inferSchema implements spec §4.4.1 step 2-3: for each non-key column
// infer {Integer, Float, String, Enum<...>} from sampled rows, honoring
// configurable null tokens and a caller-provided schema seed.
func inferSchema(valueCols []string, valueIdx []int, sampled [][]string, opts TSVOptions) (schema.TabularSchema, error) {
	nullTokens := opts.nullTokens()
	seedByName := map[string]schema.ColumnSchema{}
	if opts.SchemaSeed != nil {
		for _, c := range opts.SchemaSeed.Columns {
			seedByName[c.Name] = c
		}
	}

	const enumCardinalityLimit = 20

	out := schema.TabularSchema{NullTokens: opts.NullTokens}
	if out.NullTokens == nil {
		out.NullTokens = schema.DefaultNullTokens()
	}

	for ci, name := range valueCols {
		if seed, ok := seedByName[name]; ok {
			seed.Seeded = true
			out.Columns = append(out.Columns, seed)
			continue
		}

		sawInt, sawFloat, sawNonNumeric := false, false, false
		distinct := map[string]bool{}
		for _, row := range sampled {
			idx := valueIdx[ci]
			if idx >= len(row) {
				continue
			}
			v := row[idx]
			if nullTokens[v] {
				continue
			}
			distinct[v] = true
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				sawInt = true
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				sawFloat = true
				continue
			}
			sawNonNumeric = true
		}

		col := schema.ColumnSchema{Name: name}
		switch {
		case sawInt && sawNonNumeric:
			return schema.TabularSchema{}, errs.New(errs.SchemaError,
				fmt.Sprintf("column %q has both integer and non-numeric values with no schema seed", name))
		case sawNonNumeric && len(distinct) <= enumCardinalityLimit:
			col.Type = schema.ColumnEnum
			col.EnumValues = sortedKeys(distinct)
		case sawNonNumeric:
			col.Type = schema.ColumnString
		case sawFloat:
			col.Type = schema.ColumnFloat
		case sawInt:
			col.Type = schema.ColumnInteger
		default:
			col.Type = schema.ColumnString
		}
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

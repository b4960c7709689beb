package schema

// TabularRecord stores the raw delimited line bytes of a generic `tsv`
// dataset row, minus the variant-identifying columns, per spec §4.3:
// "tabular datasets may store the raw delimited line ... to minimize
// space" and §8's round-trip law ("import → query returns the original
// line bytes (modulo trimming)"). The column header is stored once, in
// metadata (see TabularSchema), not per row.
type TabularRecord struct {
	Line []byte
}

// Encode implements Record.
func (r *TabularRecord) Encode() ([]byte, error) {
	return r.Line, nil
}

// Decode implements Record.
func (r *TabularRecord) Decode(b []byte) error {
	r.Line = append([]byte(nil), b...)
	return nil
}

// ColumnType is one of the inferred or seeded types of spec §4.4.1's
// schema inference: "{Integer, Float, String, Enum<...>}".
type ColumnType int

const (
	ColumnString ColumnType = iota
	ColumnInteger
	ColumnFloat
	ColumnEnum
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "Integer"
	case ColumnFloat:
		return "Float"
	case ColumnEnum:
		return "Enum"
	default:
		return "String"
	}
}

// ColumnSchema describes one non-key column of a tabular dataset.
type ColumnSchema struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	EnumValues   []string   `json:"enum_values,omitempty"`
	// Seeded is true when the caller declared this column's type rather
	// than it being inferred from sampled rows (spec §4.4.1: "caller-
	// declared types take precedence").
	Seeded bool `json:"seeded"`
}

// TabularSchema is written once to the "meta" CF (spec §4.3: "the
// inferred schema is written to metadata") under a dataset-scoped key
// (e.g. "<dataset>-schema") as JSON.
type TabularSchema struct {
	KeyColumns struct {
		Chrom string `json:"chrom"`
		Pos   string `json:"pos"`
		Ref   string `json:"ref"`
		Alt   string `json:"alt"`
	} `json:"key_columns"`
	Columns    []ColumnSchema `json:"columns"`
	NullTokens []string       `json:"null_tokens"`
}

// DefaultNullTokens is the configurable set of §4.4.1: "default {NA, ., -}".
func DefaultNullTokens() []string { return []string{"NA", ".", "-"} }

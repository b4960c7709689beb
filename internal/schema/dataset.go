// Package schema defines the registration contract every supported
// dataset implements (spec §4.3): a name used as CF prefix and in
// metadata, a primary CF and optional secondary CFs, and a record codec.
// It generalizes the shape of internal/annotate.AnnotationSource (a
// Name/Version/Columns/Annotate registration) into a store-facing
// Name/SchemaVersion/CFs/Encode/Decode registration.
package schema

import "github.com/genomedb/genomedb/internal/errs"

// KeyKind distinguishes the two encodings a dataset's primary CF can use.
type KeyKind int

const (
	// KeyKindVariant means the primary CF is keyed by codec.EncodeVariantKey.
	KeyKindVariant KeyKind = iota
	// KeyKindInterval means the primary CF is keyed by codec.EncodeIntervalKey,
	// with a companion bin-indexed CF for overlap queries.
	KeyKindInterval
)

// CFSet names the column families a Dataset reads and writes, per the
// persisted layout of spec §6: "<dataset>" primary, "<dataset>_by_accession",
// "<dataset>_by_rcv", "<dataset>_by_hgnc_id" secondary indices.
type CFSet struct {
	// Primary is the dataset's primary CF name, variant- or interval-keyed.
	Primary string
	// Bin is the companion bin-indexed CF name for interval datasets, or
	// "" for variant-keyed datasets.
	Bin string
	// ByAccession, when non-empty, names a CF mapping an opaque accession
	// string to the canonical primary-CF key.
	ByAccession string
	// Secondary names any further accession-style indices beyond
	// ByAccession (e.g. "<dataset>_by_rcv", "<dataset>_by_hgnc_id"), keyed
	// by index name (the suffix after "_by_").
	Secondary map[string]string
}

// Dataset is the registration contract of spec §4.3. Implementations are
// stateless: one value per supported dataset, held in the Registry.
type Dataset interface {
	// Name is the dataset name, used as CF name prefix and recorded under
	// the "db-name" (or a dataset-scoped "created-from/<name>") metadata
	// key.
	Name() string
	// SchemaVersion identifies the record layout. Bumped whenever Encode's
	// output format changes incompatibly; recorded in metadata as
	// "db-schema-version".
	SchemaVersion() string
	// KeyKind reports whether the primary CF is variant- or interval-keyed.
	KeyKind() KeyKind
	// CFs reports the column families this dataset owns.
	CFs() CFSet
	// Record returns a fresh, empty value of the dataset's record type,
	// suitable as a Decode destination.
	Record() Record
}

// Record is a decoded dataset value. Encode/Decode round-trip it to the
// bytes stored in the primary CF; callers never interpret record bytes
// directly.
type Record interface {
	// Encode serializes the record to its stored byte form.
	Encode() ([]byte, error)
	// Decode populates the record from stored bytes. Decode is called on
	// a zero-value Record produced by Dataset.Record().
	Decode([]byte) error
}

// Registry looks up a Dataset by name, used by the CLI dispatch layer and
// by the variant-annotation-bundle composite query operator (spec §4.5)
// to fan a single variant out across every configured dataset.
type Registry struct {
	datasets map[string]Dataset
	order    []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]Dataset)}
}

// Register adds d to the registry. Registering the same name twice is a
// programmer error and returns SchemaError.
func (r *Registry) Register(d Dataset) error {
	name := d.Name()
	if _, exists := r.datasets[name]; exists {
		return errs.New(errs.SchemaError, "dataset already registered: "+name)
	}
	r.datasets[name] = d
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the Dataset registered under name, or ok=false.
func (r *Registry) Lookup(name string) (Dataset, bool) {
	d, ok := r.datasets[name]
	return d, ok
}

// All returns every registered Dataset in registration order, the order
// the variant-annotation-bundle operator fans out across (spec §4.5).
func (r *Registry) All() []Dataset {
	out := make([]Dataset, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.datasets[name])
	}
	return out
}

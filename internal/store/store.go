// Package store provides an ordered key-value store with named column
// families (spec §4.2): point get, prefix/range iteration, bulk writes,
// compaction, and a dedicated metadata column family. It is backed by an
// embedded DuckDB file (see duckdb.go and DESIGN.md for why DuckDB, the
// only embedded single-file store with a real dependency anywhere in the
// example pack, stands in for the LSM engine the spec describes).
package store

import "context"

// MetaCF is the fixed column family name carrying ingestion provenance
// (spec §4.3/§6): db-name, db-version, db-schema-version, genome-release,
// created-from/*.
const MetaCF = "meta"

// KeyValue is a single key-value pair as returned by iteration.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Options are the configuration knobs of spec §4.2. Only the subset
// DuckDB genuinely exposes is applied (see DESIGN.md); the rest are
// accepted and ignored, and are not recorded anywhere.
type Options struct {
	WriteBufferSize       int64
	MaxBackgroundJobs     int
	EnableStatistics      bool
	HierarchicalIndexFilter bool
	Compression           string
	MultiThreadedCF       bool
}

// DefaultOptions returns the fixed per-dataset defaults named in §4.2.
func DefaultOptions() Options {
	return Options{
		WriteBufferSize:         64 << 20,
		MaxBackgroundJobs:       4,
		EnableStatistics:        false,
		HierarchicalIndexFilter: true,
		Compression:             "zstd",
		MultiThreadedCF:         true,
	}
}

// Iterator is a single-pass, non-restartable, finite lazy sequence over a
// key range or prefix (spec §4.5). It holds a read snapshot; concurrent
// compactions do not invalidate it.
type Iterator interface {
	// Next advances the iterator and reports whether a value is available.
	Next() bool
	// KeyValue returns the current pair. Valid only after Next returns true.
	KeyValue() KeyValue
	// Err returns the first error encountered, if any.
	Err() error
	// Close releases resources held by the iterator. Safe to call multiple
	// times and safe to call before exhausting the iterator.
	Close() error
}

// Batch groups puts into one atomic write set within a single column
// family (spec §4.2 bulk_write).
type Batch interface {
	Put(key, value []byte)
	// Commit flushes the batch. A Batch must not be reused after Commit.
	Commit(ctx context.Context) error
}

// Store is the ordered key-value abstraction every dataset schema and
// query operator is built on.
type Store interface {
	// Put writes a single key-value pair into cf.
	Put(ctx context.Context, cf string, key, value []byte) error
	// Get returns the value for key in cf, or (nil, false) if absent. Get
	// never returns a partial row and never errors on a missing key.
	Get(ctx context.Context, cf string, key []byte) ([]byte, bool, error)
	// NewBatch returns a Batch scoped to a single column family.
	NewBatch(cf string) Batch
	// IteratePrefix returns an Iterator over every key in cf starting with
	// prefix, in key order.
	IteratePrefix(ctx context.Context, cf string, prefix []byte) (Iterator, error)
	// IterateRange returns an Iterator over [lo, hi) in cf, in key order.
	IterateRange(ctx context.Context, cf string, lo, hi []byte) (Iterator, error)
	// EnsureCF creates the named column family if it does not already
	// exist. Ingest pipelines call this before writing; query operators
	// never create column families.
	EnsureCF(ctx context.Context, cf string) error
	// CompactAll is a blocking call invoked at the end of ingest (§4.4.5);
	// it rewrites the store into its most compact on-disk form.
	CompactAll(ctx context.Context) error
	// MetaGet/MetaPut operate on the fixed "meta" column family.
	MetaGet(ctx context.Context, name string) (string, bool, error)
	MetaPut(ctx context.Context, name, value string) error
	// MetaList returns every metadata entry whose name has the given
	// prefix (e.g. "created-from/"), used to read back provenance lists.
	MetaList(ctx context.Context, prefix string) (map[string]string, error)
	// Close releases the underlying file handle.
	Close() error
}

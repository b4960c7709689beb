package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/genomedb/genomedb/internal/errs"
)

// dbFileName is the single DuckDB file kept inside every database
// directory; column families become tables inside it. This is the
// directory-of-column-families shape spec §4.2/§6 describes, realized
// over the one embedded engine available in the example pack (see
// DESIGN.md).
const dbFileName = "genomedb.duckdb"

// cfNamePattern allows the hyphenated dataset names spec §6 names
// (gnomad-nuclear, clinvar-minimal, …) and their derived _bin/_by_accession
// suffixes.
var cfNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// DuckDBStore implements Store over an embedded DuckDB file.
type DuckDBStore struct {
	db       *sql.DB
	path     string // canonicalized directory
	readOnly bool
	tables   map[string]bool
}

// OpenReadWrite opens or creates a database directory for ingest. The
// directory is created if absent; declared column families are created
// lazily via EnsureCF (ingest pipelines call it before writing).
func OpenReadWrite(ctx context.Context, path string, opts Options) (*DuckDBStore, error) {
	// An empty path opens a private in-memory database, used by tests that
	// exercise the store contract without touching disk (mirrors
	// cache.DuckDBLoader's "" == in-memory convention from the teacher).
	if path == "" {
		db, err := sql.Open("duckdb", "")
		if err != nil {
			return nil, errs.Wrap(errs.StoreError, "open in-memory duckdb", err)
		}
		if err := applyOptions(db, opts); err != nil {
			db.Close()
			return nil, errs.Wrap(errs.StoreError, "apply store options", err)
		}
		s := &DuckDBStore{db: db, tables: make(map[string]bool)}
		if err := s.EnsureCF(ctx, MetaCF); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	}

	abs, err := canonicalizePath(path)
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "canonicalize path "+path, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errs.Wrap(errs.StoreError, "create database directory "+abs, err)
	}
	dbPath := filepath.Join(abs, dbFileName)
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "open duckdb "+dbPath, err)
	}
	if err := applyOptions(db, opts); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.StoreError, "apply store options", err)
	}
	s := &DuckDBStore{db: db, path: abs, tables: make(map[string]bool)}
	if err := s.EnsureCF(ctx, MetaCF); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing database directory. It fails with
// NotFound if the directory or the database file does not exist, or if
// any of the required column families are absent.
func OpenReadOnly(ctx context.Context, path string, requiredCFs []string) (*DuckDBStore, error) {
	abs, err := canonicalizePath(path)
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "canonicalize path "+path, err)
	}
	dbPath := filepath.Join(abs, dbFileName)
	if _, statErr := os.Stat(dbPath); statErr != nil {
		return nil, errs.Wrap(errs.NotFound, "database directory "+abs, statErr)
	}
	db, err := sql.Open("duckdb", dbPath+"?access_mode=READ_ONLY")
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "open duckdb "+dbPath, err)
	}
	s := &DuckDBStore{db: db, path: abs, readOnly: true, tables: make(map[string]bool)}

	existing, err := s.listTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	for t := range existing {
		s.tables[t] = true
	}
	if !s.tables[tableName(MetaCF)] {
		db.Close()
		return nil, errs.New(errs.NotFound, "database missing required \"meta\" column family: corrupt or in-progress")
	}
	// Invariant 6: metadata CF is the atomicity marker. A freshly-opened
	// database with no db-name entry is in-progress/corrupt.
	if _, ok, _ := s.MetaGet(ctx, "db-name"); !ok {
		db.Close()
		return nil, errs.New(errs.NotFound, "database metadata missing db-name: corrupt or in-progress ingest")
	}
	for _, cf := range requiredCFs {
		if !s.tables[tableName(cf)] {
			db.Close()
			return nil, errs.New(errs.NotFound, fmt.Sprintf("required column family %q absent", cf))
		}
	}
	return s, nil
}

func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// Directory may not exist yet (read-write create path); fall back to
	// the absolute, non-symlink-resolved form.
	return abs, nil
}

func applyOptions(db *sql.DB, opts Options) error {
	if opts.MaxBackgroundJobs > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA threads=%d", opts.MaxBackgroundJobs)); err != nil {
			return err
		}
	}
	if opts.WriteBufferSize > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA memory_limit='%dB'", opts.WriteBufferSize*8)); err != nil {
			return err
		}
	}
	// HierarchicalIndexFilter, EnableStatistics, Compression, and
	// MultiThreadedCF have no DuckDB pragma equivalent; they are ignored
	// and not recorded in the meta CF.
	return nil
}

func tableName(cf string) string { return "cf_" + cf }

// quoteIdent double-quotes a SQL identifier for safe interpolation,
// escaping embedded quotes. Column family names may contain hyphens
// (gnomad-nuclear, clinvar-minimal, …), which DuckDB never accepts in
// an unquoted identifier; every table-name interpolation below must go
// through this.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (s *DuckDBStore) listTables(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT table_name FROM information_schema.tables WHERE table_schema='main'")
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "list tables", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.StoreError, "scan table name", err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

// EnsureCF creates the named column family (as a table) if absent.
func (s *DuckDBStore) EnsureCF(ctx context.Context, cf string) error {
	if !cfNamePattern.MatchString(cf) {
		return errs.New(errs.InvalidInput, "invalid column family name: "+cf)
	}
	if s.tables[tableName(cf)] {
		return nil
	}
	if s.readOnly {
		return errs.New(errs.StoreError, "cannot create column family "+cf+" on a read-only store")
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key BLOB PRIMARY KEY, value BLOB)`, quoteIdent(tableName(cf)))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return errs.Wrap(errs.StoreError, "create column family "+cf, err)
	}
	s.tables[tableName(cf)] = true
	return nil
}

func (s *DuckDBStore) requireTable(cf string) (string, error) {
	t := tableName(cf)
	if !s.tables[t] {
		return "", errs.New(errs.NotFound, "column family not found: "+cf)
	}
	return t, nil
}

// Put writes a single key-value pair. Re-imports overwrite idempotently
// (spec §3 invariant 3), so this is an upsert.
func (s *DuckDBStore) Put(ctx context.Context, cf string, key, value []byte) error {
	t, err := s.requireTable(cf)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`INSERT OR REPLACE INTO %s (key, value) VALUES (?, ?)`, quoteIdent(t))
	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return errs.Wrap(errs.StoreError, "put into "+cf, err)
	}
	return nil
}

// Get returns the value for key in cf, or ok=false if absent.
func (s *DuckDBStore) Get(ctx context.Context, cf string, key []byte) ([]byte, bool, error) {
	t, err := s.requireTable(cf)
	if err != nil {
		return nil, false, err
	}
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, quoteIdent(t)), key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(errs.StoreError, "get from "+cf, err)
	}
	return value, true, nil
}

// IteratePrefix returns every (key, value) in cf whose key starts with
// prefix, in key order.
func (s *DuckDBStore) IteratePrefix(ctx context.Context, cf string, prefix []byte) (Iterator, error) {
	t, err := s.requireTable(cf)
	if err != nil {
		return nil, err
	}
	hi := prefixUpperBound(prefix)
	return s.rangeIterator(ctx, t, prefix, hi)
}

// IterateRange returns every (key, value) in cf with lo <= key < hi, in
// key order.
func (s *DuckDBStore) IterateRange(ctx context.Context, cf string, lo, hi []byte) (Iterator, error) {
	t, err := s.requireTable(cf)
	if err != nil {
		return nil, err
	}
	return s.rangeIterator(ctx, t, lo, hi)
}

func (s *DuckDBStore) rangeIterator(ctx context.Context, table string, lo, hi []byte) (Iterator, error) {
	var rows *sql.Rows
	var err error
	quoted := quoteIdent(table)
	if hi == nil {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(`SELECT key, value FROM %s WHERE key >= ? ORDER BY key`, quoted), lo)
	} else {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(`SELECT key, value FROM %s WHERE key >= ? AND key < ? ORDER BY key`, quoted), lo, hi)
	}
	if err != nil {
		return nil, errs.Wrap(errs.StoreError, "range scan over "+table, err)
	}
	return &duckdbIterator{rows: rows}, nil
}

// prefixUpperBound returns the smallest byte string that is strictly
// greater than every string with the given prefix, or nil if prefix is
// all 0xFF bytes (meaning the scan should run to the end of the table).
func prefixUpperBound(prefix []byte) []byte {
	hi := make([]byte, len(prefix))
	copy(hi, prefix)
	for i := len(hi) - 1; i >= 0; i-- {
		if hi[i] != 0xFF {
			hi[i]++
			return hi[:i+1]
		}
	}
	return nil
}

type duckdbIterator struct {
	rows *sql.Rows
	cur  KeyValue
	err  error
}

func (it *duckdbIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return false
	}
	var k, v []byte
	if err := it.rows.Scan(&k, &v); err != nil {
		it.err = err
		return false
	}
	it.cur = KeyValue{Key: k, Value: v}
	return true
}

func (it *duckdbIterator) KeyValue() KeyValue { return it.cur }
func (it *duckdbIterator) Err() error         { return it.err }
func (it *duckdbIterator) Close() error       { return it.rows.Close() }

// duckdbBatch buffers puts and commits them through the DuckDB Appender
// API (the bulk-load path the teacher's internal/duckdb/variants.go uses)
// rather than one INSERT per row.
type duckdbBatch struct {
	store *DuckDBStore
	cf    string
	keys  [][]byte
	vals  [][]byte
}

// NewBatch returns a Batch scoped to a single column family, per §4.2
// bulk_write being "atomic within a single CF write set".
func (s *DuckDBStore) NewBatch(cf string) Batch {
	return &duckdbBatch{store: s, cf: cf}
}

func (b *duckdbBatch) Put(key, value []byte) {
	b.keys = append(b.keys, key)
	b.vals = append(b.vals, value)
}

func (b *duckdbBatch) Commit(ctx context.Context) error {
	if len(b.keys) == 0 {
		return nil
	}
	t, err := b.store.requireTable(b.cf)
	if err != nil {
		return err
	}

	// Last-write-wins within a batch (spec §4.4.1): dedupe by key, keeping
	// the last occurrence, before appending.
	lastIdx := make(map[string]int, len(b.keys))
	for i, k := range b.keys {
		lastIdx[string(k)] = i
	}

	conn, err := b.store.db.Conn(ctx)
	if err != nil {
		return errs.Wrap(errs.StoreError, "acquire connection for batch commit", err)
	}
	defer conn.Close()

	// Stage rows into a temp table, then upsert in one statement so that a
	// batch re-import overwrites idempotently like Put does.
	staging := "stage_" + t
	quotedStaging := quoteIdent(staging)
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`CREATE TEMP TABLE IF NOT EXISTS %s (key BLOB, value BLOB)`, quotedStaging)); err != nil {
		return errs.Wrap(errs.StoreError, "create staging table", err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, quotedStaging)); err != nil {
		return errs.Wrap(errs.StoreError, "clear staging table", err)
	}

	if err := conn.Raw(func(driverConn any) error {
		appender, err := goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", staging)
		if err != nil {
			return err
		}
		defer appender.Close()
		for k, idx := range lastIdx {
			if err := appender.AppendRow([]byte(k), b.vals[idx]); err != nil {
				return err
			}
		}
		return appender.Flush()
	}); err != nil {
		return errs.Wrap(errs.StoreError, "append batch rows", err)
	}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf(
		`INSERT OR REPLACE INTO %s SELECT key, value FROM %s`, quoteIdent(t), quotedStaging)); err != nil {
		return errs.Wrap(errs.StoreError, "upsert batch into "+b.cf, err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, quotedStaging)); err != nil {
		return errs.Wrap(errs.StoreError, "drop staging table", err)
	}
	return nil
}

// CompactAll maps to DuckDB's checkpoint: it rewrites the single-file
// store into its most compact on-disk form and flushes the write-ahead
// log, the closest DuckDB analogue to an LSM compaction pass (see
// DESIGN.md).
func (s *DuckDBStore) CompactAll(ctx context.Context) error {
	if s.readOnly {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return errs.Wrap(errs.StoreError, "compact (checkpoint)", err)
	}
	return nil
}

func (s *DuckDBStore) MetaGet(ctx context.Context, name string) (string, bool, error) {
	v, ok, err := s.Get(ctx, MetaCF, []byte(name))
	if err != nil || !ok {
		return "", ok, err
	}
	return string(v), true, nil
}

func (s *DuckDBStore) MetaPut(ctx context.Context, name, value string) error {
	return s.Put(ctx, MetaCF, []byte(name), []byte(value))
}

func (s *DuckDBStore) MetaList(ctx context.Context, prefix string) (map[string]string, error) {
	it, err := s.IteratePrefix(ctx, MetaCF, []byte(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()
	out := make(map[string]string)
	for it.Next() {
		kv := it.KeyValue()
		out[string(kv.Key)] = string(kv.Value)
	}
	if err := it.Err(); err != nil {
		return nil, errs.Wrap(errs.StoreError, "list meta prefix "+prefix, err)
	}
	return out, nil
}

// Close releases the underlying DuckDB file handle.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

// RemoveWAL deletes the DuckDB write-ahead-log artifact left behind after
// a checkpoint, matching the explicit "removes the write-ahead log
// artifact" step of §4.4.5. DuckDB normally removes its own .wal file on
// a clean checkpoint+close; this is a defensive cleanup for the rare case
// one is left over (e.g. a prior abnormal exit) and is safe to call when
// no such file exists.
func (s *DuckDBStore) RemoveWAL() error {
	walPath := filepath.Join(s.path, dbFileName+".wal")
	if err := os.Remove(walPath); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.StoreError, "remove WAL artifact", err)
	}
	return nil
}

// Path returns the canonicalized database directory.
func (s *DuckDBStore) Path() string { return s.path }

// underlyingDBForTest exposes the *sql.DB for package-internal tests that
// want to assert on raw table contents.
func (s *DuckDBStore) underlyingDBForTest() *sql.DB { return s.db }

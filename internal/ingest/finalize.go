package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// CreatedFrom is one upstream source name/version pair recorded in the
// "created-from/*" metadata namespace (spec §4.3).
type CreatedFrom struct {
	Name    string
	Version string
}

// FinalizeMeta carries the metadata entries spec §4.4.5 requires every
// ingest job to write before compaction: db-name, db-version,
// db-schema-version, genome-release, and created-from/* provenance.
type FinalizeMeta struct {
	DBName          string
	DBVersion       string
	DBSchemaVersion string
	GenomeRelease   string
	CreatedFrom     []CreatedFrom
}

// walRemover is implemented by stores that leave a WAL artifact behind
// (store.DuckDBStore); stores that checkpoint synchronously need not
// implement it.
type walRemover interface {
	RemoveWAL() error
}

// FinalizeIngest implements spec §4.4.5's end-of-ingest sequence: (a)
// write every metadata entry, (b) CompactAll, (c) remove the WAL
// artifact. Metadata is written last among the data-bearing writes but
// first within this sequence, matching spec §3 invariant 6 ("metadata CF
// is written last in every ingest job and is the atomicity marker") -
// callers invoke FinalizeIngest only after every dataset CF write has
// already committed.
func FinalizeIngest(ctx context.Context, st store.Store, meta FinalizeMeta, logger *zap.Logger) error {
	if meta.DBName != "" {
		if err := st.MetaPut(ctx, schema.MetaDBName, meta.DBName); err != nil {
			return err
		}
	}
	if meta.DBVersion != "" {
		if err := st.MetaPut(ctx, schema.MetaDBVersion, meta.DBVersion); err != nil {
			return err
		}
	}
	if meta.DBSchemaVersion != "" {
		if err := st.MetaPut(ctx, schema.MetaDBSchemaVersion, meta.DBSchemaVersion); err != nil {
			return err
		}
	}
	if meta.GenomeRelease != "" {
		if err := st.MetaPut(ctx, schema.MetaGenomeRelease, meta.GenomeRelease); err != nil {
			return err
		}
	}
	for _, cf := range meta.CreatedFrom {
		if err := st.MetaPut(ctx, schema.CreatedFromKey(cf.Name), cf.Version); err != nil {
			return err
		}
	}

	if err := st.CompactAll(ctx); err != nil {
		return err
	}

	if remover, ok := st.(walRemover); ok {
		if err := remover.RemoveWAL(); err != nil {
			if logger != nil {
				logger.Warn("finalize ingest: could not remove WAL artifact", zap.Error(err))
			}
		}
	}
	return nil
}

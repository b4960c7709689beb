package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
	"github.com/genomedb/genomedb/internal/store"
)

// freqsSourceDatasets names the allele-count datasets `freqs import`
// knows how to merge, keyed by the `--sources` entry name a caller uses
// (spec §6's "freqs import").
var freqsSourceDatasets = map[string]func() schema.Dataset{
	"gnomad-nuclear": schema.NewGnomadNuclearDataset,
	"gnomad-mtdna":   schema.NewGnomadMtDNADataset,
	"helixmtdb":      schema.NewHelixMTdbDataset,
}

// newFreqsCmd implements `freqs import` (spec §6): a write-only merge
// utility that combines several already-built allele-count databases
// into one "freqs" database, so a caller wanting a single combined
// frequency lookup does not need to probe each source database in turn.
// There is no `freqs query` subcommand in spec §6. The merged entries
// land in a single "freqs" column family, which no query subcommand
// reads; a key present in several sources keeps the value of the source
// merged last.
func newFreqsCmd() *cobra.Command {
	var sources []string
	var pathOut, assembly string
	cmd := &cobra.Command{Use: "freqs", Short: "Merge allele-frequency sources"}
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Merge several allele-count databases' primary CFs into one freqs database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext()
			outSt, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer outSt.Close()
			if err := outSt.EnsureCF(ctx, "freqs"); err != nil {
				return err
			}
			var createdFrom []ingest.CreatedFrom
			for _, entry := range sources {
				datasetName, srcPath, err := splitFreqsSource(entry)
				if err != nil {
					return err
				}
				newDataset, ok := freqsSourceDatasets[datasetName]
				if !ok {
					return errs.New(errs.InvalidInput, "freqs import: unknown source dataset "+datasetName)
				}
				if err := mergeFreqsSource(ctx, outSt, newDataset(), srcPath); err != nil {
					return err
				}
				createdFrom = append(createdFrom, ingest.CreatedFrom{Name: datasetName, Version: srcPath})
			}
			return ingest.FinalizeIngest(ctx, outSt, ingest.FinalizeMeta{
				DBName: "freqs", DBSchemaVersion: "1", GenomeRelease: assembly, CreatedFrom: createdFrom,
			}, logger)
		},
	}
	importCmd.Flags().StringSliceVar(&sources, "path-in-rocksdb", nil,
		"one or more dataset=path pairs naming an already-built allele-count database, e.g. gnomad-nuclear=/data/gnomad (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "merged output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	for _, f := range []string{"path-in-rocksdb", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}
	cmd.AddCommand(importCmd)
	return cmd
}

func splitFreqsSource(entry string) (datasetName, path string, err error) {
	i := strings.IndexByte(entry, '=')
	if i < 0 {
		return "", "", errs.New(errs.InvalidInput, "freqs import: malformed source "+strconv.Quote(entry))
	}
	return entry[:i], entry[i+1:], nil
}

// mergeFreqsSource copies every primary-CF entry of one allele-count
// source dataset into the output store's "freqs" CF.
func mergeFreqsSource(ctx context.Context, outSt store.Store, ds schema.Dataset, srcPath string) error {
	srcSt, err := store.OpenReadOnly(ctx, srcPath, []string{ds.CFs().Primary})
	if err != nil {
		return err
	}
	defer srcSt.Close()

	it, err := srcSt.IteratePrefix(ctx, ds.CFs().Primary, []byte{})
	if err != nil {
		return err
	}
	defer it.Close()

	batch := outSt.NewBatch("freqs")
	for it.Next() {
		kv := it.KeyValue()
		batch.Put(kv.Key, kv.Value)
	}
	if err := it.Err(); err != nil {
		return err
	}
	return batch.Commit(ctx)
}

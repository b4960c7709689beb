package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

// newTSVCmd implements `tsv import|query` (spec §6, §4.4.1): the generic
// tabular pipeline registered under a caller-supplied dataset name,
// distinct from the twelve built-in named datasets.
func newTSVCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tsv", Short: "Generic tabular dataset with schema inference"}
	cmd.AddCommand(newTSVImportCmd(), newTSVQueryCmd())
	return cmd
}

func newTSVImportCmd() *cobra.Command {
	var (
		pathIn, pathOut, assembly, datasetName string
		chromCol, posCol, refCol, altCol       string
		nullTokens                             []string
		sampleSize                             int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a tab-separated source with schema inference",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := ingest.TSVOptions{
				ChromColumn: chromCol, PosColumn: posCol, RefColumn: refCol, AltColumn: altCol,
				SampleSize: sampleSize, NullTokens: nullTokens, Logger: logger,
			}
			if err := ingest.ImportTSV(cmdContext(), st, datasetName, pathIn, opts); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: datasetName, DBSchemaVersion: "1", GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: datasetName, Version: "user-supplied"}},
			}, logger)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-in-tsv", "", "input TSV path (required)")
	cmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	cmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	cmd.Flags().StringVar(&datasetName, "dataset-name", "", "dataset name, used as CF prefix (required)")
	cmd.Flags().StringVar(&chromCol, "chrom-column", "CHROM", "chromosome column name")
	cmd.Flags().StringVar(&posCol, "pos-column", "POS", "position column name")
	cmd.Flags().StringVar(&refCol, "ref-column", "REF", "reference allele column name")
	cmd.Flags().StringVar(&altCol, "alt-column", "ALT", "alternate allele column name")
	cmd.Flags().StringSliceVar(&nullTokens, "null-tokens", nil, "override the default null tokens (NA, ., -)")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "rows sampled for schema inference (default 100000)")
	for _, f := range []string{"path-in-tsv", "path-out-rocksdb", "genome-release", "dataset-name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTSVQueryCmd() *cobra.Command {
	var pathIn, assembly, datasetName string
	cmd := &cobra.Command{
		Use:   "query <coordinate>",
		Short: "Point/position/range query against a generic tabular dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewTSVDataset(datasetName)
			st, err := openReadStore(pathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			result, err := runCoordinateQuery(st, ds, assembly, args[0])
			if err != nil {
				return err
			}
			return writeTabularResult(result)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-out-rocksdb", "", "database directory to query (required)")
	cmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	cmd.Flags().StringVar(&datasetName, "dataset-name", "", "dataset name the data was imported under (required)")
	for _, f := range []string{"path-out-rocksdb", "genome-release", "dataset-name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

// writeTabularResult renders a TabularRecord/[]Record result as raw
// lines when possible (spec §8 round-trip law: "query returns the
// original line bytes"), falling back to JSON for structured records.
func writeTabularResult(result interface{}) error {
	switch v := result.(type) {
	case *schema.TabularRecord:
		_, err := os.Stdout.Write(append(v.Line, '\n'))
		return err
	case []schema.Record:
		var lines []string
		for _, r := range v {
			if tr, ok := r.(*schema.TabularRecord); ok {
				lines = append(lines, string(tr.Line))
			}
		}
		if lines != nil {
			_, err := os.Stdout.WriteString(strings.Join(lines, "\n") + "\n")
			return err
		}
		return writeJSON(v)
	default:
		return writeJSON(v)
	}
}

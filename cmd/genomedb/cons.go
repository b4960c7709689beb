package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

// newConsCmd implements `cons import|query` (spec §6): per-base
// conservation scores (phyloP/phastCons), a header-driven TSV distinct
// from the generic `tsv` pipeline because it carries a fixed row shape
// (see internal/ingest/conservation.go).
func newConsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cons", Short: "Per-base conservation scores"}

	var pathIn, pathOut, assembly, upstreamVersion string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a conservation-scores TSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(pathIn)
			if err != nil {
				return err
			}
			rows, err := ingest.ParseConservationTSV(lines)
			if err != nil {
				return err
			}
			ds := schema.NewConservationDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := ingest.ImportConservation(cmdContext(), st, ds.Name(), rows); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "cons", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-tsv", "", "input conservation TSV path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "cons-version", "", "upstream conservation track version")
	for _, f := range []string{"path-in-tsv", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly string
	queryCmd := &cobra.Command{
		Use:   "query <coordinate>",
		Short: "Point/position/range query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewConservationDataset()
			st, err := openReadStore(qPathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			result, err := runCoordinateQuery(st, ds, qAssembly, args[0])
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}
	queryCmd.Flags().StringVar(&qPathIn, "path-out-rocksdb", "", "database directory to query (required)")
	queryCmd.Flags().StringVar(&qAssembly, "genome-release", "", "grch37 or grch38 (required)")
	for _, f := range []string{"path-out-rocksdb", "genome-release"} {
		_ = queryCmd.MarkFlagRequired(f)
	}

	cmd.AddCommand(importCmd, queryCmd)
	return cmd
}

// readLines reads all of path's lines, blank ones included, into memory,
// shared by the ingest commands (gene dosage, ClinVar genes, conservation)
// whose parsers skip blank lines themselves and take
// already-split lines rather than an io.Reader (see internal/ingest/genes.go,
// conservation.go).
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

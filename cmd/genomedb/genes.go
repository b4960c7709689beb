package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/query"
	"github.com/genomedb/genomedb/internal/schema"
)

// newGenesCmd implements `genes import|query` (spec §6): gene
// dosage/haploinsufficiency metrics, looked up by the composite gene-
// lookup operator (spec §4.5, §8 scenario 5: symbol and HGNC ID resolve
// to the same record).
func newGenesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "genes", Short: "Gene dosage/haploinsufficiency metrics"}

	var pathIn, pathOut, assembly, upstreamVersion string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a gene dosage TSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(pathIn)
			if err != nil {
				return err
			}
			rows, err := ingest.ParseGeneDosageTSV(lines)
			if err != nil {
				return err
			}
			ds := schema.NewGenesDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := ingest.ImportGenes(cmdContext(), st, ds.CFs(), ingest.GeneRecordDosage, rows); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "genes", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-tsv", "", "input gene dosage TSV path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "genes-version", "", "upstream gene-dosage source version")
	for _, f := range []string{"path-in-tsv", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qQuery string
	queryCmd := &cobra.Command{
		Use:   "query <hgnc-id|symbol|ncbi-id|ensembl-id>",
		Short: "Gene lookup by any of its accessions (spec composite gene-lookup operator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewGenesDataset()
			st, err := openReadStore(qPathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			rec, ok, err := query.GeneLookup(cmdContext(), st, ds, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return writeJSON(nil)
			}
			return writeJSON(rec)
		},
	}
	queryCmd.Flags().StringVar(&qPathIn, "path-out-rocksdb", "", "database directory to query (required)")
	_ = queryCmd.MarkFlagRequired("path-out-rocksdb")

	cmd.AddCommand(importCmd, queryCmd)
	return cmd
}

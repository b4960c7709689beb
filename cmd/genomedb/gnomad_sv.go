package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

// newGnomadSVCmd implements `gnomad-sv import|query` (spec §4.4.2,
// §4.5, §6): interval-keyed structural-variant records with bin-indexed
// overlap queries.
func newGnomadSVCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "gnomad-sv", Short: "gnomAD structural variants"}

	var pathIn, pathOut, assembly, upstreamVersion string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a gnomAD-SV VCF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewGnomadSVDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			cfs := ds.CFs()
			opts := ingest.VCFImportOptions{Fields: ingest.AllVCFFields(), Logger: logger}
			if err := ingest.ImportSVVCF(cmdContext(), st, cfs.Primary, cfs.Bin, pathIn, opts); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "gnomad-sv", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-vcf", "", "input gnomAD-SV VCF path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "gnomad-sv-version", "", "upstream gnomAD-SV version")
	for _, f := range []string{"path-in-vcf", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly string
	queryCmd := &cobra.Command{
		Use:   "query <coordinate>",
		Short: "Range-overlap query, e.g. GRCh38:1:2000:3000",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewGnomadSVDataset()
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

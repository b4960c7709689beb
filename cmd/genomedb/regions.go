package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

func newRegionsCmd() *cobra.Command {
	return newGFFCmd("regions", "Caller-defined genomic regions", schema.NewRegionsDataset)
}

func newFunctionalCmd() *cobra.Command {
	return newGFFCmd("functional", "Non-coding functional elements (promoters, enhancers, TF sites)", schema.NewFunctionalDataset)
}

// newGFFCmd builds the `import|query` pair shared by every interval
// dataset ingested from GFF (spec §4.4.4): regions and functional differ
// only in dataset registration and which feature types are kept.
func newGFFCmd(use, short string, newDataset func() schema.Dataset) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}

	var pathIn, pathOut, assembly, upstreamVersion string
	var featureTypes []string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a GFF/GTF feature file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := newDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			predicate := ingest.AcceptAllFeatures
			if len(featureTypes) > 0 {
				predicate = ingest.FeatureTypeIn(featureTypes...)
			}
			cfs := ds.CFs()
			if err := ingest.ImportGFF(cmdContext(), st, cfs.Primary, cfs.Bin, pathIn, ingest.GFFImportOptions{Predicate: predicate}); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: use, Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-gff", "", "input GFF/GTF path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, use+"-version", "", "upstream source version")
	importCmd.Flags().StringSliceVar(&featureTypes, "feature-types", nil, "feature-class predicate: only these GFF feature types are kept (default: all)")
	for _, f := range []string{"path-in-gff", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly string
	queryCmd := &cobra.Command{
		Use:   "query <range-coordinate>",
		Short: "Range-overlap query, e.g. GRCh38:1:2000:3000",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := newDataset()
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

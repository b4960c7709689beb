package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

// newDBSNPCmd implements `dbsnp import|query` (spec §6): a thin
// rsID -> variant lookup built from dbSNP's VCF distribution.
func newDBSNPCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "dbsnp", Short: "dbSNP rsID accession lookup"}
	cmd.AddCommand(newDBSNPImportCmd(), newDBSNPQueryCmd())
	return cmd
}

func newDBSNPImportCmd() *cobra.Command {
	var pathIn, pathOut, assembly, dbsnpVersion string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a dbSNP VCF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewDBSNPDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			cfs := ds.CFs()
			if err := ingest.ImportDBSNP(cmdContext(), st, cfs.Primary, cfs.ByAccession, pathIn); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "dbsnp", Version: dbsnpVersion}},
			}, logger)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-in-vcf", "", "input dbSNP VCF path (required)")
	cmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	cmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	cmd.Flags().StringVar(&dbsnpVersion, "dbsnp-version", "", "upstream dbSNP build, recorded in created-from")
	for _, f := range []string{"path-in-vcf", "path-out-rocksdb", "genome-release"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newDBSNPQueryCmd() *cobra.Command {
	var pathIn, assembly, accession string
	cmd := &cobra.Command{
		Use:   "query [coordinate]",
		Short: "Look up an rsID or a coordinate against dbSNP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewDBSNPDataset()
			st, err := openReadStore(pathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			var result interface{}
			if accession != "" {
				result, err = runAccessionQuery(st, ds, ds.CFs().ByAccession, accession, false)
			} else if len(args) == 1 {
				result, err = runCoordinateQuery(st, ds, assembly, args[0])
			} else {
				return cmd.Usage()
			}
			if err != nil {
				return err
			}
			return writeTabularResult(result)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-out-rocksdb", "", "database directory to query (required)")
	cmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38")
	cmd.Flags().StringVar(&accession, "accession", "", "rsID to look up instead of a coordinate")
	_ = cmd.MarkFlagRequired("path-out-rocksdb")
	return cmd
}

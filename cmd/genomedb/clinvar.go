package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

// newClinVarMinimalCmd implements `clinvar-minimal import|query` (spec
// §4.4.3, §6, §8 scenario 3): extracted ClinVar records keyed by variant
// and by VCV accession.
func newClinVarMinimalCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clinvar-minimal", Short: "Extracted ClinVar variant classifications"}

	var pathIn, pathOut, assembly, upstreamVersion string
	var acceptNonStandardNulls, preSorted bool
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a ClinVar variant-classification JSONL export",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewClinVarMinimalDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			opts := ingest.JSONLOptions{AcceptNonStandardNulls: acceptNonStandardNulls, PreSorted: preSorted, Logger: logger}
			if err := ingest.ImportClinVarJSONL(cmdContext(), st, ds.CFs().Primary, ds.CFs().ByAccession, pathIn, opts); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "clinvar", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-jsonl", "", "input ClinVar JSONL path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "clinvar-version", "", "upstream ClinVar release")
	importCmd.Flags().BoolVar(&acceptNonStandardNulls, "accept-nonstandard-nulls", false, "passed to the importer but not consulted; None/single-quoted null tokens are rejected either way")
	importCmd.Flags().BoolVar(&preSorted, "pre-sorted", false, "skip the external merge-sort stage; input is already accession-sorted")
	for _, f := range []string{"path-in-jsonl", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly, qAccession string
	queryCmd := &cobra.Command{
		Use:   "query [coordinate]",
		Short: "Point/position/range query, or --accession VCV lookup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewClinVarMinimalDataset()
			st, err := openReadStore(qPathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			var result interface{}
			if qAccession != "" {
				result, err = runAccessionQuery(st, ds, ds.CFs().ByAccession, qAccession, false)
			} else if len(args) == 1 {
				result, err = runCoordinateQuery(st, ds, qAssembly, args[0])
			} else {
				return cmd.Usage()
			}
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}
	queryCmd.Flags().StringVar(&qPathIn, "path-out-rocksdb", "", "database directory to query (required)")
	queryCmd.Flags().StringVar(&qAssembly, "genome-release", "", "grch37 or grch38")
	queryCmd.Flags().StringVar(&qAccession, "accession", "", "VCV accession to look up instead of a coordinate")
	_ = queryCmd.MarkFlagRequired("path-out-rocksdb")

	cmd.AddCommand(importCmd, queryCmd)
	return cmd
}

// newClinVarSVCmd implements `clinvar-sv import|query` (spec §4.4.3,
// §4.5, §6, §8 boundary case: long REF/ALT filtered by RefAltThreshold).
func newClinVarSVCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clinvar-sv", Short: "ClinVar structural-variant classifications"}

	var pathIn, pathOut, assembly, upstreamVersion string
	var refAltThreshold int
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a ClinVar structural-variant JSONL export",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewClinVarSVDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			cfs := ds.CFs()
			opts := ingest.ClinVarSVOptions{
				JSONLOptions:    ingest.JSONLOptions{Logger: logger},
				RefAltThreshold: refAltThreshold,
			}
			if err := ingest.ImportClinVarSVJSONL(cmdContext(), st, cfs.Primary, cfs.ByAccession, cfs.Bin, pathIn, opts); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "clinvar-sv", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-jsonl", "", "input ClinVar SV JSONL path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "clinvar-version", "", "upstream ClinVar release")
	importCmd.Flags().IntVar(&refAltThreshold, "ref-alt-threshold", 0, "max REF/ALT length before a record is filtered (spec §8 boundary case; 0 means default)")
	for _, f := range []string{"path-in-jsonl", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly string
	queryCmd := &cobra.Command{
		Use:   "query <coordinate>",
		Short: "Range-overlap query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewClinVarSVDataset()
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

// newClinVarGenesCmd implements `clinvar-genes import|query` (spec §6):
// per-gene ClinVar submission-count summaries, keyed by HGNC ID.
func newClinVarGenesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clinvar-genes", Short: "ClinVar per-gene submission summaries"}

	var pathIn, pathOut, assembly, upstreamVersion string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a ClinVar gene-summary JSONL export",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(pathIn)
			if err != nil {
				return err
			}
			rows, err := ingest.ParseClinVarGenesJSONL(lines)
			if err != nil {
				return err
			}
			ds := schema.NewClinVarGenesDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := ingest.ImportGenes(cmdContext(), st, ds.CFs(), ingest.GeneRecordClinVarSummary, rows); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: "clinvar-genes", Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-jsonl", "", "input ClinVar gene-summary JSONL path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, "clinvar-version", "", "upstream ClinVar release")
	for _, f := range []string{"path-in-jsonl", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qHGNCID string
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Look up a gene's ClinVar submission summary by HGNC ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := schema.NewClinVarGenesDataset()
			st, err := openReadStore(qPathIn, ds)
			if err != nil {
				return err
			}
			defer st.Close()
			result, err := runAccessionQuery(st, ds, ds.CFs().ByAccession, qHGNCID, false)
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}
	queryCmd.Flags().StringVar(&qPathIn, "path-out-rocksdb", "", "database directory to query (required)")
	queryCmd.Flags().StringVar(&qHGNCID, "hgnc-id", "", "HGNC ID to look up (required)")
	for _, f := range []string{"path-out-rocksdb", "hgnc-id"} {
		_ = queryCmd.MarkFlagRequired(f)
	}

	cmd.AddCommand(importCmd, queryCmd)
	return cmd
}

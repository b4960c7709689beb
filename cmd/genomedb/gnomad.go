package main

import (
	"github.com/spf13/cobra"

	"github.com/genomedb/genomedb/internal/ingest"
	"github.com/genomedb/genomedb/internal/schema"
)

func newGnomadNuclearCmd() *cobra.Command {
	return newVariantVCFCmd("gnomad-nuclear", "gnomAD nuclear population allele frequencies",
		schema.NewGnomadNuclearDataset, "gnomad-version")
}

func newGnomadMtDNACmd() *cobra.Command {
	return newVariantVCFCmd("gnomad-mtdna", "gnomAD mitochondrial allele frequencies",
		schema.NewGnomadMtDNADataset, "gnomad-version")
}

func newHelixMTdbCmd() *cobra.Command {
	return newVariantVCFCmd("helixmtdb", "HelixMTdb mitochondrial allele frequencies",
		schema.NewHelixMTdbDataset, "helixmtdb-version")
}

// newVariantVCFCmd builds the `import|query` pair shared by every
// variant-keyed allele-count dataset (spec §4.4.2, §6): gnomad-nuclear,
// gnomad-mtdna, helixmtdb all share the same pipeline shape and differ
// only in dataset registration and upstream version flag name.
func newVariantVCFCmd(use, short string, newDataset func() schema.Dataset, versionFlag string) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}

	var pathIn, pathOut, assembly, upstreamVersion, fieldsJSON string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a VCF of site-level allele counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := newDataset()
			st, err := openWriteStore(pathOut)
			if err != nil {
				return err
			}
			defer st.Close()
			fields, err := parseVCFFieldsJSON(fieldsJSON)
			if err != nil {
				return err
			}
			opts := ingest.VCFImportOptions{Fields: fields, Logger: logger}
			if err := ingest.ImportGnomadVCF(cmdContext(), st, ds.CFs().Primary, pathIn, opts); err != nil {
				return err
			}
			return ingest.FinalizeIngest(cmdContext(), st, ingest.FinalizeMeta{
				DBName: ds.Name(), DBSchemaVersion: ds.SchemaVersion(), GenomeRelease: assembly,
				CreatedFrom: []ingest.CreatedFrom{{Name: use, Version: upstreamVersion}},
			}, logger)
		},
	}
	importCmd.Flags().StringVar(&pathIn, "path-in-vcf", "", "input VCF path (required)")
	importCmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "output database directory (required)")
	importCmd.Flags().StringVar(&assembly, "genome-release", "", "grch37 or grch38 (required)")
	importCmd.Flags().StringVar(&upstreamVersion, versionFlag, "", "upstream source version, recorded in created-from")
	importCmd.Flags().StringVar(&fieldsJSON, "import-fields-json", "", "JSON object selecting the optional INFO field subsets (spec §4.4.2); empty means all")
	for _, f := range []string{"path-in-vcf", "path-out-rocksdb", "genome-release"} {
		_ = importCmd.MarkFlagRequired(f)
	}

	var qPathIn, qAssembly string
	queryCmd := &cobra.Command{
		Use:   "query <coordinate>",
		Short: "Point/position/range query",
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

// parseVCFFieldsJSON decodes `--import-fields-json` (spec §6) into a
// VCFFields selection; an empty string means every field enabled, the
// spec §9 "treat unknown fields as forward-compatible" default.
func parseVCFFieldsJSON(s string) (ingest.VCFFields, error) {
	if s == "" {
		return ingest.AllVCFFields(), nil
	}
	return decodeVCFFieldsJSON(s)
}

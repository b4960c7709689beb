package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/genomedb/genomedb/internal/store"
)

// newDBUtilsCmd implements `db-utils copy|dump-meta` (spec §6): small
// maintenance operations over an already-built database directory.
func newDBUtilsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "db-utils", Short: "Database maintenance utilities"}
	cmd.AddCommand(newDBUtilsCopyCmd(), newDBUtilsDumpMetaCmd())
	return cmd
}

// newDBUtilsCopyCmd re-opens a source database read-only and streams
// every declared column family into a fresh destination, optionally
// verifying the copy by re-reading every written key back (the
// `--verify` flag; SPEC_FULL.md's supplemented validation-writer
// feature, grounded on the teacher's MAF/VCF validation-writer idea, see
// DESIGN.md).
func newDBUtilsCopyCmd() *cobra.Command {
	var pathIn, pathOut string
	var cfs []string
	var verify bool
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy named column families from one database directory to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext()
			srcSt, err := store.OpenReadOnly(ctx, pathIn, cfs)
			if err != nil {
				return err
			}
			defer srcSt.Close()
			dstSt, err := store.OpenReadWrite(ctx, pathOut, store.DefaultOptions())
			if err != nil {
				return err
			}
			defer dstSt.Close()

			allCFs := cfs
			if len(allCFs) == 0 {
				allCFs = []string{store.MetaCF}
			}
			for _, cf := range allCFs {
				if err := copyCF(ctx, srcSt, dstSt, cf, verify); err != nil {
					return err
				}
			}
			return dstSt.CompactAll(ctx)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-in-rocksdb", "", "source database directory (required)")
	cmd.Flags().StringVar(&pathOut, "path-out-rocksdb", "", "destination database directory (required)")
	cmd.Flags().StringSliceVar(&cfs, "column-families", nil, "column families to copy (required)")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-read every copied key from the destination and fail on mismatch")
	for _, f := range []string{"path-in-rocksdb", "path-out-rocksdb", "column-families"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func copyCF(ctx context.Context, srcSt, dstSt store.Store, cf string, verify bool) error {
	if err := dstSt.EnsureCF(ctx, cf); err != nil {
		return err
	}
	it, err := srcSt.IteratePrefix(ctx, cf, []byte{})
	if err != nil {
		return err
	}
	defer it.Close()

	batch := dstSt.NewBatch(cf)
	var copied int
	for it.Next() {
		kv := it.KeyValue()
		batch.Put(kv.Key, kv.Value)
		copied++
	}
	if err := it.Err(); err != nil {
		return err
	}
	if err := batch.Commit(ctx); err != nil {
		return err
	}
	if !verify {
		return nil
	}
	verifyIt, err := srcSt.IteratePrefix(ctx, cf, []byte{})
	if err != nil {
		return err
	}
	defer verifyIt.Close()
	for verifyIt.Next() {
		kv := verifyIt.KeyValue()
		got, ok, err := dstSt.Get(ctx, cf, kv.Key)
		if err != nil {
			return err
		}
		if !ok || string(got) != string(kv.Value) {
			return fmt.Errorf("db-utils copy --verify: mismatch for a key in column family %q", cf)
		}
	}
	return verifyIt.Err()
}

// newDBUtilsDumpMetaCmd prints a database's "meta" CF (spec §4.3, §6).
func newDBUtilsDumpMetaCmd() *cobra.Command {
	var pathIn, format string
	cmd := &cobra.Command{
		Use:   "dump-meta",
		Short: "Print a database's metadata entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext()
			st, err := store.OpenReadOnly(ctx, pathIn, nil)
			if err != nil {
				return err
			}
			defer st.Close()
			entries, err := st.MetaList(ctx, "")
			if err != nil {
				return err
			}
			if format == "yaml" {
				out, err := yaml.Marshal(entries)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			}
			return writeJSON(entries)
		},
	}
	cmd.Flags().StringVar(&pathIn, "path-in-rocksdb", "", "database directory (required)")
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	_ = cmd.MarkFlagRequired("path-in-rocksdb")
	return cmd
}

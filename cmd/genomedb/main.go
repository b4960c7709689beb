// Package main provides the genomedb command-line tool: one process with
// a subcommand per dataset (import/query) plus db-utils and server
// glue. The CLI layer is an external collaborator per spec §1/§2 ("the
// command-line parser and subcommand glue" is explicitly out of scope
// for the storage/ingest/query engine); this file wires cobra commands
// onto that engine rather than reimplementing any of it, the way
// cmd/vibe-vep/main.go wired flag parsing onto internal/annotate and
// internal/cache.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genomedb/genomedb/internal/errs"
)

// Exit codes per spec §6: 0 success, 1 generic failure, 2 invalid
// arguments, 3 input format error, 4 store error.
const (
	ExitSuccess       = 0
	ExitGenericError  = 1
	ExitInvalidArgs   = 2
	ExitFormatError   = 3
	ExitStoreError    = 4
)

var (
	logger  *zap.Logger
	verbose bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "genomedb",
		Short:         "Read-optimized genome annotation database: ingest and query engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $HOME/.genomedb.yaml)")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	cobra.OnInitialize(initConfig)

	cmd.AddCommand(
		newTSVCmd(),
		newDBSNPCmd(),
		newGnomadNuclearCmd(),
		newGnomadMtDNACmd(),
		newGnomadSVCmd(),
		newHelixMTdbCmd(),
		newConsCmd(),
		newClinVarMinimalCmd(),
		newClinVarSVCmd(),
		newClinVarGenesCmd(),
		newGenesCmd(),
		newRegionsCmd(),
		newFunctionalCmd(),
		newFreqsCmd(),
		newDBUtilsCmd(),
		newServerCmd(),
	)
	return cmd
}

func initConfig() {
	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".genomedb")
		viper.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix("genomedb")
	viper.AutomaticEnv()
	// A missing config file is not an error: every flag has a usable
	// default, and no subcommand flag is bound to viper, so values from a
	// config file or GENOMEDB_* environment variables change no behavior.
	_ = viper.ReadInConfig()
}

func initLogger() error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// stderr carries log records, stdout carries machine-readable query
	// output per spec §6.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// exitCodeFor maps the error taxonomy of internal/errs (spec §7) onto
// the exit codes documented in spec §6.
func exitCodeFor(err error) int {
	kind, ok := errs.Of(err)
	if !ok {
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitGenericError
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	switch kind {
	case errs.InvalidInput, errs.AssemblyMismatch:
		return ExitInvalidArgs
	case errs.FormatError, errs.SchemaError:
		return ExitFormatError
	case errs.StoreError, errs.NotFound:
		return ExitStoreError
	default:
		return ExitGenericError
	}
}

// cmdContext returns the background context every subcommand runs
// under; ingest is not cancelable mid-file (spec §5), so there is no
// signal-driven cancellation here by design.
func cmdContext() context.Context {
	return context.Background()
}

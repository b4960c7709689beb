package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newServerCmd implements `server run|schema` (spec §6). The HTTP/OpenAPI
// surface and request routing are an external collaborator per spec §1/§2
// ("the HTTP/OpenAPI surface and DTO mapping" is explicitly out of scope
// for this engine); these subcommands only document the contract an
// external service binds to, the way spec §2's service layer is "thin
// request routing binding query operators to HTTP endpoints".
func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "server", Short: "HTTP service glue (external collaborator; see schema subcommand)"}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Not implemented here: binds query operators to HTTP endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("server run is an external collaborator: route HTTP requests to the query operators in internal/query against one or more opened databases")
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the HTTP endpoint contract this engine's query operators satisfy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(serviceContract())
		},
	}

	cmd.AddCommand(runCmd, schemaCmd)
	return cmd
}

// serviceContract describes, per dataset, the endpoint an HTTP binding
// would route to a query operator. One worker handles one request (spec
// §4.1 scheduling), so the contract is stateless per call.
func serviceContract() []endpointDescription {
	datasets := []string{
		"tsv", "dbsnp", "gnomad-nuclear", "gnomad-mtdna", "gnomad-sv", "helixmtdb",
		"cons", "clinvar-minimal", "clinvar-sv", "clinvar-genes", "genes", "regions", "functional", "freqs",
	}
	out := make([]endpointDescription, 0, len(datasets))
	for _, name := range datasets {
		out = append(out, endpointDescription{
			Dataset: name,
			Path:    "/v1/" + name + "/query",
			Params:  []string{"genome-release", "coordinate", "accession"},
		})
	}
	return out
}

type endpointDescription struct {
	Dataset string   `json:"dataset"`
	Path    string   `json:"path"`
	Params  []string `json:"params"`
}

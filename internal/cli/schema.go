package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quietwrite/internal/schema"
)

// SchemaResult lists the DDL compiled from a CUE schema.
type SchemaResult struct {
	Tables     []string `json:"tables"`
	Statements []string `json:"statements"`
}

func (r SchemaResult) String() string {
	return strings.Join(r.Statements, ";\n") + ";"
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <file.cue>",
		Short: "Print the SQLite DDL for a CUE table schema",
		Long: `Compile a CUE table schema and print its CREATE TABLE statements.

Example:
  quietwrite schema notes.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			tables, err := schema.Load(args[0])
			if err != nil {
				return formatter.Fail("invalid schema", err)
			}

			result := SchemaResult{}
			for _, t := range tables {
				result.Tables = append(result.Tables, t.Name)
				result.Statements = append(result.Statements, t.DDL())
			}
			return formatter.Success(result)
		},
	}

	return cmd
}

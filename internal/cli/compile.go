package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quietwrite/internal/ir"
	"github.com/roach88/quietwrite/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	filterFlags
}

// CompileResult is the compiled change-aware predicate.
type CompileResult struct {
	Predicate string `json:"predicate"`
	Params    []any  `json:"params"`
}

func (r CompileResult) String() string {
	parts := make([]string, len(r.Params))
	for i, p := range r.Params {
		v, err := ir.ValueFromAny(p)
		if err != nil {
			parts[i] = "?"
			continue
		}
		parts[i] = ir.Format(v)
	}
	return "WHERE " + r.Predicate + "\nPARAMS [" + strings.Join(parts, ", ") + "]"
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a change-aware WHERE predicate",
		Long: `Compile a base filter and proposed column values into a WHERE
predicate that matches a row only if at least one value would change.

Nothing is executed; the predicate and its bound parameters are printed.

Examples:
  quietwrite compile --where "_id = ?" --param 1 --set title=hello
  quietwrite compile --set stars=3 --null body
  quietwrite compile --where "_id = ?" --param 1 --text code=007 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	base, err := opts.filter()
	if err != nil {
		return formatter.Fail("invalid parameter", NewExitError(ExitCommandError, err.Error()))
	}

	formatter.VerboseLog("Compiling %d assignment(s) against base filter %q", opts.Set.Len(), base.Text)

	pred, err := querysql.CompileChange(base, opts.Set)
	if err != nil {
		return formatter.Fail("compile failed", err)
	}

	return formatter.Success(CompileResult{
		Predicate: pred.Text,
		Params:    pred.Params,
	})
}

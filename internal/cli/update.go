package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/quietwrite/internal/notify"
	"github.com/roach88/quietwrite/internal/schema"
	"github.com/roach88/quietwrite/internal/store"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	filterFlags
	DB     string
	Table  string
	Schema string // optional CUE schema applied before the update
}

// UpdateResult reports the outcome of one change-aware update.
type UpdateResult struct {
	Table   string         `json:"table"`
	Rows    int64          `json:"rows"`
	Changed bool           `json:"changed"`
	Change  *notify.Change `json:"change,omitempty"`
}

func (r UpdateResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("%s: no rows changed", r.Table)
	}
	if r.Change == nil {
		return fmt.Sprintf("%s: %d row(s) changed", r.Table, r.Rows)
	}
	return fmt.Sprintf("%s: %d row(s) changed (change %s, seq %d)", r.Table, r.Rows, r.Change.ID, r.Change.Seq)
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update rows only where a value would change",
		Long: `Run a change-aware UPDATE against a SQLite database.

Rows matching --where whose stored values already equal every assigned
value are left untouched. The affected-row count is the number of rows
that actually changed.

Exit codes:
  0 - Update executed (including zero rows changed)
  1 - Database error
  2 - Command error (missing flags, malformed filter, bad schema)

Examples:
  quietwrite update --db notes.db --table notes --where "_id = ?" --param 1 --set title=hello
  quietwrite update --db notes.db --schema notes.cue --table notes --null body`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table to update (required)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema whose tables are created before updating")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runUpdate(ctx context.Context, opts *UpdateOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	base, err := opts.filter()
	if err != nil {
		return formatter.Fail("invalid parameter", NewExitError(ExitCommandError, err.Error()))
	}

	if opts.DB != ":memory:" {
		if _, err := os.Stat(opts.DB); os.IsNotExist(err) && opts.Schema == "" {
			return formatter.Fail("database not found",
				NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s (pass --schema to create it)", opts.DB)))
		}
	}

	st, err := store.Open(opts.DB, store.WithLogger(newLogger(opts.RootOptions, cmd)))
	if err != nil {
		return formatter.Fail("failed to open database", err)
	}
	defer st.Close()

	if opts.Schema != "" {
		tables, err := schema.Load(opts.Schema)
		if err != nil {
			return formatter.Fail("failed to load schema", err)
		}
		if err := schema.Apply(ctx, st, tables); err != nil {
			return formatter.Fail("failed to apply schema", err)
		}
		formatter.VerboseLog("Applied %d table(s) from %s", len(tables), opts.Schema)
	}

	sub, err := st.Subscribe(opts.Table)
	if err != nil {
		return formatter.Fail("failed to subscribe", err)
	}
	defer sub.Close()

	rows, err := st.UpdateIfChanged(ctx, opts.Table, base, opts.Set)
	if err != nil {
		return formatter.Fail("update failed", err)
	}

	result := UpdateResult{Table: opts.Table, Rows: rows, Changed: rows > 0}
	if events := sub.Drain(); len(events) > 0 {
		result.Change = &events[0]
	}

	return formatter.Success(result)
}

// newLogger returns the store logger: warnings to stderr, debug with --verbose.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

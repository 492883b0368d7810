package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagecut/pagecut/internal/pagination"
)

// BoundariesOptions holds flags for the boundaries command.
type BoundariesOptions struct {
	*RootOptions
	SchemaDir  string
	StatsDB    string
	Vertex     string
	Field      string
	Partitions int
}

// NewBoundariesCommand creates the boundaries command, which shows the
// boundary values the generator would cut a vertex's value domain at.
func NewBoundariesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoundariesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "boundaries",
		Short:         "Show generated partition boundary values for a vertex field",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoundaries(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "directory of CUE schema config (required)")
	cmd.Flags().StringVar(&opts.StatsDB, "stats-db", "", "SQLite statistics database (overrides config statistics)")
	cmd.Flags().StringVar(&opts.Vertex, "vertex", "", "root vertex type (required)")
	cmd.Flags().StringVar(&opts.Field, "field", "", "pagination field (defaults to the vertex's configured key)")
	cmd.Flags().IntVar(&opts.Partitions, "partitions", 4, "target partition count")
	cmd.MarkFlagRequired("schema")
	cmd.MarkFlagRequired("vertex")

	return cmd
}

func runBoundaries(opts *BoundariesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	schema, cleanup, err := loadSchemaForCommand(opts.SchemaDir, opts.StatsDB, formatter)
	if err != nil {
		return err
	}
	defer cleanup()

	field := opts.Field
	if field == "" {
		key, ok := schema.PaginationKeys[opts.Vertex]
		if !ok {
			msg := fmt.Sprintf("vertex type %q has no pagination key configured and no --field given", opts.Vertex)
			formatter.ErrorOut(ErrCodeBadConfig, msg)
			return WrapExitError(ExitCommandError, msg, nil)
		}
		field = key
	}

	plan := pagination.VertexPartitionPlan{
		Path:            []string{opts.Vertex},
		PaginationField: field,
		PartitionCount:  opts.Partitions,
	}
	var boundaries []any
	for boundary := range pagination.GenerateBoundaries(schema, plan) {
		boundaries = append(boundaries, boundary)
	}

	if opts.Format == "json" {
		return formatter.SuccessJSON(map[string]any{
			"vertex_type": opts.Vertex,
			"field":       field,
			"partitions":  int64(opts.Partitions),
			"boundaries":  boundariesData(boundaries),
		})
	}

	if len(boundaries) == 0 {
		fmt.Fprintf(formatter.Writer, "no boundaries: %s.%s has no statistics and no uuid4 fallback\n", opts.Vertex, field)
		return nil
	}
	for _, boundary := range boundaries {
		fmt.Fprintf(formatter.Writer, "%v\n", boundary)
	}
	return nil
}

func boundariesData(boundaries []any) []any {
	if boundaries == nil {
		return []any{}
	}
	return boundaries
}
